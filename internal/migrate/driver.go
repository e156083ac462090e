package migrate

import "context"

// Transaction is the minimal capability a backend adapter must provide:
// execute a sequence of SQL strings atomically. On any failure the
// transaction is rolled back and no effect is visible; the returned count
// is the number of queries drained before success.
type Transaction interface {
	Execute(queries []string) (int, error)
}

// Query refines Transaction with the ability to run a single statement
// and materialize the applied-migration history. It opens a transaction,
// runs the statement, reads the rows into Migration values, commits, and
// returns them.
type Query interface {
	Transaction
	QueryMigrations(sql string) ([]Migration, error)
}

// ContextTransaction is Transaction's suspending counterpart: the same
// contract, but every suspension point (dial, exec, commit) observes
// ctx so a caller can cancel or time out a migrate run. This is Go's
// idiomatic analogue of a separate async driver family — the language has
// no coroutine-suspension distinct from a blocking call, so "suspending"
// here means "cancellable via context.Context" rather than a different
// calling convention.
type ContextTransaction interface {
	Execute(ctx context.Context, queries []string) (int, error)
}

// ContextQuery is the suspending counterpart of Query.
type ContextQuery interface {
	ContextTransaction
	QueryMigrations(ctx context.Context, sql string) ([]Migration, error)
}

// blockingAsContext adapts a blocking Query to ContextQuery by checking
// ctx for cancellation before each call; the underlying driver call itself
// still runs to completion once started, same as e.g. database/sql's own
// non-context methods would if a context-free driver were given one.
type blockingAsContext struct {
	q Query
}

// AsContextQuery wraps a blocking Query so the execution driver (runner.go)
// can always program against ContextQuery, regardless of which family the
// caller's adapter implements.
func AsContextQuery(q Query) ContextQuery {
	return blockingAsContext{q: q}
}

func (b blockingAsContext) Execute(ctx context.Context, queries []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return b.q.Execute(queries)
}

func (b blockingAsContext) QueryMigrations(ctx context.Context, sql string) ([]Migration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.q.QueryMigrations(sql)
}

// contextAsBlocking is the mirror image of blockingAsContext: it adapts a
// ContextQuery to the blocking Query interface by supplying
// context.Background() at each call. Driver adapters built on
// database/sql implement ContextQuery directly, since every suspension
// point (BeginTx, ExecContext, Commit) can genuinely observe ctx; this
// wrapper is how such an adapter is still handed to the blocking Migrate
// entry point without also defining a second, ctx-ignorant Execute method
// on the same type under a different name.
type contextAsBlocking struct {
	cq ContextQuery
}

// AsQuery wraps a ContextQuery so it can be passed to Migrate, the
// blocking entry point. Prefer calling MigrateContext directly when a
// ctx is available; use this only at the boundary where the caller has
// committed to the blocking API.
func AsQuery(cq ContextQuery) Query {
	return contextAsBlocking{cq: cq}
}

func (c contextAsBlocking) Execute(queries []string) (int, error) {
	return c.cq.Execute(context.Background(), queries)
}

func (c contextAsBlocking) QueryMigrations(sql string) ([]Migration, error) {
	return c.cq.QueryMigrations(context.Background(), sql)
}
