package config

import "testing"

func TestMigrationConfig_TargetParsing(t *testing.T) {
	cases := []struct {
		raw      string
		wantFake bool
	}{
		{"latest", false},
		{"fake", true},
		{"fake:5", true},
		{"12", false},
	}
	for _, c := range cases {
		m := MigrationConfig{Target: c.raw}
		target, err := m.Target()
		if err != nil {
			t.Fatalf("Target() for %q: %v", c.raw, err)
		}
		if target.IsFake() != c.wantFake {
			t.Errorf("Target(%q).IsFake() = %v, want %v", c.raw, target.IsFake(), c.wantFake)
		}
	}
}

func TestMigrationConfig_OptionsCarriesFlags(t *testing.T) {
	m := MigrationConfig{
		Target:         "latest",
		TableName:      "custom_history",
		Grouped:        true,
		AbortDivergent: false,
		AbortMissing:   true,
	}
	opts, err := m.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if !opts.Grouped || opts.AbortDivergent || !opts.AbortMissing {
		t.Errorf("unexpected opts: %+v", opts)
	}
	if opts.MigrationTableName != "custom_history" {
		t.Errorf("MigrationTableName = %q, want custom_history", opts.MigrationTableName)
	}
}
