package migrate

import "testing"

func TestTarget_BoundAndIsFake(t *testing.T) {
	cases := []struct {
		name       string
		target     Target
		wantBound  bool
		wantFake   bool
	}{
		{"latest", Latest(), false, false},
		{"version", Version(5), true, false},
		{"fake", Fake(), false, true},
		{"fake-version", FakeVersion(5), true, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, bounded := c.target.Bound()
			if bounded != c.wantBound {
				t.Errorf("Bound() bounded = %v, want %v", bounded, c.wantBound)
			}
			if c.target.IsFake() != c.wantFake {
				t.Errorf("IsFake() = %v, want %v", c.target.IsFake(), c.wantFake)
			}
		})
	}
}

func TestShouldApply_VersionedAboveCeilingSkipped(t *testing.T) {
	m := mig(10, Versioned, "x", 1, "")
	if shouldApply(m, Version(5)) {
		t.Fatal("expected a versioned migration above the ceiling to be skipped")
	}
}

func TestShouldApply_RerunnableAlwaysApplies(t *testing.T) {
	m := mig(10, Rerunnable, "x", 1, "")
	if !shouldApply(m, Version(5)) {
		t.Fatal("expected a rerunnable migration to apply regardless of the version ceiling")
	}
}

func TestShouldApply_LatestAndFakeAreUnbounded(t *testing.T) {
	m := mig(999, Versioned, "x", 1, "")
	if !shouldApply(m, Latest()) {
		t.Fatal("Latest must never skip")
	}
	if !shouldApply(m, Fake()) {
		t.Fatal("Fake must never skip")
	}
}
