package featureflags

import "testing"

func TestIsEnabled_BooleanValues(t *testing.T) {
	f := Parse("a=on,b=off,c=true,d=false,e=1,f=0")

	if !f.IsEnabled("a", 1) || !f.IsEnabled("c", 1) || !f.IsEnabled("e", 1) {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if f.IsEnabled("b", 1) || f.IsEnabled("d", 1) || f.IsEnabled("f", 1) {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
}

func TestIsEnabled_PercentageRollout(t *testing.T) {
	f := Parse("always=100%,never=0%,canary=25%")

	if !f.IsEnabled("always", 1) {
		t.Fatal("100% rollout should always be enabled")
	}
	if f.IsEnabled("never", 1) {
		t.Fatal("0% rollout should always be disabled")
	}

	first := f.IsEnabled("canary", 42)
	for i := 0; i < 5; i++ {
		if got := f.IsEnabled("canary", 42); got != first {
			t.Fatal("rollout evaluation must be deterministic per user")
		}
	}

	if f.IsEnabled("canary", 0) {
		t.Fatal("percentage rollout requires a non-zero userID")
	}
}

func TestParse_SkipsMalformedPairs(t *testing.T) {
	f := Parse(" bad ,x=on, y = 20% ,z=off,w=150%,v=huh ")

	states := f.States(123)
	if len(states) != 3 {
		t.Fatalf("expected 3 parsed flags, got %d", len(states))
	}
	if !states["x"] {
		t.Fatal("x should be on")
	}
	if states["z"] {
		t.Fatal("z should be off")
	}
}

func TestNilFlags(t *testing.T) {
	var f *Flags
	if f.IsEnabled(FlagOpsDashboard, 1) {
		t.Fatal("nil flags must evaluate disabled")
	}
}
