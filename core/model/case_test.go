package model

import (
	"testing"
	"time"
)

func TestCaseValidate(t *testing.T) {
	c := Case{Name: "anna", DurationMin: 60, Eligible: []string{"Mon AM"}}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Case{Name: "x", DurationMin: 0, Eligible: []string{"s"}}).Validate(); err == nil {
		t.Fatal("expected error for zero duration")
	}
	if err := (Case{Name: "x", DurationMin: 30}).Validate(); err == nil {
		t.Fatal("expected error for empty eligibility")
	}
}

func TestCaseDurationUnits(t *testing.T) {
	c := Case{Name: "anna", DurationMin: 60}
	units, ok := c.DurationUnits(30)
	if !ok || units != 2 {
		t.Fatalf("expected 2 units, got %d ok=%v", units, ok)
	}
	if _, ok := c.DurationUnits(45); ok {
		t.Fatal("60 is not a multiple of 45")
	}
}

func TestCaseWeightDefault(t *testing.T) {
	if w := (Case{}).Weight(); w != 1 {
		t.Fatalf("zero priority should weigh 1, got %v", w)
	}
	if w := (Case{Priority: 2.5}).Weight(); w != 2.5 {
		t.Fatalf("expected 2.5, got %v", w)
	}
}

func TestWindowOverlaps(t *testing.T) {
	a := Window{Name: "a", Day: time.Monday, StartMin: 540, EndMin: 660}
	b := Window{Name: "b", Day: time.Monday, StartMin: 600, EndMin: 720}
	c := Window{Name: "c", Day: time.Monday, StartMin: 660, EndMin: 720}
	d := Window{Name: "d", Day: time.Tuesday, StartMin: 540, EndMin: 660}
	if !a.Overlaps(b) {
		t.Fatal("a and b overlap")
	}
	if a.Overlaps(c) {
		t.Fatal("a and c only touch")
	}
	if a.Overlaps(d) {
		t.Fatal("different days never overlap")
	}
}
