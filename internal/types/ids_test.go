package types

import (
	"testing"
)

func TestNewIDUnique(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 10000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestNewIDNotZero(t *testing.T) {
	if NewID().IsZero() {
		t.Error("NewID returned a zero id")
	}

	var zero ID
	if !zero.IsZero() {
		t.Error("zero value should report IsZero")
	}
}
