package todo

import "testing"

func TestValidPriority(t *testing.T) {
	tests := []struct {
		priority int
		want     bool
	}{
		{-1, false},
		{0, true},
		{1, true},
		{3, true},
		{4, false},
	}

	for _, tt := range tests {
		if got := ValidPriority(tt.priority); got != tt.want {
			t.Errorf("ValidPriority(%d) = %v, want %v", tt.priority, got, tt.want)
		}
	}
}

func TestSubtaskPolicy_Valid(t *testing.T) {
	if !SubtaskCascade.Valid() || !SubtaskDetach.Valid() {
		t.Error("expected built-in policies to be valid")
	}
	if SubtaskPolicy("orphan").Valid() {
		t.Error("expected unknown policy to be invalid")
	}
}
