package utils

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		in     float64
		places int
		want   float64
	}{
		{0.123456, 4, 0.1235},
		{0.99996, 4, 1.0},
		{0, 4, 0},
		{0.5, 0, 1},
	}
	for _, tt := range tests {
		if got := Round(tt.in, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.in, tt.places, got, tt.want)
		}
	}
}

func TestSoftmax(t *testing.T) {
	got := Softmax([]float32{1, 1, 1, 1})
	for i, v := range got {
		if math.Abs(v-0.25) > 1e-9 {
			t.Errorf("softmax[%d] = %v, want 0.25", i, v)
		}
	}

	got = Softmax([]float32{1000, 0})
	if math.IsNaN(got[0]) || got[0] < 0.999 {
		t.Errorf("large logits should not overflow: %v", got)
	}

	if len(Softmax(nil)) != 0 {
		t.Error("empty input should return empty output")
	}
}
