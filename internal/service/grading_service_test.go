package service

import "testing"

func TestFinalizeManualScore(t *testing.T) {
	tests := []struct {
		name      string
		manual    float64
		max       float64
		wantScore float64
		wantPass  bool
	}{
		{"满分", 10, 10, 10, true},
		{"超出满分截断", 15, 10, 10, true},
		{"负分归零", -3, 10, 0, false},
		{"恰好压线", 6, 10, 6, true},
		{"压线之下", 5.9, 10, 5.9, false},
		{"零分", 0, 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, pass := finalizeManualScore(tt.manual, tt.max)
			if score != tt.wantScore || pass != tt.wantPass {
				t.Errorf("finalizeManualScore(%v, %v) = (%v, %v), want (%v, %v)",
					tt.manual, tt.max, score, pass, tt.wantScore, tt.wantPass)
			}
		})
	}
}
