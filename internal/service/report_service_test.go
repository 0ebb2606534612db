package service

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		total    float64
		scores   []float64
		average  float64
		median   float64
		highest  float64
		lowest   float64
		passRate float64
	}{
		{
			name:     "奇数人数",
			total:    100,
			scores:   []float64{90, 40, 70},
			average:  200.0 / 3,
			median:   70,
			highest:  90,
			lowest:   40,
			passRate: 2.0 / 3, // 及格线 60，90 和 70 及格
		},
		{
			name:     "偶数人数取中间两数均值",
			total:    100,
			scores:   []float64{50, 80, 60, 90},
			average:  70,
			median:   70,
			highest:  90,
			lowest:   50,
			passRate: 0.75, // 60 恰好压线也算及格
		},
		{
			name:     "单人",
			total:    50,
			scores:   []float64{45},
			average:  45,
			median:   45,
			highest:  45,
			lowest:   45,
			passRate: 1,
		},
		{
			name:     "全员不及格",
			total:    100,
			scores:   []float64{10, 20},
			average:  15,
			median:   15,
			highest:  20,
			lowest:   10,
			passRate: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &PaperStats{TotalScore: tt.total}
			stats.summarize(tt.scores)

			if stats.Submissions != len(tt.scores) {
				t.Errorf("Submissions = %d, want %d", stats.Submissions, len(tt.scores))
			}
			if !almostEqual(stats.Average, tt.average) {
				t.Errorf("Average = %v, want %v", stats.Average, tt.average)
			}
			if !almostEqual(stats.Median, tt.median) {
				t.Errorf("Median = %v, want %v", stats.Median, tt.median)
			}
			if stats.Highest != tt.highest || stats.Lowest != tt.lowest {
				t.Errorf("Highest/Lowest = %v/%v, want %v/%v", stats.Highest, stats.Lowest, tt.highest, tt.lowest)
			}
			if !almostEqual(stats.PassRate, tt.passRate) {
				t.Errorf("PassRate = %v, want %v", stats.PassRate, tt.passRate)
			}
		})
	}
}

func TestSummarizeEmpty(t *testing.T) {
	stats := &PaperStats{TotalScore: 100}
	stats.summarize(nil)
	if stats.Submissions != 0 || stats.Average != 0 || stats.PassRate != 0 {
		t.Errorf("empty summarize mutated stats: %+v", stats)
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	scores := []float64{90, 40, 70}
	stats := &PaperStats{TotalScore: 100}
	stats.summarize(scores)
	if scores[0] != 90 || scores[1] != 40 || scores[2] != 70 {
		t.Errorf("input slice reordered: %v", scores)
	}
}
