package grading

import "testing"

func TestMatch_Exact(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		correct string
		want    bool
	}{
		{name: "identical", user: "光合作用", correct: "光合作用", want: true},
		{name: "surrounding whitespace", user: "  光合作用 ", correct: "光合作用", want: true},
		{name: "punctuation stripped", user: "光合作用。", correct: "光合作用", want: true},
		{name: "ascii case insensitive", user: "H2O", correct: "h2o", want: true},
		{name: "empty user answer", user: "", correct: "光合作用", want: false},
		{name: "empty correct answer", user: "光合作用", correct: "", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Match(tc.user, tc.correct, DefaultThreshold); got != tc.want {
				t.Fatalf("Match(%q, %q) = %v, want %v", tc.user, tc.correct, got, tc.want)
			}
		})
	}
}

func TestMatch_FuzzyThreshold(t *testing.T) {
	// 错一个字的笔误放过，换概念的答案拦下
	if !Match("光合做用", "光合作用", DefaultThreshold) {
		t.Fatal("one-character typo should pass at threshold 0.8")
	}
	if Match("呼吸作用", "光合作用", DefaultThreshold) {
		t.Fatal("different concept should not pass at threshold 0.8")
	}
}

func TestMatch_Containment(t *testing.T) {
	if !Match("北京", "北京市", DefaultThreshold) {
		t.Fatal("contained answer should match")
	}
	if !Match("北京市", "北京", DefaultThreshold) {
		t.Fatal("containment should work in both directions")
	}
}

func TestMatch_Synonyms(t *testing.T) {
	tests := []struct {
		user    string
		correct string
	}{
		{user: "首都", correct: "北京"},
		{user: "对", correct: "正确"},
		{user: "1", correct: "一"},
	}
	for _, tc := range tests {
		if !Match(tc.user, tc.correct, DefaultThreshold) {
			t.Errorf("Match(%q, %q) = false, want synonym match", tc.user, tc.correct)
		}
	}
}

func TestMatch_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"光合做用", "光合作用"},
		{"呼吸作用", "光合作用"},
		{"abc", "xyz"},
	}
	for _, p := range pairs {
		a := Match(p[0], p[1], DefaultThreshold)
		b := Match(p[1], p[0], DefaultThreshold)
		if a != b {
			t.Errorf("Match is not symmetric for %q / %q: %v vs %v", p[0], p[1], a, b)
		}
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	if s := similarity("光合作用", "光合作用"); s != 1.0 {
		t.Fatalf("identical strings should score 1.0, got %v", s)
	}
	if s := similarity("甲乙丙丁", "戊己庚辛"); s != 0.0 {
		t.Fatalf("disjoint strings should score 0, got %v", s)
	}
}

func TestMatchArray(t *testing.T) {
	tests := []struct {
		name    string
		user    []string
		correct []string
		want    bool
	}{
		{name: "all blanks match", user: []string{"北京", "长江"}, correct: []string{"北京", "长江"}, want: true},
		{name: "typo in one blank still passes", user: []string{"光合做用"}, correct: []string{"光合作用"}, want: true},
		{name: "one wrong blank fails whole answer", user: []string{"北京", "黄河"}, correct: []string{"北京", "长江"}, want: false},
		{name: "length mismatch fails", user: []string{"北京"}, correct: []string{"北京", "长江"}, want: false},
		{name: "both empty", user: nil, correct: nil, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchArray(tc.user, tc.correct, DefaultThreshold); got != tc.want {
				t.Fatalf("MatchArray(%v, %v) = %v, want %v", tc.user, tc.correct, got, tc.want)
			}
		})
	}
}
