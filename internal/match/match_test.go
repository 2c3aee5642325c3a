package match

import "testing"

var official = []string{"Kathmandu", "Pokhara", "Lalitpur"}

func TestExactLabelAlwaysMatches(t *testing.T) {
	for _, fuzzy := range []bool{true, false} {
		m := NewMatcher(fuzzy)
		res, ok := m.Match("Pokhara", official)
		if !ok {
			t.Fatalf("fuzzy=%v: exact label did not match", fuzzy)
		}
		if res.Name != "Pokhara" {
			t.Errorf("fuzzy=%v: got %q, want Pokhara", fuzzy, res.Name)
		}
		if res.Corrected {
			t.Errorf("fuzzy=%v: exact match reported as corrected", fuzzy)
		}
	}
}

func TestTypoMatchesWithCorrection(t *testing.T) {
	m := NewMatcher(true)
	res, ok := m.Match("Katmandu", official)
	if !ok {
		t.Fatal("typo label did not match")
	}
	if res.Name != "Kathmandu" {
		t.Errorf("got %q, want Kathmandu", res.Name)
	}
	if !res.Corrected {
		t.Error("corrected match not flagged")
	}
	if res.Score < 80 {
		t.Errorf("accepted score %.1f below threshold", res.Score)
	}
}

func TestLowScoreNeverMatches(t *testing.T) {
	m := NewMatcher(true)
	if res, ok := m.Match("Zzzzzzzz", official); ok {
		t.Fatalf("unrelated label matched %q (score %.1f)", res.Name, res.Score)
	}
}

func TestExactFallbackIsCaseSensitive(t *testing.T) {
	m := NewMatcher(false)
	if _, ok := m.Match("kathmandu", official); ok {
		t.Fatal("exact fallback matched a case-variant label")
	}
}

func TestTieBreakFirstWins(t *testing.T) {
	// 两个官方名与标签对称，相似度并列；应保留先遇到的
	m := NewMatcher(true)
	res, ok := m.Match("Kirtipur", []string{"Kirtipura", "Kirtipuri"})
	if !ok {
		t.Fatal("no match")
	}
	if res.Name != "Kirtipura" {
		t.Errorf("tie broke to %q, want first entry Kirtipura", res.Name)
	}
}

func TestEmptyOfficialList(t *testing.T) {
	m := NewMatcher(true)
	if _, ok := m.Match("Kathmandu", nil); ok {
		t.Fatal("matched against empty official list")
	}
}
