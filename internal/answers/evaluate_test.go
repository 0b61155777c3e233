package answers

import (
	"testing"

	"trivianight/internal/questions"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Hello  World  ", "hello world"},
		{"7,5", "7.5"},
		{"ABC", "abc"},
		{"", ""},
		{"\tmulti\n line ", "multi line"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCheckText_ExactAndNumeric(t *testing.T) {
	accepted := []string{"7.5"}

	for _, sub := range []string{"7,5", "7.5", " 7.5 "} {
		if !CheckText(sub, accepted) {
			t.Errorf("CheckText(%q, %v) = false, want true", sub, accepted)
		}
	}
	if CheckText("8", accepted) {
		t.Error("CheckText(\"8\") = true, want false")
	}
}

func TestCheckText_NumericFallbackUsesFirstAccepted(t *testing.T) {
	// "07.50" doesn't match textually but equals 7.5 numerically
	if !CheckText("07.50", []string{"7.5", "seven and a half"}) {
		t.Error("numeric comparison against first accepted answer failed")
	}
}

func TestCheckText_EmptyAccepted(t *testing.T) {
	if CheckText("anything", nil) {
		t.Error("CheckText with no accepted answers should be false")
	}
}

func TestCheckText_NonNumericMismatch(t *testing.T) {
	if CheckText("paris", []string{"london"}) {
		t.Error("mismatched text should be incorrect, not an error")
	}
}

func TestCheckChoice(t *testing.T) {
	one := 1
	zero := 0
	two := 2

	if !CheckChoice(&one, 1) {
		t.Error("correct choice index rejected")
	}
	if CheckChoice(&zero, 1) || CheckChoice(&two, 1) {
		t.Error("wrong choice index accepted")
	}
	if CheckChoice(nil, 1) {
		t.Error("missing choice accepted")
	}
}

func TestCheckPairToTarget(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"7 11", true},       // 7*11-5 == 72
		{"11 and 7", true},   // order irrelevant, 11*7-5 == 72
		{"9 9", false},       // 9*9-5 == 76
		{"9 8", false},       // 9*8-5 == 67
		{"-7 -11", false},    // must be strictly positive
		{"77", false},        // needs at least two integers
		{"no numbers", false},
		{"", false},
		{"7 11 5", true}, // only the first two integers count
	}
	for _, c := range cases {
		if got := CheckPairToTarget(c.in); got != c.want {
			t.Errorf("CheckPairToTarget(%q) = %t, want %t", c.in, got, c.want)
		}
	}
}

func TestCheckWordLadder(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"лиса -> ... -> нора", true},
		{"ЛИСА НОРА", true},
		{"Лиса, потом нора", true},
		{"лиса only", false},
		{"нора only", false},
		{"", false},
		{"   ", false},
	}
	for _, c := range cases {
		if got := CheckWordLadder(c.in); got != c.want {
			t.Errorf("CheckWordLadder(%q) = %t, want %t", c.in, got, c.want)
		}
	}
}

func TestEvaluate_MCQ(t *testing.T) {
	q := questions.Question{
		Type:         questions.TypeMCQ,
		Mode:         questions.ModeBase,
		Options:      []string{"2", "3", "4"},
		CorrectIndex: 1,
	}
	one := 1
	zero := 0
	if !Evaluate(q, "", &one) {
		t.Error("correct mcq choice rejected")
	}
	if Evaluate(q, "", &zero) {
		t.Error("wrong mcq choice accepted")
	}
	if Evaluate(q, "", nil) {
		t.Error("missing mcq choice accepted")
	}
}

func TestEvaluate_CardSubtypes(t *testing.T) {
	pair := questions.Question{
		Type:    questions.TypeText,
		Mode:    questions.ModeCard,
		Subtype: questions.SubtypePairToTarget,
	}
	if !Evaluate(pair, "7 11", nil) {
		t.Error("pair puzzle correct answer rejected")
	}
	if Evaluate(pair, "9 9", nil) {
		t.Error("pair puzzle wrong answer accepted")
	}

	ladder := questions.Question{
		Type:    questions.TypeText,
		Mode:    questions.ModeCard,
		Subtype: questions.SubtypeWordLadder,
	}
	if !Evaluate(ladder, "лиса ... нора", nil) {
		t.Error("word ladder correct answer rejected")
	}
}

func TestEvaluate_CardUnknownSubtypeFallsThrough(t *testing.T) {
	q := questions.Question{
		Type:    questions.TypeText,
		Mode:    questions.ModeCard,
		Subtype: "some_future_subtype",
		Accept:  []string{"42"},
	}
	if !Evaluate(q, "42", nil) {
		t.Error("card question with unknown subtype should use the generic text check")
	}
}
