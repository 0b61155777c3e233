// Package answers holds the pure correctness checks applied when a round
// resolves. Every check is deterministic and treats malformed input as an
// incorrect answer, never as an error.
package answers

import (
	"regexp"
	"strconv"
	"strings"

	"trivianight/internal/questions"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	integers   = regexp.MustCompile(`-?\d+`)
)

// Normalize prepares a free-text answer for comparison: trim, collapse
// internal whitespace, map decimal commas to dots, lowercase.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.ToLower(s)
}

// CheckText compares a submission against the accepted answers. Exact
// normalized match wins; otherwise the submission and the first accepted
// answer are compared as decimal numbers.
func CheckText(submitted string, accepted []string) bool {
	if len(accepted) == 0 {
		return false
	}
	u := Normalize(submitted)
	for _, a := range accepted {
		if Normalize(a) == u {
			return true
		}
	}
	uf, err := strconv.ParseFloat(u, 64)
	if err != nil {
		return false
	}
	af, err := strconv.ParseFloat(Normalize(accepted[0]), 64)
	if err != nil {
		return false
	}
	return uf == af
}

// CheckChoice reports whether a submitted option index hits the correct one.
func CheckChoice(choice *int, correctIndex int) bool {
	return choice != nil && *choice == correctIndex
}

// CheckPairToTarget is the "pair multiply to target" card puzzle: the first
// two integers in the submission must both be strictly positive and satisfy
// a*b - 5 == 72.
func CheckPairToTarget(text string) bool {
	nums := integers.FindAllString(text, -1)
	if len(nums) < 2 {
		return false
	}
	a, err := strconv.Atoi(nums[0])
	if err != nil {
		return false
	}
	b, err := strconv.Atoi(nums[1])
	if err != nil {
		return false
	}
	if a <= 0 || b <= 0 {
		return false
	}
	return a*b-5 == 72
}

// CheckWordLadder is the word-ladder card puzzle: the submission must
// contain both endpoint words, case-insensitively.
func CheckWordLadder(text string) bool {
	s := strings.TrimSpace(text)
	if s == "" {
		return false
	}
	u := strings.ToUpper(s)
	return strings.Contains(u, "ЛИСА") && strings.Contains(u, "НОРА")
}

// Evaluate maps a submission to a correctness verdict for the given
// question. Card questions with a known subtype use their hand-coded check;
// everything else falls through to the generic mcq/text comparison.
func Evaluate(q questions.Question, text string, choice *int) bool {
	if q.Mode == questions.ModeCard {
		switch q.Subtype {
		case questions.SubtypePairToTarget:
			return CheckPairToTarget(text)
		case questions.SubtypeWordLadder:
			return CheckWordLadder(text)
		}
	}
	if q.Type == questions.TypeMCQ {
		return CheckChoice(choice, q.CorrectIndex)
	}
	return CheckText(text, q.Accept)
}
