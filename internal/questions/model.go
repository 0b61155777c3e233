package questions

// Question types.
const (
	TypeMCQ  = "mcq"
	TypeText = "text"
)

// Question modes. Card questions are harder puzzle-style questions with
// hand-coded correctness checks.
const (
	ModeBase = "base"
	ModeCard = "card"
)

// Card question subtypes with custom checks.
const (
	SubtypePairToTarget = "robot_pair_to_target"
	SubtypeWordLadder   = "word_ladder_lisa_nora"
)

// Bank-wide filter modes restricting which question mode may be selected.
const (
	FilterAll       = "all"
	FilterCardsOnly = "cards_only"
	FilterNoCards   = "no_cards"
)

// Question is the canonical, immutable form every bank entry is normalized
// into at load time. Options/CorrectIndex apply to mcq questions, Accept to
// text questions.
type Question struct {
	ID           string
	Category     string
	Type         string
	Prompt       string
	Mode         string
	Subtype      string
	Difficulty   string
	Tags         []string
	TimeRef      int // preferred time limit in seconds, 0 if unspecified
	Options      []string
	CorrectIndex int
	Accept       []string
}

func ValidFilter(mode string) bool {
	switch mode {
	case FilterAll, FilterCardsOnly, FilterNoCards:
		return true
	}
	return false
}

func allowedByFilter(q Question, filter string) bool {
	switch filter {
	case FilterCardsOnly:
		return q.Mode == ModeCard
	case FilterNoCards:
		return q.Mode != ModeCard
	}
	return true
}
