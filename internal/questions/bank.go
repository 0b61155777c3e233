package questions

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// rawQuestion covers both legacy bank shapes: the current one keyed by
// type/title, and the older one keyed by prompt/answers.
type rawQuestion struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Prompt       string   `json:"prompt"`
	Answers      []any    `json:"answers"`
	Accept       []any    `json:"accept"`
	Options      []any    `json:"options"`
	CorrectIndex *int     `json:"correctIndex"`
	Mode         string   `json:"mode"`
	Subtype      string   `json:"subtype"`
	Difficulty   string   `json:"difficulty"`
	TimeRef      int      `json:"timeRef"`
	Tags         []string `json:"tags"`
}

// Bank holds the read-only question bank, loaded from a JSON file mapping
// category name to a list of questions. Safe for concurrent use; Load swaps
// the whole bank atomically.
type Bank struct {
	mu         sync.RWMutex
	path       string
	byCategory map[string][]Question
	categories []string
}

func NewBank(path string) *Bank {
	return &Bank{
		path:       path,
		byCategory: make(map[string][]Question),
	}
}

// Path returns the bank file location.
func (b *Bank) Path() string { return b.path }

// Load reads and normalizes the bank file, replacing the current contents.
func (b *Bank) Load() error {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return fmt.Errorf("reading question bank: %w", err)
	}

	var raw map[string][]rawQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing question bank: %w", err)
	}

	byCategory, categories := transform(raw)

	b.mu.Lock()
	b.byCategory = byCategory
	b.categories = categories
	b.mu.Unlock()
	return nil
}

// transform normalizes both legacy shapes into canonical Questions,
// dropping entries that cannot be made whole (unknown type, mcq without
// options or a correct index).
func transform(raw map[string][]rawQuestion) (map[string][]Question, []string) {
	out := make(map[string][]Question)
	var categories []string
	idCounter := 1

	for category, list := range raw {
		var qs []Question
		for _, r := range list {
			switch {
			case r.Type != "" && r.Title != "":
				if r.Type != TypeMCQ && r.Type != TypeText {
					continue
				}
				q := Question{
					ID:         r.ID,
					Category:   category,
					Type:       r.Type,
					Prompt:     trimPrompt(r.Title),
					Mode:       r.Mode,
					Subtype:    r.Subtype,
					Difficulty: r.Difficulty,
					Tags:       r.Tags,
					TimeRef:    r.TimeRef,
				}
				if q.ID == "" {
					q.ID = "q" + strconv.Itoa(idCounter)
				}
				idCounter++
				if q.Mode == "" {
					q.Mode = ModeBase
				}
				if r.Type == TypeMCQ {
					if len(r.Options) == 0 || r.CorrectIndex == nil {
						continue
					}
					q.Options = asStrings(r.Options)
					q.CorrectIndex = *r.CorrectIndex
				} else {
					q.Accept = asStrings(r.Accept)
				}
				qs = append(qs, q)

			case r.Prompt != "" && r.Answers != nil:
				q := Question{
					ID:       r.ID,
					Category: category,
					Type:     TypeText,
					Prompt:   trimPrompt(r.Prompt),
					Mode:     ModeBase,
					Accept:   asStrings(r.Answers),
				}
				if q.ID == "" {
					q.ID = "q" + strconv.Itoa(idCounter)
				}
				idCounter++
				qs = append(qs, q)
			}
		}
		if len(qs) > 0 {
			out[category] = qs
			categories = append(categories, category)
		}
	}

	return out, categories
}

// Counts reports the total question count and a per-category breakdown.
func (b *Bank) Counts() (int, map[string]int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	total := 0
	perCategory := make(map[string]int, len(b.byCategory))
	for cat, qs := range b.byCategory {
		perCategory[cat] = len(qs)
		total += len(qs)
	}
	return total, perCategory
}

// HasCard reports whether any card-mode question passes the given filter.
func (b *Bank) HasCard(filter string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, qs := range b.byCategory {
		for _, q := range qs {
			if q.Mode == ModeCard && allowedByFilter(q, filter) {
				return true
			}
		}
	}
	return false
}
