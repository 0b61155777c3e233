package questions

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Placeholder returned when the bank is completely empty, so a round loop
// never stalls waiting for a question.
func placeholder() Question {
	return Question{
		ID:       "none",
		Category: "N/A",
		Type:     TypeText,
		Prompt:   "(no questions loaded)",
		Accept:   []string{""},
		Mode:     ModeBase,
	}
}

// Pick selects a question that is not in used, matches desiredMode (if
// non-empty) and passes the filter. If no candidate matches the desired
// mode, the mode constraint is relaxed but the filter kept. If still
// nothing remains, used is ignored and a question is drawn uniformly from
// the whole bank; an empty bank yields a placeholder. Selection among
// candidates is uniform random.
func (b *Bank) Pick(used map[string]bool, desiredMode, filter string) Question {
	b.mu.RLock()
	defer b.mu.RUnlock()

	candidates := b.collect(used, desiredMode, filter)
	if len(candidates) == 0 && desiredMode != "" {
		candidates = b.collect(used, "", filter)
	}
	if len(candidates) > 0 {
		return candidates[rand.Intn(len(candidates))]
	}

	if len(b.categories) == 0 {
		return placeholder()
	}
	cat := b.categories[rand.Intn(len(b.categories))]
	qs := b.byCategory[cat]
	return qs[rand.Intn(len(qs))]
}

// collect assumes b.mu is held.
func (b *Bank) collect(used map[string]bool, desiredMode, filter string) []Question {
	var candidates []Question
	for _, cat := range b.categories {
		for _, q := range b.byCategory[cat] {
			if used[q.ID] {
				continue
			}
			if !allowedByFilter(q, filter) {
				continue
			}
			if desiredMode != "" && q.Mode != desiredMode {
				continue
			}
			candidates = append(candidates, q)
		}
	}
	return candidates
}

func trimPrompt(s string) string {
	return strings.TrimSpace(s)
}

// asStrings stringifies a heterogeneous JSON list the way the bank files
// use them (numbers and strings mixed in option and accept lists).
func asStrings(list []any) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case float64:
			out = append(out, strconv.FormatFloat(t, 'f', -1, 64))
		default:
			out = append(out, fmt.Sprintf("%v", t))
		}
	}
	return out
}
