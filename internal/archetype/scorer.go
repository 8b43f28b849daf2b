// Package archetype maps quiz answers onto a planet archetype.
//
// Two scorers exist. Scorer is the canonical single-question quiz used by
// applications: each answer letter maps straight to one planet. WeightedScorer
// is the older five-question quiz where every answer adds a primary (+2) and
// an optional secondary (+1) planet. The two disagree on their fallback planet
// (Earth vs Venus); results expose Scored so callers never depend on it.
package archetype

import (
	"strings"

	"deerhacks-service/internal/domain"
)

// AnswerLetters lists the options of the single-question quiz in display order.
var AnswerLetters = []domain.AnswerChoice{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}

// answerToPlanet is the fixed option->planet table of the single-question quiz.
var answerToPlanet = map[domain.AnswerChoice]domain.Planet{
	"A": domain.Earth,
	"B": domain.Mars,
	"C": domain.Venus,
	"D": domain.Mercury,
	"E": domain.Jupiter,
	"F": domain.Saturn,
	"G": domain.Neptune,
	"H": domain.Uranus,
	"I": domain.Moon,
	"J": domain.Sun,
}

// Scorer scores the single-question quiz.
type Scorer struct {
	// Order fixes which planets appear in the table and how ties resolve.
	Order    []domain.Planet
	Answers  map[domain.AnswerChoice]domain.Planet
	Fallback domain.Planet
}

// DefaultScorer returns the scorer used by applications.
func DefaultScorer() Scorer {
	answers := make(map[domain.AnswerChoice]domain.Planet, len(answerToPlanet))
	for k, v := range answerToPlanet {
		answers[k] = v
	}
	return Scorer{
		Order:    domain.Planets(),
		Answers:  answers,
		Fallback: domain.Earth,
	}
}

// Score awards one point to the planet mapped from answer.
func (s Scorer) Score(answer domain.AnswerChoice) domain.ArchetypeResult {
	result := domain.ArchetypeResult{
		Answers:   []domain.AnswerChoice{answer},
		Scores:    NewScoreTable(s.Order),
		Archetype: s.Fallback,
	}
	planet, ok := s.Answers[answer]
	if !ok {
		return result
	}
	if _, known := result.Scores[planet]; !known {
		return result
	}
	result.Scores[planet] = 1
	result.Archetype = planet
	result.Scored = true
	return result
}

// NewScoreTable returns a table with every planet of order set to zero.
func NewScoreTable(order []domain.Planet) domain.ScoreTable {
	table := make(domain.ScoreTable, len(order))
	for _, p := range order {
		table[p] = 0
	}
	return table
}

// ParseAnswer normalises raw input to an answer letter. It does not check
// the letter against any particular quiz.
func ParseAnswer(raw string) (domain.AnswerChoice, bool) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if len(raw) != 1 || raw[0] < 'A' || raw[0] > 'Z' {
		return "", false
	}
	return domain.AnswerChoice(raw), true
}

// pickMax returns the first planet in order whose score strictly beats
// every earlier one. ok is false when every score is zero.
func pickMax(order []domain.Planet, scores domain.ScoreTable) (domain.Planet, bool) {
	var (
		best    domain.Planet
		maxSeen int
	)
	for _, p := range order {
		if scores[p] > maxSeen {
			maxSeen = scores[p]
			best = p
		}
	}
	return best, maxSeen > 0
}
