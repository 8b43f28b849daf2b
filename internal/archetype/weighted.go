package archetype

import "deerhacks-service/internal/domain"

const (
	primaryPoints   = 2
	secondaryPoints = 1
)

// Weight is what one answer contributes. Secondary is empty when unused.
type Weight struct {
	Primary   domain.Planet
	Secondary domain.Planet
}

// WeightedScorer scores the legacy five-question quiz.
type WeightedScorer struct {
	Order []domain.Planet
	// Questions[i] is the weight table of question i+1.
	Questions []map[domain.AnswerChoice]Weight
	Fallback  domain.Planet
}

// DefaultWeightedScorer returns the five-question scorer with its original
// weights. Its fallback is Venus, unlike Scorer.
func DefaultWeightedScorer() WeightedScorer {
	return WeightedScorer{
		Order: domain.Planets(),
		Questions: []map[domain.AnswerChoice]Weight{
			{
				"A": {Primary: domain.Venus, Secondary: domain.Neptune},
				"B": {Primary: domain.Earth, Secondary: domain.Saturn},
				"C": {Primary: domain.Jupiter},
				"D": {Primary: domain.Uranus},
				"E": {Primary: domain.Sun, Secondary: domain.Mercury},
			},
			{
				"A": {Primary: domain.Saturn},
				"B": {Primary: domain.Mars},
				"C": {Primary: domain.Moon},
				"D": {Primary: domain.Neptune},
				"E": {Primary: domain.Mercury},
			},
			{
				"A": {Primary: domain.Earth},
				"B": {Primary: domain.Venus},
				"C": {Primary: domain.Jupiter},
				"D": {Primary: domain.Uranus},
				"E": {Primary: domain.Moon},
			},
			{
				"A": {Primary: domain.Mercury},
				"B": {Primary: domain.Mars, Secondary: domain.Sun},
				"C": {Primary: domain.Earth},
				"D": {Primary: domain.Neptune},
				"E": {Primary: domain.Sun},
			},
			{
				"A": {Primary: domain.Mars},
				"B": {Primary: domain.Mercury},
				"C": {Primary: domain.Saturn},
				"D": {Primary: domain.Jupiter, Secondary: domain.Uranus},
				"E": {Primary: domain.Sun, Secondary: domain.Moon},
			},
		},
		Fallback: domain.Venus,
	}
}

// Score accumulates weights across answers; answers[i] answers question i+1.
// Answers beyond the last question or outside a question's table add nothing.
// Ties go to the planet listed first in Order.
func (s WeightedScorer) Score(answers []domain.AnswerChoice) domain.ArchetypeResult {
	scores := NewScoreTable(s.Order)
	for i, answer := range answers {
		if i >= len(s.Questions) || answer == "" {
			continue
		}
		weight, ok := s.Questions[i][answer]
		if !ok {
			continue
		}
		if _, known := scores[weight.Primary]; known {
			scores[weight.Primary] += primaryPoints
		}
		if _, known := scores[weight.Secondary]; known && weight.Secondary != "" {
			scores[weight.Secondary] += secondaryPoints
		}
	}

	result := domain.ArchetypeResult{
		Answers:   append([]domain.AnswerChoice(nil), answers...),
		Scores:    scores,
		Archetype: s.Fallback,
	}
	if planet, ok := pickMax(s.Order, scores); ok {
		result.Archetype = planet
		result.Scored = true
	}
	return result
}
