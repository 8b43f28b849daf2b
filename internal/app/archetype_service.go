package app

import (
	"context"
	"time"

	"deerhacks-service/internal/archetype"
	"deerhacks-service/internal/domain"
	"go.uber.org/zap"
)

// ResultRepository abstracts where archetype results live (memory, Redis, Postgres).
type ResultRepository interface {
	Save(ctx context.Context, record domain.ArchetypeRecord) error
	Get(ctx context.Context, userID string) (domain.ArchetypeRecord, error)
	List(ctx context.Context) ([]domain.ArchetypeRecord, error)
}

// ArchetypeService scores quiz submissions and stores the outcome.
type ArchetypeService struct {
	results  ResultRepository
	scorer   archetype.Scorer
	weighted archetype.WeightedScorer
	now      func() time.Time
	logger   *zap.Logger
}

func NewArchetypeService(results ResultRepository, logger *zap.Logger) *ArchetypeService {
	return NewArchetypeServiceWithClock(results, logger, time.Now)
}

// NewArchetypeServiceWithClock is test-only for deterministic timestamps.
func NewArchetypeServiceWithClock(results ResultRepository, logger *zap.Logger, now func() time.Time) *ArchetypeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchetypeService{
		results:  results,
		scorer:   archetype.DefaultScorer(),
		weighted: archetype.DefaultWeightedScorer(),
		now:      now,
		logger:   logger,
	}
}

// Submit scores a single-question answer. Unrecognised answers are rejected
// with ErrUnscoredAnswer rather than stored under the fallback planet.
func (s *ArchetypeService) Submit(ctx context.Context, userID, answer string) (domain.ArchetypeRecord, error) {
	choice, _ := archetype.ParseAnswer(answer)
	return s.store(ctx, userID, s.scorer.Score(choice))
}

// SubmitWeighted scores the legacy five-question quiz.
func (s *ArchetypeService) SubmitWeighted(ctx context.Context, userID string, answers []string) (domain.ArchetypeRecord, error) {
	choices := make([]domain.AnswerChoice, len(answers))
	for i, raw := range answers {
		choices[i], _ = archetype.ParseAnswer(raw)
	}
	return s.store(ctx, userID, s.weighted.Score(choices))
}

func (s *ArchetypeService) store(ctx context.Context, userID string, result domain.ArchetypeResult) (domain.ArchetypeRecord, error) {
	if !result.Scored {
		return domain.ArchetypeRecord{}, domain.ErrUnscoredAnswer
	}
	record := domain.ArchetypeRecord{
		UserID:      userID,
		Result:      result,
		SubmittedAt: s.now(),
	}
	if err := s.results.Save(ctx, record); err != nil {
		return domain.ArchetypeRecord{}, err
	}
	s.logger.Debug("archetype stored",
		zap.String("user", userID),
		zap.String("archetype", string(result.Archetype)))
	return record, nil
}

// Get returns the stored result for a user.
func (s *ArchetypeService) Get(ctx context.Context, userID string) (domain.ArchetypeRecord, error) {
	return s.results.Get(ctx, userID)
}

// Distribution counts users per archetype. Every planet is present.
func (s *ArchetypeService) Distribution(ctx context.Context) (domain.ScoreTable, error) {
	records, err := s.results.List(ctx)
	if err != nil {
		return nil, err
	}
	counts := archetype.NewScoreTable(domain.Planets())
	for _, r := range records {
		if planet, ok := r.Result.Planet(); ok {
			counts[planet]++
		}
	}
	return counts, nil
}
