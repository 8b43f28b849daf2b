package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"deerhacks-service/internal/domain"
	"github.com/uptrace/bun"
)

type resultRow struct {
	bun.BaseModel `bun:"table:archetype_results"`

	UserID      string                `bun:"user_id,pk"`
	Archetype   string                `bun:"archetype,notnull"`
	Scored      bool                  `bun:"scored,notnull"`
	Scores      map[domain.Planet]int `bun:"scores,type:jsonb,notnull"`
	Answers     []string              `bun:"answers,type:jsonb,notnull"`
	SubmittedAt time.Time             `bun:"submitted_at,notnull"`
}

// ResultStore keeps archetype results in the archetype_results table.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) Save(ctx context.Context, record domain.ArchetypeRecord) error {
	row := toRow(record)
	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (user_id) DO UPDATE").
		Set("archetype = EXCLUDED.archetype").
		Set("scored = EXCLUDED.scored").
		Set("scores = EXCLUDED.scores").
		Set("answers = EXCLUDED.answers").
		Set("submitted_at = EXCLUDED.submitted_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *ResultStore) Get(ctx context.Context, userID string) (domain.ArchetypeRecord, error) {
	var row resultRow
	err := s.db.NewSelect().Model(&row).Where("user_id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ArchetypeRecord{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.ArchetypeRecord{}, fmt.Errorf("load result: %w", err)
	}
	return row.toRecord(), nil
}

func (s *ResultStore) List(ctx context.Context) ([]domain.ArchetypeRecord, error) {
	var rows []resultRow
	if err := s.db.NewSelect().Model(&rows).Order("user_id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	out := make([]domain.ArchetypeRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toRecord())
	}
	return out, nil
}

func toRow(record domain.ArchetypeRecord) resultRow {
	answers := make([]string, len(record.Result.Answers))
	for i, a := range record.Result.Answers {
		answers[i] = string(a)
	}
	return resultRow{
		UserID:      record.UserID,
		Archetype:   string(record.Result.Archetype),
		Scored:      record.Result.Scored,
		Scores:      record.Result.Scores,
		Answers:     answers,
		SubmittedAt: record.SubmittedAt,
	}
}

func (r resultRow) toRecord() domain.ArchetypeRecord {
	answers := make([]domain.AnswerChoice, len(r.Answers))
	for i, a := range r.Answers {
		answers[i] = domain.AnswerChoice(a)
	}
	return domain.ArchetypeRecord{
		UserID: r.UserID,
		Result: domain.ArchetypeResult{
			Answers:   answers,
			Scores:    domain.ScoreTable(r.Scores),
			Archetype: domain.Planet(r.Archetype),
			Scored:    r.Scored,
		},
		SubmittedAt: r.SubmittedAt,
	}
}
