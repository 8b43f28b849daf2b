package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"deerhacks-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const usersKey = "archetype:users"

// ResultStore keeps archetype results in Redis.
// Each result is a hash:  HSET archetype:result:{userID} archetype .. scored .. scores .. answers .. submitted_at ..
// Known users are tracked in the set archetype:users.
type ResultStore struct {
	client *redis.Client
}

func NewResultStore(client *redis.Client) *ResultStore {
	return &ResultStore{client: client}
}

func (s *ResultStore) Save(ctx context.Context, record domain.ArchetypeRecord) error {
	scores, err := json.Marshal(record.Result.Scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	answers, err := json.Marshal(record.Result.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(record.UserID), map[string]interface{}{
		"archetype":    string(record.Result.Archetype),
		"scored":       strconv.FormatBool(record.Result.Scored),
		"scores":       string(scores),
		"answers":      string(answers),
		"submitted_at": record.SubmittedAt.UTC().Format(time.RFC3339Nano),
	})
	pipe.SAdd(ctx, usersKey, record.UserID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *ResultStore) Get(ctx context.Context, userID string) (domain.ArchetypeRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return domain.ArchetypeRecord{}, fmt.Errorf("load result: %w", err)
	}
	if len(fields) == 0 {
		return domain.ArchetypeRecord{}, domain.ErrResultNotFound
	}
	return decodeRecord(userID, fields)
}

func (s *ResultStore) List(ctx context.Context) ([]domain.ArchetypeRecord, error) {
	users, err := s.client.SMembers(ctx, usersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	sort.Strings(users)

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(users))
	for i, u := range users {
		cmds[i] = pipe.HGetAll(ctx, s.key(u))
	}
	if _, err := pipe.Exec(ctx); err != nil && !isNil(err) {
		return nil, fmt.Errorf("load results: %w", err)
	}

	out := make([]domain.ArchetypeRecord, 0, len(users))
	for i, u := range users {
		fields := cmds[i].Val()
		if len(fields) == 0 {
			continue
		}
		record, err := decodeRecord(u, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *ResultStore) key(userID string) string {
	return "archetype:result:" + userID
}

func decodeRecord(userID string, fields map[string]string) (domain.ArchetypeRecord, error) {
	record := domain.ArchetypeRecord{UserID: userID}
	record.Result.Archetype = domain.Planet(fields["archetype"])
	record.Result.Scored, _ = strconv.ParseBool(fields["scored"])
	if err := json.Unmarshal([]byte(fields["scores"]), &record.Result.Scores); err != nil {
		return domain.ArchetypeRecord{}, fmt.Errorf("decode scores: %w", err)
	}
	if raw := fields["answers"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &record.Result.Answers); err != nil {
			return domain.ArchetypeRecord{}, fmt.Errorf("decode answers: %w", err)
		}
	}
	if ts, err := time.Parse(time.RFC3339Nano, fields["submitted_at"]); err == nil {
		record.SubmittedAt = ts
	}
	return record, nil
}
