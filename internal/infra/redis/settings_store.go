package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const settingsKey = "settings"

// SettingsStore keeps admin settings in a single Redis hash.
type SettingsStore struct {
	client *redis.Client
}

func NewSettingsStore(client *redis.Client) *SettingsStore {
	return &SettingsStore{client: client}
}

func (s *SettingsStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, settingsKey, key).Result()
	if isNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *SettingsStore) SetSetting(ctx context.Context, key, value string) error {
	return s.client.HSet(ctx, settingsKey, key, value).Err()
}
