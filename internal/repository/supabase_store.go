package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"VakitApp/internal/database"
	"VakitApp/internal/domain/repository"
)

// SupabaseStore keeps documents in a Supabase table through the PostgREST
// client: columns key (primary), value (jsonb) and updated_at. updated_at is
// written client-side on every upsert and stands in for the file mtime.
type SupabaseStore struct {
	client *database.SupabaseClient
	table  string
	now    func() time.Time
}

func NewSupabaseStore(client *database.SupabaseClient, table string) *SupabaseStore {
	return &SupabaseStore{client: client, table: table, now: time.Now}
}

type supabaseRow struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (s *SupabaseStore) selectRow(key string) (*supabaseRow, error) {
	data, _, err := s.client.GetClient().From(s.table).
		Select("key,value,updated_at", "exact", false).
		Eq("key", key).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", key, err)
	}

	var rows []supabaseRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode row for %s: %w", key, err)
	}
	if len(rows) == 0 {
		return nil, repository.ErrKeyNotFound
	}
	return &rows[0], nil
}

func (s *SupabaseStore) Get(ctx context.Context, key string) ([]byte, error) {
	row, err := s.selectRow(key)
	if err != nil {
		return nil, err
	}
	return row.Value, nil
}

func (s *SupabaseStore) Put(ctx context.Context, key string, value []byte) error {
	row := supabaseRow{Key: key, Value: value, UpdatedAt: s.now().UTC()}
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to encode row for %s: %w", key, err)
	}

	_, _, err = s.client.GetClient().From(s.table).
		Insert(string(payload), true, "key", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SupabaseStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.selectRow(key)
	if err == repository.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SupabaseStore) Mtime(ctx context.Context, key string) (time.Time, error) {
	row, err := s.selectRow(key)
	if err != nil {
		return time.Time{}, err
	}
	return row.UpdatedAt, nil
}

func (s *SupabaseStore) Delete(ctx context.Context, key string) error {
	_, _, err := s.client.GetClient().From(s.table).
		Delete("", "").
		Eq("key", key).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *SupabaseStore) Keys(ctx context.Context) ([]string, error) {
	data, _, err := s.client.GetClient().From(s.table).
		Select("key", "exact", false).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var rows []struct {
		Key string `json:"key"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode key list: %w", err)
	}

	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		keys = append(keys, r.Key)
	}
	return keys, nil
}
