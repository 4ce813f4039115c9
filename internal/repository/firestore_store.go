package repository

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"VakitApp/internal/domain/repository"
	fs "VakitApp/internal/infrastructure/firestore"
)

// FirestoreStore keeps documents in one collection per store namespace, the
// key as document id and the JSON payload in a single field. The document
// UpdateTime stands in for the file mtime.
type FirestoreStore struct {
	client     *fs.FirestoreClient
	collection string
}

func NewFirestoreStore(client *fs.FirestoreClient, collection string) *FirestoreStore {
	return &FirestoreStore{client: client, collection: collection}
}

func (s *FirestoreStore) Get(ctx context.Context, key string) ([]byte, error) {
	snap, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, repository.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	payload, err := snap.DataAt("payload")
	if err != nil {
		return nil, fmt.Errorf("document %s has no payload: %w", key, err)
	}
	text, ok := payload.(string)
	if !ok {
		return nil, fmt.Errorf("document %s payload is not a string", key)
	}
	return []byte(text), nil
}

func (s *FirestoreStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.client.Collection(s.collection).Doc(key).Set(ctx, map[string]interface{}{
		"payload": string(value),
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *FirestoreStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return true, nil
}

func (s *FirestoreStore) Mtime(ctx context.Context, key string) (time.Time, error) {
	snap, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return time.Time{}, repository.ErrKeyNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read mtime of %s: %w", key, err)
	}
	return snap.UpdateTime, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, key string) error {
	if _, err := s.client.Collection(s.collection).Doc(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *FirestoreStore) Keys(ctx context.Context) ([]string, error) {
	iter := s.client.Collection(s.collection).DocumentRefs(ctx)
	var keys []string
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list keys: %w", err)
		}
		keys = append(keys, ref.ID)
	}
	return keys, nil
}
