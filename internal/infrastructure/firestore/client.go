package firestore

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// FirestoreClient wraps the Firestore connection used by the firestore
// storage backend.
type FirestoreClient struct {
	client *firestore.Client
}

func NewFirestoreClient(ctx context.Context, projectID string) (*FirestoreClient, error) {
	var client *firestore.Client
	var err error

	credentialsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credentialsFile == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else if _, statErr := os.Stat(credentialsFile); statErr != nil {
		log.Printf("[Firestore] credentials file not found: %s, falling back to default auth", credentialsFile)
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	log.Printf("[Firestore] client initialized for project %s", projectID)
	return &FirestoreClient{client: client}, nil
}

// Collection exposes a collection reference to the storage layer.
func (fc *FirestoreClient) Collection(name string) *firestore.CollectionRef {
	return fc.client.Collection(name)
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}
