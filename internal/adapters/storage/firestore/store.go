package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
)

// NewClient creates the Firestore client shared by the session and
// history stores.
func NewClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return client, nil
}
