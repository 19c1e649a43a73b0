package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/votersetu/verification-api/pkg/model"
	"google.golang.org/api/iterator"
)

const officersCollection = "officers"

// OfficerRepository reads officer accounts. Roles live here, not in any
// attribute of the login identity; tokens carry whatever this collection says.
type OfficerRepository struct {
	client *firestore.Client
}

func NewOfficerRepository(client *firestore.Client) *OfficerRepository {
	return &OfficerRepository{client: client}
}

// GetByUsername returns the officer with the given username, or (nil, nil)
// when no such account exists.
func (r *OfficerRepository) GetByUsername(ctx context.Context, username string) (*model.Officer, error) {
	iter := r.client.Collection(officersCollection).Where("username", "==", username).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query officer %s: %w", username, err)
	}
	var officer model.Officer
	if err := doc.DataTo(&officer); err != nil {
		return nil, fmt.Errorf("decode officer %s: %w", doc.Ref.ID, err)
	}
	if officer.ID == "" {
		officer.ID = doc.Ref.ID
	}
	return &officer, nil
}
