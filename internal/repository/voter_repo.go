package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/votersetu/verification-api/internal/business/stats"
	"github.com/votersetu/verification-api/pkg/model"
	"google.golang.org/api/iterator"
)

const votersCollection = "voters"

// voterDoc shadows VerificationDate with an untyped field: older terminal
// clients wrote the date as a timestamp, a string, or epoch seconds, and a
// typed time.Time field would fail the whole decode on the latter two.
type voterDoc struct {
	model.VoterInfo
	RawVerificationDate any `firestore:"verificationDate"`
}

func decodeVoter(doc *firestore.DocumentSnapshot) (model.VoterInfo, error) {
	var d voterDoc
	if err := doc.DataTo(&d); err != nil {
		return model.VoterInfo{}, fmt.Errorf("decode voter %s: %w", doc.Ref.ID, err)
	}
	return normalizeVoter(d.VoterInfo, d.RawVerificationDate, doc.Ref.ID), nil
}

// normalizeVoter coerces the heterogeneous date field and backfills the doc ID.
// Missing or unparsable dates degrade to the zero time, which aggregation skips.
func normalizeVoter(v model.VoterInfo, rawDate any, docID string) model.VoterInfo {
	v.VerificationDate = stats.CoerceTime(rawDate, time.Time{})
	if v.ID == "" {
		v.ID = docID
	}
	return v
}

// VoterRepository handles Firestore read/write for voter records.
type VoterRepository struct {
	client *firestore.Client
}

func NewVoterRepository(client *firestore.Client) *VoterRepository {
	return &VoterRepository{client: client}
}

// GetByID fetches a single voter. A missing document returns (nil, nil) so
// callers can distinguish absence from store failure.
func (r *VoterRepository) GetByID(ctx context.Context, voterID string) (*model.VoterInfo, error) {
	snap, err := r.client.Collection(votersCollection).Doc(voterID).Get(ctx)
	if snap != nil && !snap.Exists() {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get voter %s: %w", voterID, err)
	}
	voter, err := decodeVoter(snap)
	if err != nil {
		return nil, err
	}
	return &voter, nil
}

// UpdateVerification records the outcome of a verification attempt on the
// voter document: status, date, method, officer, and notes in one update.
func (r *VoterRepository) UpdateVerification(ctx context.Context, voterID, officerID, method, status, notes string) error {
	ref := r.client.Collection(votersCollection).Doc(voterID)
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "verificationStatus", Value: status},
		{Path: "verificationDate", Value: time.Now().UTC()},
		{Path: "verificationMethod", Value: method},
		{Path: "verificationOfficerId", Value: officerID},
		{Path: "verificationNotes", Value: notes},
	})
	if err != nil {
		return fmt.Errorf("update verification for voter %s: %w", voterID, err)
	}
	return nil
}

// FetchAll loads the whole voter collection, for aggregation passes.
func (r *VoterRepository) FetchAll(ctx context.Context) ([]model.VoterInfo, error) {
	iter := r.client.Collection(votersCollection).Documents(ctx)
	defer iter.Stop()
	return decodeVoterDocs(iter)
}

// Subscribe registers a snapshot listener on the voters collection. The
// callback receives the full decoded set on every change batch. The returned
// function cancels the listener; callers must invoke it on teardown.
func (r *VoterRepository) Subscribe(ctx context.Context, fn func([]model.VoterInfo)) func() {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		snaps := r.client.Collection(votersCollection).Snapshots(ctx)
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("voter subscription ended: %v", err)
				}
				return
			}
			voters, err := decodeVoterDocs(snap.Documents)
			if err != nil {
				log.Printf("voter subscription decode: %v", err)
				continue
			}
			fn(voters)
		}
	}()

	return cancel
}

func decodeVoterDocs(iter *firestore.DocumentIterator) ([]model.VoterInfo, error) {
	var voters []model.VoterInfo
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate voters: %w", err)
		}
		v, err := decodeVoter(doc)
		if err != nil {
			return nil, err
		}
		voters = append(voters, v)
	}
	return voters, nil
}
