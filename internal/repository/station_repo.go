package repository

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"github.com/votersetu/verification-api/pkg/model"
	"google.golang.org/api/iterator"
)

const stationsCollection = "pollingStations"

// StationRepository handles Firestore read/write for polling stations.
type StationRepository struct {
	client *firestore.Client
}

func NewStationRepository(client *firestore.Client) *StationRepository {
	return &StationRepository{client: client}
}

// GetByID fetches one station; a missing document returns (nil, nil).
func (r *StationRepository) GetByID(ctx context.Context, stationID string) (*model.PollingStation, error) {
	snap, err := r.client.Collection(stationsCollection).Doc(stationID).Get(ctx)
	if snap != nil && !snap.Exists() {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get station %s: %w", stationID, err)
	}
	var station model.PollingStation
	if err := snap.DataTo(&station); err != nil {
		return nil, fmt.Errorf("decode station %s: %w", stationID, err)
	}
	if station.ID == "" {
		station.ID = snap.Ref.ID
	}
	return &station, nil
}

// QueryByRegion returns stations matching the state and, when provided, the district.
func (r *StationRepository) QueryByRegion(ctx context.Context, state, district string) ([]model.PollingStation, error) {
	query := r.client.Collection(stationsCollection).Where("state", "==", state)
	if district != "" {
		query = query.Where("district", "==", district)
	}
	iter := query.Documents(ctx)
	defer iter.Stop()

	var stations []model.PollingStation
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query stations by region: %w", err)
		}
		var s model.PollingStation
		if err := doc.DataTo(&s); err != nil {
			return nil, fmt.Errorf("decode station %s: %w", doc.Ref.ID, err)
		}
		if s.ID == "" {
			s.ID = doc.Ref.ID
		}
		stations = append(stations, s)
	}
	return stations, nil
}

// IncrementVerification mirrors a local counter update to the store as a single
// atomic write: total and exactly one outcome counter move together, so the
// remote copy cannot drift apart under concurrent verifications.
func (r *StationRepository) IncrementVerification(ctx context.Context, stationID string, verified bool) error {
	outcomeField := "verificationStats.failed"
	if verified {
		outcomeField = "verificationStats.successful"
	}
	ref := r.client.Collection(stationsCollection).Doc(stationID)
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "verificationStats.total", Value: firestore.Increment(1)},
		{Path: outcomeField, Value: firestore.Increment(1)},
		{Path: "lastUpdated", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("increment stats for station %s: %w", stationID, err)
	}
	return nil
}

// BatchUpsert writes stations in batches to reduce round trips.
func (r *StationRepository) BatchUpsert(ctx context.Context, stations []model.PollingStation) error {
	if len(stations) == 0 {
		return nil
	}
	const batchSize = 400

	for start := 0; start < len(stations); start += batchSize {
		end := start + batchSize
		if end > len(stations) {
			end = len(stations)
		}
		batch := r.client.Batch()
		for _, s := range stations[start:end] {
			batch.Set(r.client.Collection(stationsCollection).Doc(s.ID), s)
		}
		if _, err := batch.Commit(ctx); err != nil {
			return fmt.Errorf("commit station batch [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

// SubscribeAll registers a snapshot listener on the stations collection and
// returns the cancel function for it.
func (r *StationRepository) SubscribeAll(ctx context.Context, fn func([]model.PollingStation)) func() {
	ctx, cancel := context.WithCancel(ctx)

	go func() {
		snaps := r.client.Collection(stationsCollection).Snapshots(ctx)
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("station subscription ended: %v", err)
				}
				return
			}
			stations, err := decodeStationDocs(snap.Documents)
			if err != nil {
				log.Printf("station subscription decode: %v", err)
				continue
			}
			fn(stations)
		}
	}()

	return cancel
}

func decodeStationDocs(iter *firestore.DocumentIterator) ([]model.PollingStation, error) {
	var stations []model.PollingStation
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate stations: %w", err)
		}
		var s model.PollingStation
		if err := doc.DataTo(&s); err != nil {
			return nil, fmt.Errorf("decode station %s: %w", doc.Ref.ID, err)
		}
		if s.ID == "" {
			s.ID = doc.Ref.ID
		}
		stations = append(stations, s)
	}
	return stations, nil
}
