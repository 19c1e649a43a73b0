package registry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/votersetu/verification-api/pkg/model"
)

var (
	// ErrVoterNotFound is returned when a verification targets an unknown voter.
	// Verification never creates or updates phantom voter documents.
	ErrVoterNotFound = errors.New("voter not found")

	// ErrInvalidOutcome is returned for verification outcomes other than
	// verified/failed.
	ErrInvalidOutcome = errors.New("verification outcome must be verified or failed")
)

// VoterStore abstracts the external voter collection.
type VoterStore interface {
	GetByID(ctx context.Context, voterID string) (*model.VoterInfo, error)
	UpdateVerification(ctx context.Context, voterID, officerID, method, status, notes string) error
	Subscribe(ctx context.Context, fn func([]model.VoterInfo)) func()
}

// StationStore abstracts the external polling-station collection.
type StationStore interface {
	GetByID(ctx context.Context, stationID string) (*model.PollingStation, error)
	QueryByRegion(ctx context.Context, state, district string) ([]model.PollingStation, error)
	IncrementVerification(ctx context.Context, stationID string, verified bool) error
	SubscribeAll(ctx context.Context, fn func([]model.PollingStation)) func()
}

// FaceMatcher is the external capability that judges whether a captured image
// matches the reference image. The registry treats it as a black box.
type FaceMatcher interface {
	MatchFace(ctx context.Context, captured, reference string) (matched bool, confidence float64, err error)
}

// Service is the single source of truth for the in-session station roster and
// the mediator between the API layer and the external store for verification.
// It is the only writer of station verification counters; consumers get copies.
type Service struct {
	mu       sync.RWMutex
	stations []model.PollingStation
	index    map[string]int

	voters       VoterStore
	stationStore StationStore
	faces        FaceMatcher
	subs         *SubscriptionManager
}

// NewService creates a registry over the given collaborators. stationStore and
// faces may be nil in tests; the corresponding paths degrade gracefully.
func NewService(voters VoterStore, stations StationStore, faces FaceMatcher) *Service {
	return &Service{
		index:        make(map[string]int),
		voters:       voters,
		stationStore: stations,
		faces:        faces,
		subs:         NewSubscriptionManager(),
	}
}

// Initialize replaces the roster wholesale. Used at startup with the loader's
// output and by import tooling.
func (s *Service) Initialize(stations []model.PollingStation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stations = copyStations(stations)
	s.index = make(map[string]int, len(stations))
	for i, st := range s.stations {
		s.index[st.ID] = i
	}
	log.Printf("initialized %d polling stations", len(s.stations))
}

// AllStations returns a snapshot of the roster. The copy is deep enough that
// callers cannot mutate registry state through it.
func (s *Service) AllStations() []model.PollingStation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyStations(s.stations)
}

// StationByID returns a copy of the station, or ok=false when absent.
func (s *Service) StationByID(id string) (model.PollingStation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.PollingStation{}, false
	}
	return copyStation(s.stations[i]), true
}

// StationsByRegion filters the roster by state and optional district. When the
// local roster has no match it widens to the external store; a store failure
// there degrades to an empty result rather than an error.
func (s *Service) StationsByRegion(ctx context.Context, state, district string) []model.PollingStation {
	s.mu.RLock()
	var matched []model.PollingStation
	for _, st := range s.stations {
		if st.State == state && (district == "" || st.District == district) {
			matched = append(matched, copyStation(st))
		}
	}
	s.mu.RUnlock()

	if len(matched) > 0 || s.stationStore == nil {
		return matched
	}

	remote, err := s.stationStore.QueryByRegion(ctx, state, district)
	if err != nil {
		log.Printf("region query fell back to empty result: %v", err)
		return nil
	}
	return remote
}

// VoterByID fetches a voter from the external store; (nil, nil) when absent.
func (s *Service) VoterByID(ctx context.Context, voterID string) (*model.VoterInfo, error) {
	return s.voters.GetByID(ctx, voterID)
}

// VerifyVoter is the stateful write path: it records the outcome on the voter
// document, then moves the owning station's counters. The local increment
// updates total and exactly one outcome counter in a single locked step, so
// total == successful + failed holds after every call. The remote mirror is
// best-effort; a mirror failure is logged and the local counters stay
// authoritative for the session.
func (s *Service) VerifyVoter(ctx context.Context, voterID, officerID, method, outcome, notes string) error {
	if outcome != model.VerificationVerified && outcome != model.VerificationFailed {
		return fmt.Errorf("%w: %q", ErrInvalidOutcome, outcome)
	}

	voter, err := s.voters.GetByID(ctx, voterID)
	if err != nil {
		return fmt.Errorf("look up voter %s: %w", voterID, err)
	}
	if voter == nil {
		return fmt.Errorf("%w: %s", ErrVoterNotFound, voterID)
	}

	if err := s.voters.UpdateVerification(ctx, voterID, officerID, method, outcome, notes); err != nil {
		return fmt.Errorf("record verification for voter %s: %w", voterID, err)
	}

	if voter.PollingStationID == "" {
		return nil
	}

	verified := outcome == model.VerificationVerified
	s.applyStationOutcome(voter.PollingStationID, verified)

	if s.stationStore != nil {
		if err := s.stationStore.IncrementVerification(ctx, voter.PollingStationID, verified); err != nil {
			log.Printf("station stats mirror failed for %s (local counters kept): %v", voter.PollingStationID, err)
		}
	}
	return nil
}

func (s *Service) applyStationOutcome(stationID string, verified bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[stationID]
	if !ok {
		return
	}
	st := &s.stations[i]
	st.Stats.Total++
	if verified {
		st.Stats.Successful++
	} else {
		st.Stats.Failed++
	}
	st.LastUpdated = time.Now()
}

// VerifyVoterByIdentity checks a claimed identity against the stored record.
// It mutates nothing; negative outcomes come back as a failed result, not an
// error. Errors are reserved for store failures.
func (s *Service) VerifyVoterByIdentity(ctx context.Context, voterID, fullName string) (model.VerificationResult, error) {
	voter, err := s.voters.GetByID(ctx, voterID)
	if err != nil {
		return model.VerificationResult{}, fmt.Errorf("look up voter %s: %w", voterID, err)
	}
	if voter == nil {
		return model.VerificationResult{
			Success: false,
			Message: "Voter not found in our records. Please check your Voter ID.",
		}, nil
	}
	if fullName != "" && !strings.EqualFold(voter.FullName, fullName) {
		return model.VerificationResult{
			Success: false,
			Message: "Name does not match records. Please verify your information.",
		}, nil
	}
	return model.VerificationResult{
		Success:        true,
		Message:        "Voter verified successfully.",
		VerificationID: newVerificationID(),
		VoterInfo:      voter,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// VerifyVoterByBiometric delegates the match decision to the face-matching
// capability. On success the returned voter info carries the captured image.
func (s *Service) VerifyVoterByBiometric(ctx context.Context, voterID, capturedImage, idImage string) (model.VerificationResult, error) {
	voter, err := s.voters.GetByID(ctx, voterID)
	if err != nil {
		return model.VerificationResult{}, fmt.Errorf("look up voter %s: %w", voterID, err)
	}
	if voter == nil {
		return model.VerificationResult{
			Success: false,
			Message: "Voter not found in our records. Please check your Voter ID.",
		}, nil
	}

	reference := voter.Photo
	if reference == "" {
		reference = idImage
	}

	matched, confidence, err := s.faces.MatchFace(ctx, capturedImage, reference)
	if err != nil {
		return model.VerificationResult{}, fmt.Errorf("biometric match for voter %s: %w", voterID, err)
	}
	if !matched {
		return model.VerificationResult{
			Success: false,
			Message: "Facial verification failed. Please try again or use alternative verification.",
		}, nil
	}

	enriched := *voter
	enriched.Photo = capturedImage
	return model.VerificationResult{
		Success:        true,
		Message:        fmt.Sprintf("Biometric verification successful (confidence %.2f).", confidence),
		VerificationID: newVerificationID(),
		VoterInfo:      &enriched,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// SubscribeToVoters registers a live listener on the voter stream and returns
// its unsubscribe function. Callers own the teardown.
func (s *Service) SubscribeToVoters(ctx context.Context, fn func([]model.VoterInfo)) func() {
	cancel := s.voters.Subscribe(ctx, fn)
	return s.subs.Track(cancel)
}

// SubscribeToAllStations registers a live listener on the station collection.
func (s *Service) SubscribeToAllStations(ctx context.Context, fn func([]model.PollingStation)) func() {
	if s.stationStore == nil {
		return func() {}
	}
	cancel := s.stationStore.SubscribeAll(ctx, fn)
	return s.subs.Track(cancel)
}

// Shutdown cancels every live subscription still registered.
func (s *Service) Shutdown() {
	s.subs.CancelAll()
}

func newVerificationID() string {
	return "VF-" + uuid.NewString()
}

func copyStations(in []model.PollingStation) []model.PollingStation {
	out := make([]model.PollingStation, len(in))
	for i, st := range in {
		out[i] = copyStation(st)
	}
	return out
}

func copyStation(st model.PollingStation) model.PollingStation {
	cp := st
	cp.Staff = append([]model.StaffMember(nil), st.Staff...)
	return cp
}
