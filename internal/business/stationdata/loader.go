package stationdata

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/votersetu/verification-api/pkg/model"
)

// CSVFetcher abstracts how the station extract is retrieved so the loader can
// be tested without network calls.
type CSVFetcher interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// HTTPFetcher fetches the station CSV over HTTP.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with a sane timeout.
func NewHTTPFetcher(url string) *HTTPFetcher {
	return &HTTPFetcher{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch csv %s: %w", f.url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, f.url)
	}
	return resp.Body, nil
}

// Loader produces the initial station roster: fetch the CSV extract, parse it,
// and combine it with the bundled reference table. Any failure along that chain
// falls back to building the roster from the reference table alone, which
// cannot fail.
type Loader struct {
	fetcher   CSVFetcher
	reference []ReferenceStation
}

// NewLoader creates a loader. fetcher may be nil, in which case Load goes
// straight to the fallback roster.
func NewLoader(fetcher CSVFetcher, reference []ReferenceStation) *Loader {
	return &Loader{fetcher: fetcher, reference: reference}
}

// Load returns the merged station roster. It resolves exactly once; callers
// await it at startup instead of polling for readiness.
func (l *Loader) Load(ctx context.Context) []model.PollingStation {
	if l.fetcher == nil {
		return FallbackStations(l.reference)
	}

	body, err := l.fetcher.Fetch(ctx)
	if err != nil {
		log.Printf("station csv fetch failed, using bundled reference data: %v", err)
		return FallbackStations(l.reference)
	}
	defer body.Close()

	stations, err := ParseStationsCSV(body)
	if err != nil {
		log.Printf("station csv parse failed, using bundled reference data: %v", err)
		return FallbackStations(l.reference)
	}
	return CombineStationData(stations, l.reference)
}

// FallbackStations builds the roster purely from the reference table, applying
// the default coordinates where no location is known.
func FallbackStations(reference []ReferenceStation) []model.PollingStation {
	stations := make([]model.PollingStation, 0, len(reference))
	for _, ref := range reference {
		status := ref.Status
		if status == "" {
			status = model.StatusOperational
		}
		stations = append(stations, model.PollingStation{
			ID:          ref.ID,
			Name:        ref.Name,
			Address:     ref.Address,
			BoothNumber: ref.BoothNumber,
			District:    ref.District,
			State:       ref.State,
			Location: model.GeoPoint{
				Latitude:  DefaultLatitude,
				Longitude: DefaultLongitude,
			},
			TotalVoters: ref.TotalVerifications,
			Status:      status,
			Stats: model.VerificationStats{
				Total:      ref.TotalVerifications,
				Successful: ref.SuccessfulVerifications,
				Failed:     ref.FailedVerifications,
			},
			Staff:       referenceStaffToModel(ref.Staff),
			LastUpdated: time.Now(),
		})
	}
	return stations
}
