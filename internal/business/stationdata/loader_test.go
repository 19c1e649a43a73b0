package stationdata

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type fetcherFunc func(ctx context.Context) (io.ReadCloser, error)

func (f fetcherFunc) Fetch(ctx context.Context) (io.ReadCloser, error) { return f(ctx) }

func TestLoaderSuccess(t *testing.T) {
	csv := "station_id,name,address,booth_number,district,state,latitude,longitude,total_voters,status\n" +
		"ps1,Vigyan Bhawan,Maulana Azad Road,DL001,New Delhi,Delhi,28.61,77.21,1500,operational\n"
	fetcher := fetcherFunc(func(ctx context.Context) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(csv)), nil
	})

	loader := NewLoader(fetcher, ReferenceStations)
	stations := loader.Load(context.Background())
	if len(stations) != 1 {
		t.Fatalf("expected 1 station, got %d", len(stations))
	}
	// Combined with the reference entry of the same name.
	if stations[0].Stats.Total != 3245 {
		t.Errorf("combined total = %d, want 3245", stations[0].Stats.Total)
	}
	if stations[0].Location.Latitude != 28.61 {
		t.Errorf("latitude = %v, want the CSV value", stations[0].Location.Latitude)
	}
}

func TestLoaderFallbackOnFetchError(t *testing.T) {
	fetcher := fetcherFunc(func(ctx context.Context) (io.ReadCloser, error) {
		return nil, errors.New("network down")
	})

	loader := NewLoader(fetcher, ReferenceStations)
	stations := loader.Load(context.Background())
	if len(stations) != len(ReferenceStations) {
		t.Fatalf("fallback roster = %d stations, want %d", len(stations), len(ReferenceStations))
	}
	for _, s := range stations {
		if s.Location.Latitude != DefaultLatitude || s.Location.Longitude != DefaultLongitude {
			t.Errorf("station %s location = %+v, want default coordinates", s.ID, s.Location)
		}
		if s.Stats.Total != s.Stats.Successful+s.Stats.Failed {
			t.Errorf("station %s stats inconsistent: %+v", s.ID, s.Stats)
		}
	}
}

func TestLoaderFallbackOnParseError(t *testing.T) {
	fetcher := fetcherFunc(func(ctx context.Context) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("")), nil
	})

	loader := NewLoader(fetcher, ReferenceStations)
	stations := loader.Load(context.Background())
	if len(stations) != len(ReferenceStations) {
		t.Fatalf("fallback roster = %d stations, want %d", len(stations), len(ReferenceStations))
	}
}

func TestLoaderNilFetcher(t *testing.T) {
	loader := NewLoader(nil, ReferenceStations)
	stations := loader.Load(context.Background())
	if len(stations) == 0 {
		t.Fatal("fallback must yield a non-empty roster for a non-empty reference table")
	}
}

func TestFallbackStationsStatusDefault(t *testing.T) {
	stations := FallbackStations([]ReferenceStation{{ID: "x1", Name: "No Status Hall"}})
	if stations[0].Status != "operational" {
		t.Errorf("status = %q, want operational", stations[0].Status)
	}
}
