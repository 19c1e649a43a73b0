package stationdata

import (
	"math"
	"strings"
	"testing"

	"github.com/votersetu/verification-api/pkg/model"
)

const sampleCSV = "station_id,name,address,booth_number,district,state,latitude,longitude,total_voters,status\n" +
	"ps1,Test Hall,1 Main St,B1,D1,S1,28.6,77.2,100,operational\n"

func TestParseStationsCSV(t *testing.T) {
	stations, err := ParseStationsCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseStationsCSV: %v", err)
	}
	if len(stations) != 1 {
		t.Fatalf("expected 1 station, got %d", len(stations))
	}

	s := stations[0]
	if s.ID != "ps1" {
		t.Errorf("id = %q, want %q", s.ID, "ps1")
	}
	if s.Name != "Test Hall" || s.BoothNumber != "B1" || s.District != "D1" || s.State != "S1" {
		t.Errorf("unexpected fields: %+v", s)
	}
	if s.Location.Latitude != 28.6 || s.Location.Longitude != 77.2 {
		t.Errorf("location = %+v, want {28.6 77.2}", s.Location)
	}
	if s.TotalVoters != 100 {
		t.Errorf("totalVoters = %d, want 100", s.TotalVoters)
	}
	if s.Status != model.StatusOperational {
		t.Errorf("status = %q", s.Status)
	}
	if s.Stats != (model.VerificationStats{}) {
		t.Errorf("verification stats should be zeroed, got %+v", s.Stats)
	}
	if len(s.Staff) != 0 {
		t.Errorf("staff should be empty, got %d entries", len(s.Staff))
	}
}

func TestParseStationsCSVSkipsBlankLines(t *testing.T) {
	data := sampleCSV + "\n\nps2,Second Hall,2 Oak St,B2,D1,S1,28.7,77.3,200,issue\n\n"
	stations, err := ParseStationsCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseStationsCSV: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(stations))
	}
	if stations[1].Status != model.StatusIssue {
		t.Errorf("status = %q, want %q", stations[1].Status, model.StatusIssue)
	}
}

func TestParseStationsCSVMalformedNumerics(t *testing.T) {
	data := "station_id,name,address,booth_number,district,state,latitude,longitude,total_voters,status\n" +
		"ps9,Bad Numbers,3 Elm St,B9,D2,S1,not-a-lat,77.2,many,operational\n"
	stations, err := ParseStationsCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseStationsCSV: %v", err)
	}
	if len(stations) != 1 {
		t.Fatalf("expected 1 station, got %d", len(stations))
	}
	s := stations[0]
	if !math.IsNaN(s.Location.Latitude) {
		t.Errorf("latitude = %v, want NaN", s.Location.Latitude)
	}
	if s.Location.Longitude != 77.2 {
		t.Errorf("longitude = %v, want 77.2", s.Location.Longitude)
	}
	if s.TotalVoters != 0 {
		t.Errorf("totalVoters = %d, want 0", s.TotalVoters)
	}
}

func TestParseStationsCSVPositionalVariant(t *testing.T) {
	// Nine columns, no status: status defaults to operational.
	data := "ps1,Test Hall,1 Main St,B1,D1,S1,28.6,77.2,100\n"
	stations, err := ParseStationsCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseStationsCSV: %v", err)
	}
	if len(stations) != 1 {
		t.Fatalf("expected 1 station, got %d", len(stations))
	}
	if stations[0].Status != model.StatusOperational {
		t.Errorf("status = %q, want %q", stations[0].Status, model.StatusOperational)
	}
}

func TestParseStationsCSVQuotedAddress(t *testing.T) {
	data := "station_id,name,address,booth_number,district,state,latitude,longitude,total_voters,status\n" +
		`ps5,Comma Hall,"12 Main St, Block C",B5,D1,S1,28.6,77.2,50,operational` + "\n"
	stations, err := ParseStationsCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseStationsCSV: %v", err)
	}
	if stations[0].Address != "12 Main St, Block C" {
		t.Errorf("address = %q", stations[0].Address)
	}
}

func TestParseStationsCSVEmptyInput(t *testing.T) {
	if _, err := ParseStationsCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}
