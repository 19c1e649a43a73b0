package stationdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/votersetu/verification-api/pkg/model"
)

// Column layout of a polling-station extract:
//
//	station_id,name,address,booth_number,district,state,latitude,longitude,total_voters[,status]
//
// The status column is optional; rows without it default to "operational".
const minStationColumns = 9

// ParseStationsCSV turns a raw polling-station extract into structured records.
// Verification counters start at zero and staff rosters empty; those are
// backfilled later by CombineStationData. Malformed numeric fields degrade
// (NaN coordinates, zero voters) instead of failing the row, and blank or
// short rows are skipped, so one bad line never aborts a load.
func ParseStationsCSV(r io.Reader) ([]model.PollingStation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read station csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("station csv is empty")
	}

	stations := make([]model.PollingStation, 0, len(records))
	for i, row := range records {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		if isBlankRow(row) || len(row) < minStationColumns {
			continue
		}

		status := model.StatusOperational
		if len(row) > minStationColumns && strings.TrimSpace(row[9]) != "" {
			status = strings.TrimSpace(row[9])
		}

		stations = append(stations, model.PollingStation{
			ID:          strings.TrimSpace(row[0]),
			Name:        strings.TrimSpace(row[1]),
			Address:     strings.TrimSpace(row[2]),
			BoothNumber: strings.TrimSpace(row[3]),
			District:    strings.TrimSpace(row[4]),
			State:       strings.TrimSpace(row[5]),
			Location: model.GeoPoint{
				Latitude:  parseCoordinate(row[6]),
				Longitude: parseCoordinate(row[7]),
			},
			TotalVoters: parseCount(row[8]),
			Status:      status,
			Stats:       model.VerificationStats{},
			Staff:       []model.StaffMember{},
			LastUpdated: time.Now(),
		})
	}
	return stations, nil
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "station_id" || first == "id"
}

func isBlankRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// parseCoordinate returns NaN for malformed values; map consumers must skip
// markers lacking finite coordinates.
func parseCoordinate(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseCount(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return v
}
