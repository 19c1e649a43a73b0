package stationdata

import (
	"github.com/votersetu/verification-api/pkg/model"
	"github.com/votersetu/verification-api/pkg/util"
)

// CombineStationData backfills CSV-derived stations with verification counters
// and staff rosters from the reference table. Matching is exact on the
// normalized station name. Normalization lower-cases, trims, and collapses
// inner whitespace, so the key is wider than plain lower-cased name equality:
// entries differing only in spacing still match. Unmatched stations pass
// through unchanged. Output preserves the input's order and cardinality, and
// combining is idempotent.
//
// When two reference entries share a name the later one wins, because the
// lookup map is built in table order. The name-only key cannot tell apart
// same-named stations in different districts; see DESIGN.md.
func CombineStationData(csvStations []model.PollingStation, reference []ReferenceStation) []model.PollingStation {
	byName := make(map[string]ReferenceStation, len(reference))
	for _, ref := range reference {
		byName[util.NormalizeStationName(ref.Name)] = ref
	}

	out := make([]model.PollingStation, len(csvStations))
	for i, station := range csvStations {
		ref, ok := byName[util.NormalizeStationName(station.Name)]
		if !ok {
			out[i] = station
			continue
		}
		station.Stats = model.VerificationStats{
			Total:      ref.TotalVerifications,
			Successful: ref.SuccessfulVerifications,
			Failed:     ref.FailedVerifications,
		}
		station.Staff = referenceStaffToModel(ref.Staff)
		out[i] = station
	}
	return out
}
