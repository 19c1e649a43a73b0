package stats

import (
	"strconv"
	"time"

	"github.com/votersetu/verification-api/pkg/model"
)

// Voting hours for the hourly histogram, inclusive (07:00 through 20:00 local).
const (
	FirstVotingHour = 7
	LastVotingHour  = 20
)

// HourlyBucket is one histogram entry for the dashboard.
type HourlyBucket struct {
	Hour       int `json:"hour"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// AggregateSystemStats reduces the station roster into dashboard totals. It is
// a pure function of its input and is recomputed on every roster update.
func AggregateSystemStats(stations []model.PollingStation) model.SystemStats {
	out := model.SystemStats{
		TotalStations:   len(stations),
		StationsByState: make(map[string]int),
	}
	for _, s := range stations {
		out.TotalVerifications += s.Stats.Total
		out.TotalSuccessful += s.Stats.Successful
		out.TotalFailed += s.Stats.Failed
		out.StationsByState[s.State]++
		if s.Status == model.StatusOperational {
			out.OperationalStations++
		}
	}
	if out.TotalVerifications > 0 {
		out.SuccessRate = float64(out.TotalSuccessful) / float64(out.TotalVerifications) * 100
	}
	return out
}

// CountPending counts voters still awaiting verification in the current stream.
func CountPending(voters []model.VoterInfo) int {
	count := 0
	for _, v := range voters {
		if v.VerificationStatus == model.VerificationPending {
			count++
		}
	}
	return count
}

// HourlyHistogram buckets verified and failed voters by the local hour of their
// verification date across the voting-hours range. Voters without a
// verification date are excluded here but still show up in the totals.
func HourlyHistogram(voters []model.VoterInfo, loc *time.Location) []HourlyBucket {
	if loc == nil {
		loc = time.Local
	}
	buckets := make([]HourlyBucket, 0, LastVotingHour-FirstVotingHour+1)
	for h := FirstVotingHour; h <= LastVotingHour; h++ {
		buckets = append(buckets, HourlyBucket{Hour: h})
	}

	for _, v := range voters {
		if v.VerificationStatus != model.VerificationVerified && v.VerificationStatus != model.VerificationFailed {
			continue
		}
		if v.VerificationDate.IsZero() {
			continue
		}
		hour := v.VerificationDate.In(loc).Hour()
		if hour < FirstVotingHour || hour > LastVotingHour {
			continue
		}
		idx := hour - FirstVotingHour
		if v.VerificationStatus == model.VerificationVerified {
			buckets[idx].Successful++
		} else {
			buckets[idx].Failed++
		}
	}
	return buckets
}

// CoerceTime normalizes the heterogeneous date representations found in voter
// records (native time, epoch seconds, strings) into a time.Time. Unparsable
// values degrade to the fallback instead of aborting aggregation.
func CoerceTime(v any, fallback time.Time) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	case int64:
		return time.Unix(t, 0)
	case int:
		return time.Unix(int64(t), 0)
	case float64:
		return time.Unix(int64(t), 0)
	case string:
		return coerceString(t, fallback)
	case map[string]any:
		// Firestore-style timestamp wrapper: {"seconds": ..., "nanoseconds": ...}.
		if secs, ok := t["seconds"]; ok {
			return CoerceTime(secs, fallback)
		}
	}
	return fallback
}

func coerceString(s string, fallback time.Time) time.Time {
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0)
	}
	return fallback
}
