package model

import (
	"encoding/json"
	"math"
	"time"
)

// GeoPoint holds a station's coordinates. Latitude/Longitude may be NaN when the
// source CSV carried malformed values; consumers must check before rendering markers.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" firestore:"latitude"`
	Longitude float64 `json:"longitude" firestore:"longitude"`
}

// MarshalJSON writes non-finite coordinates as null. encoding/json rejects raw
// NaN, and one malformed CSV row must not fail a whole station response.
func (g GeoPoint) MarshalJSON() ([]byte, error) {
	type geoJSON struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	return json.Marshal(geoJSON{
		Latitude:  finiteOrNil(g.Latitude),
		Longitude: finiteOrNil(g.Longitude),
	})
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// VerificationStats are the running counters owned by the registry for one station.
// Total must always equal Successful + Failed.
type VerificationStats struct {
	Total      int `json:"total" firestore:"total"`
	Successful int `json:"successful" firestore:"successful"`
	Failed     int `json:"failed" firestore:"failed"`
}

// StaffMember is one roster entry attached to a polling station.
type StaffMember struct {
	ID      string `json:"id,omitempty" firestore:"id,omitempty"`
	Name    string `json:"name,omitempty" firestore:"name,omitempty"`
	Role    string `json:"role,omitempty" firestore:"role,omitempty"`
	Contact string `json:"contact,omitempty" firestore:"contact,omitempty"`
}

// Station status values.
const (
	StatusOperational = "operational"
	StatusIssue       = "issue"
	StatusClosed      = "closed"
)

// PollingStation is the core document stored in the `pollingStations` collection
// and the unit of the in-memory roster.
type PollingStation struct {
	ID          string            `json:"id" firestore:"id"`
	Name        string            `json:"name" firestore:"name"`
	Address     string            `json:"address,omitempty" firestore:"address,omitempty"`
	BoothNumber string            `json:"boothNumber,omitempty" firestore:"boothNumber,omitempty"`
	District    string            `json:"district,omitempty" firestore:"district,omitempty"`
	State       string            `json:"state,omitempty" firestore:"state,omitempty"`
	Location    GeoPoint          `json:"location" firestore:"location"`
	TotalVoters int               `json:"totalVoters" firestore:"totalVoters"`
	Status      string            `json:"status" firestore:"status"`
	Stats       VerificationStats `json:"verificationStats" firestore:"verificationStats"`
	Staff       []StaffMember     `json:"staff" firestore:"staff"`
	LastUpdated time.Time         `json:"lastUpdated" firestore:"lastUpdated"`
}

// Voter verification statuses and methods.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationFailed   = "failed"

	MethodBiometric = "biometric"
	MethodManual    = "manual"
	MethodPhoto     = "photo"
)

// VoterInfo is the document stored in the `voters` collection. Voters are created
// by the registration flow or import tooling; this service only transitions
// VerificationStatus from pending to verified/failed.
type VoterInfo struct {
	ID                    string    `json:"id" firestore:"id"`
	VoterID               string    `json:"voterID" firestore:"voterID"`
	FullName              string    `json:"fullName" firestore:"fullName"`
	DOB                   string    `json:"dob,omitempty" firestore:"dob,omitempty"`
	Gender                string    `json:"gender,omitempty" firestore:"gender,omitempty"`
	Address               string    `json:"address,omitempty" firestore:"address,omitempty"`
	PollingStationID      string    `json:"pollingStationId" firestore:"pollingStationId"`
	District              string    `json:"district,omitempty" firestore:"district,omitempty"`
	State                 string    `json:"state,omitempty" firestore:"state,omitempty"`
	Photo                 string    `json:"photo,omitempty" firestore:"photo,omitempty"`
	VerificationStatus    string    `json:"verificationStatus" firestore:"verificationStatus"`
	VerificationDate      time.Time `json:"verificationDate,omitempty" firestore:"verificationDate,omitempty"`
	VerificationMethod    string    `json:"verificationMethod,omitempty" firestore:"verificationMethod,omitempty"`
	VerificationOfficerID string    `json:"verificationOfficerId,omitempty" firestore:"verificationOfficerId,omitempty"`
	VerificationNotes     string    `json:"verificationNotes,omitempty" firestore:"verificationNotes,omitempty"`
}

// VerificationResult is the transient outcome of a verification attempt. It is
// returned to callers and never persisted.
type VerificationResult struct {
	Success        bool       `json:"success"`
	Message        string     `json:"message"`
	VerificationID string     `json:"verificationId,omitempty"`
	VoterInfo      *VoterInfo `json:"voterInfo,omitempty"`
	Timestamp      string     `json:"timestamp,omitempty"`
}

// Officer is a verification officer or terminal operator account in the
// `officers` collection. Role is the authoritative claim minted into tokens.
type Officer struct {
	ID           string `json:"id" firestore:"id"`
	Username     string `json:"username" firestore:"username"`
	Name         string `json:"name,omitempty" firestore:"name,omitempty"`
	Role         string `json:"role" firestore:"role"`
	PasswordHash string `json:"-" firestore:"passwordHash"`
	StationID    string `json:"stationId,omitempty" firestore:"stationId,omitempty"`
}

// SystemStats is the singleton document pre-aggregating dashboard metrics.
type SystemStats struct {
	LastUpdated         time.Time      `json:"lastUpdated,omitempty" firestore:"lastUpdated,omitempty"`
	TotalStations       int            `json:"totalStations" firestore:"totalStations"`
	TotalVerifications  int            `json:"totalVerifications" firestore:"totalVerifications"`
	TotalSuccessful     int            `json:"totalSuccessful" firestore:"totalSuccessful"`
	TotalFailed         int            `json:"totalFailed" firestore:"totalFailed"`
	PendingVoters       int            `json:"pendingVoters" firestore:"pendingVoters"`
	SuccessRate         float64        `json:"successRate" firestore:"successRate"`
	StationsByState     map[string]int `json:"stationsByState,omitempty" firestore:"stationsByState,omitempty"`
	OperationalStations int            `json:"operationalStations" firestore:"operationalStations"`
}
