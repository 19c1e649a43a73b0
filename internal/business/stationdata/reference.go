package stationdata

import "github.com/votersetu/verification-api/pkg/model"

// ReferenceStation is one entry of the bundled station table. It predates the
// CSV extract format: verification counters are flattened and staff carry a
// status field instead of a contact.
type ReferenceStation struct {
	ID                      string
	Name                    string
	Address                 string
	BoothNumber             string
	District                string
	State                   string
	Status                  string
	TotalVerifications      int
	SuccessfulVerifications int
	FailedVerifications     int
	Staff                   []ReferenceStaff
}

// ReferenceStaff is a staff entry in the bundled table.
type ReferenceStaff struct {
	ID     string
	Name   string
	Role   string
	Status string
}

// Default coordinates (New Delhi) applied when a reference station carries no
// location of its own.
const (
	DefaultLatitude  = 28.6139
	DefaultLongitude = 77.2090
)

// ReferenceStations is the bundled static dataset. It is the enrichment source
// for CSV-derived records and the terminal fallback when the CSV is unavailable.
var ReferenceStations = []ReferenceStation{
	{
		ID: "ps1", Name: "Vigyan Bhawan", Address: "Maulana Azad Road, New Delhi",
		District: "New Delhi", State: "Delhi", BoothNumber: "DL001", Status: model.StatusOperational,
		TotalVerifications: 3245, SuccessfulVerifications: 3102, FailedVerifications: 143,
		Staff: []ReferenceStaff{
			{ID: "staff1", Name: "Amit Sharma", Role: "Station Manager", Status: "active"},
			{ID: "staff2", Name: "Priya Patel", Role: "Verification Officer", Status: "active"},
			{ID: "staff3", Name: "Rajesh Kumar", Role: "Verification Officer", Status: "break"},
		},
	},
	{
		ID: "ps2", Name: "Government Boys Senior Secondary School", Address: "Raj Niwas Marg, Civil Lines, Delhi",
		District: "North Delhi", State: "Delhi", BoothNumber: "DL021", Status: model.StatusOperational,
		TotalVerifications: 2890, SuccessfulVerifications: 2712, FailedVerifications: 178,
		Staff: []ReferenceStaff{
			{ID: "staff4", Name: "Sanjay Verma", Role: "Station Manager", Status: "active"},
			{ID: "staff5", Name: "Meera Singh", Role: "Verification Officer", Status: "active"},
			{ID: "staff6", Name: "Vikram Reddy", Role: "Verification Officer", Status: "active"},
		},
	},
	{
		ID: "ps3", Name: "Kendriya Vidyalaya", Address: "Andrews Ganj, New Delhi",
		District: "South Delhi", State: "Delhi", BoothNumber: "DL045", Status: model.StatusOperational,
		TotalVerifications: 3125, SuccessfulVerifications: 2987, FailedVerifications: 138,
		Staff: []ReferenceStaff{
			{ID: "staff7", Name: "Neha Gupta", Role: "Station Manager", Status: "active"},
			{ID: "staff8", Name: "Arjun Nair", Role: "Verification Officer", Status: "active"},
			{ID: "staff9", Name: "Sunita Rao", Role: "Verification Officer", Status: "active"},
		},
	},
	{
		ID: "ps4", Name: "Municipal Corporation School", Address: "Dwarka Sector 12, New Delhi",
		District: "West Delhi", State: "Delhi", BoothNumber: "DL067", Status: model.StatusIssue,
		TotalVerifications: 2156, SuccessfulVerifications: 1998, FailedVerifications: 158,
		Staff: []ReferenceStaff{
			{ID: "staff10", Name: "Ramesh Joshi", Role: "Station Manager", Status: "active"},
			{ID: "staff11", Name: "Kavita Menon", Role: "Verification Officer", Status: "active"},
		},
	},
	{
		ID: "ps5", Name: "Delhi Public School", Address: "Mathura Road, New Delhi",
		District: "South East Delhi", State: "Delhi", BoothNumber: "DL089", Status: model.StatusOperational,
		TotalVerifications: 2734, SuccessfulVerifications: 2601, FailedVerifications: 133,
		Staff: []ReferenceStaff{
			{ID: "staff12", Name: "Anil Kapoor", Role: "Station Manager", Status: "active"},
			{ID: "staff13", Name: "Deepa Iyer", Role: "Verification Officer", Status: "active"},
		},
	},
	{
		ID: "ps6", Name: "Community Hall Rohini", Address: "Sector 3, Rohini, Delhi",
		District: "North West Delhi", State: "Delhi", BoothNumber: "DL102", Status: model.StatusOperational,
		TotalVerifications: 1987, SuccessfulVerifications: 1876, FailedVerifications: 111,
		Staff: []ReferenceStaff{
			{ID: "staff14", Name: "Suresh Babu", Role: "Station Manager", Status: "active"},
		},
	},
	{
		ID: "ps7", Name: "Government Girls Senior Secondary School", Address: "Lajpat Nagar, New Delhi",
		District: "South East Delhi", State: "Delhi", BoothNumber: "DL118", Status: model.StatusClosed,
		TotalVerifications: 0, SuccessfulVerifications: 0, FailedVerifications: 0,
		Staff:              []ReferenceStaff{},
	},
	{
		ID: "ps8", Name: "Thyagaraj Sports Complex", Address: "INA Colony, New Delhi",
		District: "New Delhi", State: "Delhi", BoothNumber: "DL131", Status: model.StatusOperational,
		TotalVerifications: 3412, SuccessfulVerifications: 3298, FailedVerifications: 114,
		Staff: []ReferenceStaff{
			{ID: "staff15", Name: "Lakshmi Narayan", Role: "Station Manager", Status: "active"},
			{ID: "staff16", Name: "Farhan Ali", Role: "Verification Officer", Status: "active"},
		},
	},
}

func referenceStaffToModel(staff []ReferenceStaff) []model.StaffMember {
	out := make([]model.StaffMember, 0, len(staff))
	for _, s := range staff {
		out = append(out, model.StaffMember{
			ID:   s.ID,
			Name: s.Name,
			Role: s.Role,
			// The bundled table has no contact field; carry the staff status so
			// the column is never empty.
			Contact: s.Status,
		})
	}
	return out
}
