package domain

import "fmt"

// Status reports whether a course run survived to the end.
type Status int

const (
	Passed Status = iota
	Failed
)

// String returns the display form of the status.
func (s Status) String() string {
	switch s {
	case Passed:
		return "Passed"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalJSON serializes the status by name, matching the snapshot
// format ("Passed"/"Failed").
func (s Status) MarshalJSON() ([]byte, error) {
	switch s {
	case Passed, Failed:
		return []byte(`"` + s.String() + `"`), nil
	default:
		return nil, fmt.Errorf("unknown status %d", int(s))
	}
}

// UnmarshalJSON parses a status from its name.
func (s *Status) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"Passed"`:
		*s = Passed
	case `"Failed"`:
		*s = Failed
	default:
		return fmt.Errorf("unknown status %s", data)
	}
	return nil
}

// Record is the latest stored outcome for one user on one course
// level. A new submission for the same (user, level) pair overwrites
// it; the store keeps no history.
type Record struct {
	Life   int    `json:"life"`
	Status Status `json:"status"`
}

// UserRecords holds all course records of a single player. Fullname is
// refreshed from the triggering submission every time, so it always
// reflects the most recent identity the player submitted under.
type UserRecords struct {
	Fullname string         `json:"fullname"`
	Records  map[int]Record `json:"records"`
}
