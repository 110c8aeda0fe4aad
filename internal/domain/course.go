// Package domain contains core domain types for the course tracker.
package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidLevel indicates a course level outside the catalog range.
// Levels are 1-indexed positions in the catalog.
var ErrInvalidLevel = errors.New("invalid course level")

// Difficulty is a chart difficulty category.
type Difficulty int

const (
	Easy Difficulty = iota
	Advanced
	Expert
	Master
	ReMaster
)

var difficultyNames = [...]string{"Easy", "Advanced", "Expert", "Master", "ReMaster"}

// String returns the display form of the difficulty.
// ReMaster displays as "Re:Master", matching the arcade UI.
func (d Difficulty) String() string {
	if d == ReMaster {
		return "Re:Master"
	}
	if d < Easy || d > ReMaster {
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
	return difficultyNames[d]
}

// MarshalJSON serializes the difficulty by its enum name ("ReMaster",
// not the display form) so snapshots stay compatible.
func (d Difficulty) MarshalJSON() ([]byte, error) {
	if d < Easy || d > ReMaster {
		return nil, fmt.Errorf("unknown difficulty %d", int(d))
	}
	return []byte(`"` + difficultyNames[d] + `"`), nil
}

// UnmarshalJSON parses a difficulty from its enum name.
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	s := string(data)
	for i, name := range difficultyNames {
		if s == `"`+name+`"` {
			*d = Difficulty(i)
			return nil
		}
	}
	return fmt.Errorf("unknown difficulty %s", s)
}

// Song is one chart in a course. Display-only; the simulator never
// reads it.
type Song struct {
	Title      string     `json:"title"`
	Difficulty Difficulty `json:"difficulty"`
	Level      string     `json:"level"`
}

// Course is a fixed sequence of songs played on a shared life pool.
type Course struct {
	Name  string `json:"name"`
	Life  int    `json:"life"`
	Heal  int    `json:"heal"`
	Songs []Song `json:"songs"`
}

// Catalog is the ordered set of courses for one period. The course at
// index i is level i+1.
type Catalog []Course

// At returns the course for a 1-indexed level.
func (c Catalog) At(level int) (*Course, error) {
	if level < 1 || level > len(c) {
		return nil, fmt.Errorf("%w: %d (catalog has %d courses)", ErrInvalidLevel, level, len(c))
	}
	return &c[level-1], nil
}
