package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func testCatalog() Catalog {
	return Catalog{
		{Name: "Intro", Life: 900, Heal: 20},
		{Name: "Expert Run", Life: 500, Heal: 30},
	}
}

func TestCatalogAt(t *testing.T) {
	catalog := testCatalog()

	course, err := catalog.At(2)
	if err != nil {
		t.Fatalf("At(2) failed: %v", err)
	}
	if course.Name != "Expert Run" {
		t.Errorf("Expected Expert Run, got %s", course.Name)
	}
}

func TestCatalogAtInvalidLevel(t *testing.T) {
	catalog := testCatalog()

	for _, level := range []int{0, -1, 3, 100} {
		if _, err := catalog.At(level); !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("At(%d): expected ErrInvalidLevel, got %v", level, err)
		}
	}
}

func TestDifficultyJSONRoundTrip(t *testing.T) {
	for d := Easy; d <= ReMaster; d++ {
		data, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("Marshal %v failed: %v", d, err)
		}
		var got Difficulty
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal %s failed: %v", data, err)
		}
		if got != d {
			t.Errorf("Round trip changed %v to %v", d, got)
		}
	}
}

func TestDifficultySnapshotNames(t *testing.T) {
	// Snapshots store the enum name, not the display form.
	data, err := json.Marshal(ReMaster)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"ReMaster"` {
		t.Errorf(`Expected "ReMaster", got %s`, data)
	}
	if ReMaster.String() != "Re:Master" {
		t.Errorf("Expected display form Re:Master, got %s", ReMaster.String())
	}
}

func TestDifficultyUnmarshalUnknown(t *testing.T) {
	var d Difficulty
	if err := json.Unmarshal([]byte(`"Ultima"`), &d); err == nil {
		t.Error("Expected error for unknown difficulty")
	}
}

func TestStatusJSON(t *testing.T) {
	data, err := json.Marshal(Record{Life: 245, Status: Passed})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"life":245,"status":"Passed"}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}

	var rec Record
	if err := json.Unmarshal([]byte(`{"life":0,"status":"Failed"}`), &rec); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if rec.Status != Failed || rec.Life != 0 {
		t.Errorf("Expected {0 Failed}, got %+v", rec)
	}
}
