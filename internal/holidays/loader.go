// Package holidays loads public holiday tables, downloads them into the
// user cache, and annotates grid cells with them.
package holidays

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lululau/gridcal/internal/calendar"
)

// Table maps year -> "MM-DD" -> entry.
type Table struct {
	years map[int]map[string]*Entry
}

// Parse decodes holiday JSON: an array of {"year": "2024", "holiday":
// {"MM-DD": entry}} objects.
func Parse(data []byte) (*Table, error) {
	var raw []yearData
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse holidays JSON: %w", err)
	}
	t := &Table{years: make(map[int]map[string]*Entry, len(raw))}
	for _, yd := range raw {
		year, err := strconv.Atoi(yd.Year)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday year %q: %w", yd.Year, err)
		}
		t.years[year] = yd.Holiday
	}
	return t, nil
}

// LoadFromFile loads holiday data from a JSON file.
func LoadFromFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holidays file: %w", err)
	}
	return Parse(data)
}

// CachePath returns the default holiday file location in the user cache
// directory.
func CachePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "gridcal", "holidays.json"), nil
}

// Years returns the number of years covered.
func (t *Table) Years() int {
	if t == nil {
		return 0
	}
	return len(t.years)
}

// YearInfo summarizes the covered years, or returns nil for an empty table.
func (t *Table) YearInfo() *YearInfo {
	if t.Years() == 0 {
		return nil
	}
	info := &YearInfo{Count: len(t.years)}
	first := true
	for y := range t.years {
		if first || y < info.MinYear {
			info.MinYear = y
		}
		if first || y > info.MaxYear {
			info.MaxYear = y
		}
		first = false
	}
	return info
}

// Lookup returns the entry covering d, if any.
func (t *Table) Lookup(d calendar.Date) (*Entry, bool) {
	if t == nil {
		return nil, false
	}
	days, ok := t.years[d.Year()]
	if !ok {
		return nil, false
	}
	e, ok := days[fmt.Sprintf("%02d-%02d", d.Month(), d.Day())]
	return e, ok && e != nil
}

// Annotate implements calendar.Annotator. Make-up working days are flagged
// as Workday.
func (t *Table) Annotate(d calendar.Date) calendar.Annotation {
	e, ok := t.Lookup(d)
	if !ok {
		return calendar.Annotation{}
	}
	return calendar.Annotation{Holiday: e.Name, Workday: !e.Holiday}
}
