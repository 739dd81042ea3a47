package holidays

import (
	"encoding/json"
)

// Entry is a single day in the holiday JSON data.
type Entry struct {
	Holiday bool   `json:"holiday"`
	Name    string `json:"name"`
	Wage    int    `json:"wage"`
	Date    string `json:"date"`
	// Optional fields
	After  *bool  `json:"after,omitempty"`
	Target string `json:"target,omitempty"`
	Rest   *int   `json:"rest,omitempty"`
}

// UnmarshalJSON accepts a holiday field that is either a boolean or a
// string; some published files use the holiday name in place of true.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type Alias Entry
	aux := &struct {
		Holiday interface{} `json:"holiday"`
		*Alias
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	switch v := aux.Holiday.(type) {
	case bool:
		e.Holiday = v
	case string:
		e.Holiday = v != ""
	default:
		e.Holiday = false
	}
	return nil
}

// yearData is one element of the top level JSON array.
type yearData struct {
	Year    string            `json:"year"`
	Holiday map[string]*Entry `json:"holiday"`
}
