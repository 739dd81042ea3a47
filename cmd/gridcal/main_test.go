package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lululau/gridcal/internal/calendar"
	"github.com/lululau/gridcal/internal/config"
	"github.com/lululau/gridcal/internal/dateformat"
)

func TestParseRequest(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		showYear bool
		args     []string
		want     calendar.YearMonth
		wantYear bool
	}{
		{"none", false, nil, calendar.YearMonth{Year: now.Year(), Month: int(now.Month())}, false},
		{"month", false, []string{"9"}, calendar.YearMonth{Year: now.Year(), Month: 9}, false},
		{"year", false, []string{"1983"}, calendar.YearMonth{Year: 1983, Month: int(now.Month())}, true},
		{"year month", false, []string{"2012", "12"}, calendar.YearMonth{Year: 2012, Month: 12}, false},
		{"flag year", true, []string{"9"}, calendar.YearMonth{Year: 9, Month: int(now.Month())}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, showYear, err := parseRequest(tt.showYear, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantYear, showYear)
		})
	}
}

func TestParseRequestErrors(t *testing.T) {
	for _, args := range [][]string{{"x"}, {"2012", "13"}, {"1", "2", "3"}} {
		_, _, err := parseRequest(false, args)
		assert.Error(t, err, args)
	}
	_, _, err := parseRequest(true, []string{"2012", "1"})
	assert.Error(t, err)
}

func TestLocaleID(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_TIME", "")
	t.Setenv("LANG", "fr_FR.UTF-8")
	assert.Equal(t, "fr_FR.UTF-8", localeID(config.Default()))

	cfg := config.Default()
	cfg.Locale = "ja-JP"
	assert.Equal(t, "ja-JP", localeID(cfg))

	t.Setenv("LANG", "")
	assert.Equal(t, dateformat.InvariantID, localeID(config.Default()))
}

func TestLoadCacheNotices(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "holidays.json")

	table, notice, err := loadCache(path, now)
	require.NoError(t, err)
	assert.Nil(t, table)
	assert.Contains(t, notice, "-update-holidays")

	data := `[{"year": "2025", "holiday": {"01-01": {"holiday": true, "name": "New Year", "date": "2025-01-01"}}}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	require.NoError(t, os.Chtimes(path, now, now.AddDate(0, -1, 0)))
	table, notice, err = loadCache(path, now)
	require.NoError(t, err)
	require.NotNil(t, table)
	assert.Empty(t, notice)

	require.NoError(t, os.Chtimes(path, now, now.AddDate(-1, 0, 0)))
	table, notice, err = loadCache(path, now)
	require.NoError(t, err)
	assert.NotNil(t, table, "stale data is still used")
	assert.Contains(t, notice, "six months")
}
