package textwidth_test

import (
	"testing"

	"github.com/lululau/gridcal/internal/textwidth"
)

func TestStringWidthMixedScripts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"ascii", "hello", 5},
		{"chinese", "中文", 4},
		{"mixed", "A中", 3},
		{"multiline", "ab\n中文", 4},
		{"umlaut", "März", 4},
		{"cyrillic", "Пн", 2},
		{"kana", "月曜日", 6},
		{"ansi", "\x1b[38;2;59;130;246m12\x1b[0m", 2},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textwidth.StringWidth(tt.in); got != tt.want {
				t.Fatalf("StringWidth(%q)=%d want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	got := textwidth.PadRight("中", 4)
	if got != "中  " {
		t.Fatalf("PadRight=%q", got)
	}
	if got := textwidth.PadRight("toolong", 3); got != "toolong" {
		t.Fatalf("PadRight should not truncate, got %q", got)
	}
}

func TestPadLeftAndCenter(t *testing.T) {
	if got := textwidth.PadLeft("Mo", 4); got != "  Mo" {
		t.Fatalf("PadLeft=%q", got)
	}
	if got := textwidth.Center("Di", 5); got != " Di  " {
		t.Fatalf("Center=%q", got)
	}
	if got := textwidth.Center("周一", 6); got != " 周一 " {
		t.Fatalf("Center=%q", got)
	}
}
