// Package textwidth measures strings in monospace terminal columns. Month
// and weekday names come from many scripts, so widths are computed per rune:
// Latin, Greek and Cyrillic letters take one column, Han and kana take two,
// and ambiguous punctuation is resolved by asking whether GBK stores it as a
// double-byte character.
package textwidth

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/encoding/simplifiedchinese"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

var narrowScripts = []*unicode.RangeTable{unicode.Latin, unicode.Greek, unicode.Cyrillic}

// StringWidth returns the widest line of s in columns. ANSI color sequences
// do not count.
func StringWidth(s string) int {
	if s == "" {
		return 0
	}
	maxWidth := 0
	for _, line := range strings.Split(s, "\n") {
		maxWidth = max(maxWidth, lineWidth(line))
	}
	return maxWidth
}

// PadRight appends ASCII spaces until the rendered width matches target.
func PadRight(s string, width int) string {
	diff := width - StringWidth(s)
	if diff <= 0 {
		return s
	}
	return s + strings.Repeat(" ", diff)
}

// PadLeft prepends ASCII spaces until the rendered width matches target.
func PadLeft(s string, width int) string {
	diff := width - StringWidth(s)
	if diff <= 0 {
		return s
	}
	return strings.Repeat(" ", diff) + s
}

// Center pads s on both sides; an odd remainder goes to the right.
func Center(s string, width int) string {
	diff := width - StringWidth(s)
	if diff <= 0 {
		return s
	}
	left := diff / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", diff-left)
}

func lineWidth(s string) int {
	width := 0
	for _, r := range stripANSI(s) {
		width += RuneWidth(r)
	}
	return width
}

// RuneWidth returns the column width of r.
func RuneWidth(r rune) int {
	switch {
	case r == '\r' || r == '\n':
		return 0
	case r <= unicode.MaxASCII:
		return 1
	case unicode.In(r, narrowScripts...):
		return 1
	case runewidth.IsAmbiguousWidth(r):
		if gbkDoubleByte(r) {
			return 2
		}
		return 1
	}
	return runewidth.RuneWidth(r)
}

// gbkDoubleByte reports whether GBK encodes r in two bytes. Runes GBK cannot
// encode count as single byte.
func gbkDoubleByte(r rune) bool {
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(string(r))
	return err == nil && len(encoded) == 2
}

func stripANSI(s string) string {
	return ansiRegexp.ReplaceAllString(s, "")
}
