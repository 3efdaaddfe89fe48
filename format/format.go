// Package format renders catalog values as display strings.
package format

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Unknown is shown for absent or non-positive values
const Unknown = "Unknown"

// DisplayDateLayout is the default output layout for Date
const DisplayDateLayout = "Jan 02, 2006"

const (
	billion  = 1_000_000_000
	million  = 1_000_000
	thousand = 1_000
)

// Runtime renders minutes as "{h}h {m}m"
func Runtime(minutes *int) string {
	if minutes == nil || *minutes < 0 {
		return Unknown
	}
	return fmt.Sprintf("%dh %dm", *minutes/60, *minutes%60)
}

// Budget renders a dollar amount using B and M units
func Budget(amount *int64) string {
	return dollars(amount)
}

// Revenue renders a dollar amount using B and M units
func Revenue(amount *int64) string {
	return dollars(amount)
}

func dollars(amount *int64) string {
	if amount == nil || *amount <= 0 {
		return Unknown
	}
	a := *amount
	switch {
	case a >= billion:
		return fmt.Sprintf("$%dB", a/billion)
	case a >= million:
		return fmt.Sprintf("$%dM", a/million)
	}
	return fmt.Sprintf("$%d", a)
}

// Currency renders an amount with the given symbol using the largest of the
// B, M and K units that applies. Values are truncated, not rounded.
func Currency(amount *int64, symbol string) string {
	if amount == nil || *amount <= 0 {
		return Unknown
	}
	a := *amount
	switch {
	case a >= billion:
		return fmt.Sprintf("%s%dB", symbol, a/billion)
	case a >= million:
		return fmt.Sprintf("%s%dM", symbol, a/million)
	case a >= thousand:
		return fmt.Sprintf("%s%dK", symbol, a/thousand)
	}
	return fmt.Sprintf("%s%d", symbol, a)
}

// Amount is Currency in dollars
func Amount(amount *int64) string {
	return Currency(amount, "$")
}

// Date reformats an ISO "2006-01-02" date with layout. Input that does not
// parse is returned unchanged.
func Date(s, layout string) string {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return s
	}
	if layout == "" {
		layout = DisplayDateLayout
	}
	return t.Format(layout)
}

// Rating renders a vote average with one decimal
func Rating(r float64) string {
	return fmt.Sprintf("%.1f", r)
}

// FileSize renders a byte count in SI units, e.g. "1.5 kB" or "12 MB".
// Negative counts keep their sign.
func FileSize(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.Bytes(uint64(-bytes))
	}
	return humanize.Bytes(uint64(bytes))
}
