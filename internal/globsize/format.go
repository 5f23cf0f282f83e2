package globsize

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// DefaultPrecision is the number of decimal digits used by FormatSize.
const DefaultPrecision = 2

// MaxPrecision is the largest precision FormatSizePrecision honors; the
// humanize formatter never emits more than six fractional digits.
const MaxPrecision = 6

//nolint:gochecknoglobals // Unit table
var units = []string{"B", "kB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// FormatSize formats a byte count with DefaultPrecision, e.g. 1500 -> "1.5 kB".
func FormatSize(bytes int64) string {
	return FormatSizePrecision(bytes, DefaultPrecision)
}

// FormatSizePrecision formats a byte count using the largest power-of-1000 unit
// whose size does not exceed bytes+1, rounded to precision decimal digits.
// A negative precision falls back to DefaultPrecision, one above MaxPrecision
// is capped to it.
func FormatSizePrecision(bytes int64, precision int) string {
	switch {
	case precision < 0:
		precision = DefaultPrecision
	case precision > MaxPrecision:
		precision = MaxPrecision
	}

	if bytes < 0 {
		return strconv.FormatInt(bytes, 10) + " B"
	}

	number := float64(bytes)
	scale := math.Pow(10, float64(precision))

	for exp := len(units) - 1; exp >= 0; exp-- {
		size := math.Pow(1000, float64(exp))
		if size > number+1 {
			continue
		}

		value := math.Round(number*scale/size) / scale

		return humanize.FtoaWithDigits(value, precision) + " " + units[exp]
	}

	return "0 B"
}
