package verdict

import (
	"fmt"
	"strconv"
	"time"
)

// Placeholder is displayed instead of an unmeasured figure.
const Placeholder = "-"

const (
	kiloPerMega = 1 << 10
	kiloPerGiga = 1 << 20
)

// FormatDuration renders backend ticks as milliseconds with one decimal.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return Placeholder
	}
	return fmt.Sprintf("%.1f ms", float64(d)/1e6)
}

// FormatMemory renders kilobytes as KB, MB or GB.
func FormatMemory(kb int64) string {
	switch {
	case kb == 0:
		return Placeholder
	case kb < kiloPerMega:
		return strconv.FormatInt(kb, 10) + " KB"
	case kb < kiloPerGiga:
		return fmt.Sprintf("%.2f MB", float64(kb)/kiloPerMega)
	default:
		return fmt.Sprintf("%.2f GB", float64(kb)/kiloPerGiga)
	}
}

// FormatScore renders a score, or the placeholder when there is none.
func FormatScore(score *int) string {
	if score == nil {
		return Placeholder
	}
	return strconv.Itoa(*score)
}
