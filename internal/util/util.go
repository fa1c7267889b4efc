package util

import (
	"fmt"
	"time"
)

// FormatElapsed renders how long ago something happened, e.g. "12 min ago", "3h ago", "2d ago".
// Negative durations (clock skew) are treated as zero.
func FormatElapsed(elapsed time.Duration) string {
	minutes := max(int(elapsed/time.Minute), 0)

	switch {
	case minutes < 60:
		return fmt.Sprintf("%d min ago", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%dh ago", minutes/60)
	default:
		return fmt.Sprintf("%dd ago", minutes/(24*60))
	}
}
