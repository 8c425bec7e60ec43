package utils

import (
	"fmt"
	"strconv"
	"time"
)

func FormatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		str = str[1:]
	}

	var out []byte
	for i := range len(str) {
		if i > 0 && (len(str)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, str[i])
	}

	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// FormatCoins abbreviates large amounts: 1.5K, 2.0M, 3.1B.
func FormatCoins(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return FormatNumber(n)
}

// FormatSigned prefixes positive amounts with a plus.
func FormatSigned(n int64) string {
	if n > 0 {
		return "+" + FormatNumber(n)
	}
	return FormatNumber(n)
}

func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "Ready"
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// ProgressBar draws a ten segment bar for a percentage.
func ProgressBar(pct float64) string {
	filled := min(max(int(pct/10), 0), 10)
	bar := make([]rune, 10)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return string(bar)
}
