package discord

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"riseup/internal/domain"
)

// ParseRiseTime parses a time of day such as "8pm", "9:01am" or "21:30"
// and returns its next occurrence strictly after now, in now's location.
func ParseRiseTime(text string, now time.Time) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if len(s) < 2 {
		return time.Time{}, domain.ErrInvalidTime
	}

	suffix := ""
	if strings.HasSuffix(s, "am") || strings.HasSuffix(s, "pm") {
		suffix = s[len(s)-2:]
		s = strings.TrimSpace(s[:len(s)-2])
	}

	hourStr, minStr, hasMinutes := strings.Cut(s, ":")
	if suffix == "" && !hasMinutes {
		// A bare number is ambiguous without am/pm.
		return time.Time{}, domain.ErrInvalidTime
	}
	hour, err := parseDigits(hourStr)
	if err != nil {
		return time.Time{}, domain.ErrInvalidTime
	}
	minute := 0
	if hasMinutes {
		if len(minStr) != 2 {
			return time.Time{}, domain.ErrInvalidTime
		}
		if minute, err = parseDigits(minStr); err != nil || minute > 59 {
			return time.Time{}, domain.ErrInvalidTime
		}
	}

	switch suffix {
	case "":
		if hour > 23 {
			return time.Time{}, domain.ErrInvalidTime
		}
	default:
		if hour < 1 || hour > 12 {
			return time.Time{}, domain.ErrInvalidTime
		}
		hour %= 12
		if suffix == "pm" {
			hour += 12
		}
	}

	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !target.After(now) {
		target = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
	}
	return target, nil
}

func parseDigits(s string) (int, error) {
	if s == "" || len(s) > 2 {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid number %q", s)
		}
	}
	return strconv.Atoi(s)
}

// FormatShortTime renders t as "8:05pm".
func FormatShortTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	hour := (t.Hour()+11)%12 + 1
	return strconv.Itoa(hour) + strings.ToLower(t.Format(":04PM"))
}
