package plan

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	str2duration "github.com/xhit/go-str2duration/v2"
)

const DefaultTTL = time.Hour

var unitAliases = map[string]string{
	"w": "w", "week": "w", "weeks": "w",
	"d": "d", "day": "d", "days": "d",
	"h": "h", "hr": "h", "hrs": "h", "hour": "h", "hours": "h",
	"m": "m", "min": "m", "mins": "m", "minute": "m", "minutes": "m",
	"s": "s", "sec": "s", "secs": "s", "second": "s", "seconds": "s",
	"ms": "ms", "us": "us", "µs": "µs", "ns": "ns",
}

// ParseTTL turns "30m", "2h", "1d12h", "2 hours", "1 hour 30 minutes" or "0"
// into a duration. A bare number counts seconds. An empty string yields
// fallback (DefaultTTL when fallback is not positive). Zero means the caller
// wants its marker removed.
func ParseTTL(raw string, fallback time.Duration) (time.Duration, error) {
	if fallback <= 0 {
		fallback = DefaultTTL
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	if raw == "0" {
		return 0, nil
	}
	d, err := str2duration.ParseDuration(normalizeDuration(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrBadDuration, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %q is negative", ErrBadDuration, raw)
	}
	return d, nil
}

// normalizeDuration drops whitespace, maps long unit names to their short
// form and gives a unitless number the seconds unit. Unknown units are kept
// so the parser reports them.
func normalizeDuration(raw string) string {
	var out, word strings.Builder
	flush := func() {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		if short, ok := unitAliases[w]; ok {
			w = short
		}
		out.WriteString(w)
		word.Reset()
	}
	for _, r := range strings.ToLower(raw) {
		switch {
		case unicode.IsSpace(r):
			continue
		case unicode.IsLetter(r):
			word.WriteRune(r)
		default:
			flush()
			out.WriteRune(r)
		}
	}
	flush()

	s := out.String()
	if last := s[len(s)-1]; last >= '0' && last <= '9' {
		s += "s"
	}
	return s
}
