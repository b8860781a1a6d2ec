package format

import (
	"fmt"
	"strings"
	"time"
)

// Price renders an amount in cents the way the storefront displays it:
// "¥32.99" for 3299. Negative amounts keep the sign ahead of the symbol.
func Price(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	major := cents / 100
	minor := cents % 100
	out := fmt.Sprintf("¥%s.%02d", thousandSep(major), minor)
	if neg {
		return "-" + out
	}
	return out
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Date formats a backend timestamp string for display. Unparseable input is
// shown as-is rather than hidden.
func Date(value, lang string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return FmtTime(ts, lang)
		}
	}
	return value
}

// FmtTime formats a time in a locale-friendly short form.
func FmtTime(t time.Time, lang string) string {
	switch strings.ToLower(lang) {
	case "zh":
		return t.Format("2006-01-02 15:04")
	default:
		return t.Format("Jan 2, 2006 15:04")
	}
}
