package sanitizer

import (
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func reformat(layout string) Strategy {
	return func(s string) string {
		t, err := time.Parse(layout, s)
		if err != nil {
			return s
		}
		return t.Format(layout)
	}
}

// SanitizeClock canonicalizes a time of day to HH:MM. Unparseable input is returned trimmed.
func SanitizeClock(input string) string {
	return Pipeline{strings.TrimSpace, reformat(clockLayout)}.Apply(input)
}

// SanitizeDate canonicalizes a calendar date to YYYY-MM-DD. Unparseable input is returned trimmed.
func SanitizeDate(input string) string {
	return Pipeline{strings.TrimSpace, reformat(dateLayout)}.Apply(input)
}

func SanitizeGuestName(input string) string {
	return TrimAndNormalize(input)
}

func SanitizeFeatures(features []string) []string {
	return NormalizeStringSlice(features, TrimAndNormalize)
}
