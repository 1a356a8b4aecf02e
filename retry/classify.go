package retry

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	evolve "github.com/Inventure71/EvolveProject"
)

// statusCoder is implemented by SDK errors carrying an HTTP status code.
type statusCoder interface {
	StatusCode() int
}

// retryDelayPattern matches the delay hint Gemini embeds in quota errors,
// e.g. `"retryDelay": "37s"`.
var retryDelayPattern = regexp.MustCompile(`retryDelay['"]?\s*:\s*['"]?(\d+(?:\.\d+)?)s`)

// Classify determines the retry class of err and any provider-suggested
// delay.
//
// Categorized errors report their own kind. Uncategorized errors fall back
// to the status code and then to the message text.
func Classify(err error) (evolve.FailureKind, time.Duration) {
	if err == nil {
		return evolve.KindOther, 0
	}

	var ce evolve.CategorizedError
	if errors.As(err, &ce) {
		kind := ce.Kind()
		delay := ce.RetryAfter()
		if kind == evolve.KindQuotaExceeded && delay == 0 {
			delay = ParseRetryDelay(err.Error())
		}
		return kind, delay
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		if kind := KindForStatus(sc.StatusCode()); kind != evolve.KindOther {
			return kind, ParseRetryDelay(err.Error())
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "503") && strings.Contains(msg, "overloaded"):
		return evolve.KindOverloaded, 0
	case strings.Contains(msg, "429") && (strings.Contains(msg, "quota") || strings.Contains(msg, "resource_exhausted")):
		return evolve.KindQuotaExceeded, ParseRetryDelay(err.Error())
	}
	return evolve.KindOther, 0
}

// KindForStatus maps an HTTP status code to a failure kind.
func KindForStatus(code int) evolve.FailureKind {
	switch {
	case code == 429:
		return evolve.KindQuotaExceeded
	case code == 529, code >= 500 && code < 600:
		return evolve.KindOverloaded
	default:
		return evolve.KindOther
	}
}

// ParseRetryDelay extracts a `retryDelay` hint from an error message.
// It returns 0 when no hint is present.
func ParseRetryDelay(msg string) time.Duration {
	m := retryDelayPattern.FindStringSubmatch(msg)
	if m == nil {
		return 0
	}
	secs, err := strconv.ParseFloat(m[1], 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// Retryable reports whether err belongs to a retried failure class.
func Retryable(err error) bool {
	kind, _ := Classify(err)
	return kind == evolve.KindOverloaded || kind == evolve.KindQuotaExceeded
}
