package openai

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/openai/openai-go"
)

// wrapError maps an OpenAI SDK error onto the evolve error categories.
// A 429 carries the Retry-After header as the suggested delay.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	code := apiErr.StatusCode
	msg := err.Error()

	switch {
	case code == http.StatusTooManyRequests:
		return evolve.NewQuotaError(msg, code, parseRetryAfter(apiErr.Response), err)
	case code >= 500:
		return evolve.NewOverloadedError(msg, code, err)
	case code == 401 || code == 403:
		return evolve.NewPermanentError(msg, code, err)
	case code == 400 || code == 404 || code == 422:
		return evolve.NewUserInputError(msg, code, err)
	default:
		return evolve.NewPermanentError(msg, code, err)
	}
}

// parseRetryAfter extracts the Retry-After duration from an HTTP response.
// Returns 0 if the header is not present or cannot be parsed.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.ParseFloat(header, 64); err == nil {
		return time.Duration(seconds * float64(time.Second))
	}

	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}

	return 0
}
