package anthropic

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/anthropics/anthropic-sdk-go"
)

// statusOverloaded is returned by the API when it is temporarily overloaded.
const statusOverloaded = 529

// wrapError maps an Anthropic SDK error onto the evolve error categories.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	code := apiErr.StatusCode
	msg := err.Error()

	switch {
	case code == http.StatusTooManyRequests:
		return evolve.NewQuotaError(msg, code, retryAfter(apiErr.Response), err)
	case code == statusOverloaded || code >= 500:
		return evolve.NewOverloadedError(msg, code, err)
	case code == 401 || code == 403:
		return evolve.NewPermanentError(msg, code, err)
	case code == 400 || code == 404 || code == 413 || code == 422:
		return evolve.NewUserInputError(msg, code, err)
	default:
		return evolve.NewPermanentError(msg, code, err)
	}
}

func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}
