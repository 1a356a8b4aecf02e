package google

import (
	"errors"
	"fmt"
	"strings"
	"time"

	evolve "github.com/Inventure71/EvolveProject"
	"github.com/Inventure71/EvolveProject/retry"
	"google.golang.org/genai"
)

const retryInfoType = "type.googleapis.com/google.rpc.RetryInfo"

// wrapError maps a GenAI error onto the evolve error categories.
// Quota errors carry the server's RetryInfo delay when present.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var ptr *genai.APIError
		if !errors.As(err, &ptr) || ptr == nil {
			return err
		}
		apiErr = *ptr
	}

	code := apiErr.Code
	msg := err.Error()

	switch {
	case code == 429 || apiErr.Status == "RESOURCE_EXHAUSTED":
		return evolve.NewQuotaError(msg, code, retryDelay(apiErr), err)
	case code >= 500 || apiErr.Status == "UNAVAILABLE":
		return evolve.NewOverloadedError(msg, code, err)
	case code == 401 || code == 403:
		return evolve.NewPermanentError(msg, code, err)
	case code == 400 || code == 404 || code == 422:
		return evolve.NewUserInputError(msg, code, err)
	default:
		return evolve.NewPermanentError(msg, code, err)
	}
}

// retryDelay reads the RetryInfo detail, falling back to the message text.
func retryDelay(apiErr genai.APIError) time.Duration {
	for _, detail := range apiErr.Details {
		if t, _ := detail["@type"].(string); t != retryInfoType {
			continue
		}
		if raw, ok := detail["retryDelay"].(string); ok {
			if d, err := time.ParseDuration(strings.TrimSpace(raw)); err == nil {
				return d
			}
		}
	}
	return retry.ParseRetryDelay(fmt.Sprintf("%s %v", apiErr.Message, apiErr.Details))
}
