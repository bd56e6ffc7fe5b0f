package ideas

import (
	"context"
	"errors"

	"github.com/thinkscotty/ideagen/internal/gemini"
)

// Error kinds reported to clients, metrics and the generation log.
const (
	KindConfiguration = "configuration"
	KindTransport     = "transport"
	KindUnparseable   = "unparseable_response"
	KindCanceled      = "canceled"
	KindInternal      = "internal"
)

// Kind classifies a Generate error.
func Kind(err error) string {
	var reqErr *gemini.RequestError
	var statusErr *gemini.StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, gemini.ErrNoAPIKey):
		return KindConfiguration
	case errors.Is(err, ErrUnparseable):
		return KindUnparseable
	case errors.As(err, &reqErr), errors.As(err, &statusErr), errors.Is(err, gemini.ErrNoCandidates):
		return KindTransport
	default:
		return KindInternal
	}
}
