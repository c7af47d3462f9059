package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Turn is one prior message handed to a completion provider. Role is
// model.RoleUser or model.RoleModel and Text is passed through verbatim.
type Turn struct {
	Role string
	Text string
}

// CompletionProvider produces a single text reply for a prompt given the
// chronological window of prior turns.
type CompletionProvider interface {
	Complete(ctx context.Context, history []Turn, prompt string) (string, error)
}

// ErrorKind classifies why a completion call failed.
type ErrorKind string

const (
	KindQuota   ErrorKind = "quota"
	KindAuth    ErrorKind = "auth"
	KindNetwork ErrorKind = "network"
	KindUnknown ErrorKind = "unknown"
)

// ErrEmptyReply is wrapped in a ProviderError when the model returns no text.
var ErrEmptyReply = errors.New("provider returned an empty reply")

// ProviderError is returned by every CompletionProvider failure.
type ProviderError struct {
	Kind ErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("completion provider %s error: %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// kindForStatus maps an upstream HTTP status to an ErrorKind.
func kindForStatus(code int) ErrorKind {
	switch code {
	case http.StatusTooManyRequests:
		return KindQuota
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	default:
		return KindUnknown
	}
}
