// Package memerr defines the error taxonomy shared by the CLI and hook
// boundaries (spec §7). Callers classify failures by Kind; the underlying
// cause is still reachable via errors.Unwrap/errors.As.
package memerr

import "fmt"

// Kind classifies an error for the purposes of exit-code / hook-decision
// mapping. It is never used for control flow inside the core packages —
// only at the CLI and hook boundaries.
type Kind int

const (
	// KindInternal covers unexpected failures; never surfaced as Block.
	KindInternal Kind = iota
	KindValidation
	KindProtection
	KindTimeout
	KindEmbeddingProvider
	KindParse
	KindFilesystem
	KindConfiguration
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindProtection:
		return "protection"
	case KindTimeout:
		return "timeout"
	case KindEmbeddingProvider:
		return "embedding_provider"
	case KindParse:
		return "parse"
	case KindFilesystem:
		return "filesystem"
	case KindConfiguration:
		return "configuration"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a tagged error carrying a Kind and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a Kind-tagged error with no wrapped cause.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags an existing error with a Kind, preserving it as the cause.
func Wrap(kind Kind, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the Kind from err, defaulting to KindInternal when err
// is not (or does not wrap) a *Error.
func KindOf(err error) Kind {
	var e *Error
	if asError(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// asError walks err's single-Unwrap chain looking for a *Error. It does
// not call errors.As, so multi-errors (Unwrap() []error) are not searched.
func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
