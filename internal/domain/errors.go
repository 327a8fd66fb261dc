package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the requested document key does not exist in storage.
	ErrNotFound = errors.New("document not found")

	// ErrIndexNotReady means a corpus query arrived before any successful build.
	ErrIndexNotReady = errors.New("similarity index not built")

	// ErrEmptyCorpus means an index build was attempted with zero chunks.
	ErrEmptyCorpus = errors.New("empty corpus")

	// ErrNoParsableContent means a rebuild produced no chunks across the
	// entire corpus.
	ErrNoParsableContent = errors.New("no parsable content in corpus")

	// ErrRebuildInProgress means a rebuild was requested while another one
	// is still running.
	ErrRebuildInProgress = errors.New("index rebuild already in progress")
)

// TransportError wraps a network or provider failure from an external
// collaborator (blob storage, embedding, or generation).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// InvalidResponseError means a provider returned a well-formed transport
// response with a malformed payload, e.g. a missing embedding field.
type InvalidResponseError struct {
	Op     string
	Reason string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("%s: invalid response: %s", e.Op, e.Reason)
}

// IsRecoverable reports whether ranking is allowed to degrade to keyword
// overlap after this error. Only provider failures qualify; anything else
// (including ranking bugs) must propagate.
func IsRecoverable(err error) bool {
	var te *TransportError
	var ie *InvalidResponseError
	return errors.As(err, &te) || errors.As(err, &ie)
}
