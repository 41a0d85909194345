package session

import "errors"

var (
	// ErrExtractionUnavailable: the extraction backend failed or returned
	// malformed output. The record was not touched; the turn may be retried
	// with the same utterance.
	ErrExtractionUnavailable = errors.New("extraction unavailable")

	// ErrPhrasingUnavailable: the phrasing backend failed. Nothing was
	// persisted and no question was posed; the turn may be retried.
	ErrPhrasingUnavailable = errors.New("phrasing unavailable")

	// ErrInvalidFieldValue is reserved for value validation; nothing raises
	// it yet.
	ErrInvalidFieldValue = errors.New("invalid field value")

	// ErrSessionComplete: the session reached its terminal phase and accepts
	// no further utterances.
	ErrSessionComplete = errors.New("session already complete")

	// ErrNoSessionID: the context carries no session key for a keyed store.
	ErrNoSessionID = errors.New("no session id in context")
)
