// Package session drives the reservation dialogue: a per-turn state machine
// over a slot-filling record, plus the keyed stores that let a session resume
// on its next utterance.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/schema"
	"github.com/egaillera/reserva-restaurantes/extract"
	"github.com/egaillera/reserva-restaurantes/phrase"
	"github.com/egaillera/reserva-restaurantes/reservation"
)

// Session is the turn loop boundary. One session id corresponds to one
// reservation; distinct ids never share a record. All collaborators are
// injected at construction.
type Session struct {
	flow    *Flow
	states  *StateStore
	history *HistoryStore
}

func New(flow *Flow, states *StateStore, history *HistoryStore) *Session {
	return &Session{
		flow:    flow,
		states:  states,
		history: history,
	}
}

// NewInMemory wires a session over in-memory stores, for tests and
// single-process runners.
func NewInMemory(extractor extract.Extractor, phraser phrase.Phraser) (*Session, error) {
	flow, err := NewFlow(extractor, phraser)
	if err != nil {
		return nil, err
	}
	return New(flow, NewMemoryStateStore(), NewMemoryHistoryStore(nil)), nil
}

// SubmitUtterance threads one user utterance through the state machine and
// returns the assistant reply. State is committed only when the whole turn
// succeeds; on failure the utterance is still logged to history and the same
// turn can be retried safely.
func (s *Session) SubmitUtterance(ctx context.Context, sessionID, text string) (*Reply, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is empty")
	}
	ctx = WithSessionID(ctx, sessionID)

	st, err := s.states.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session state: %w", err)
	}
	if st.Phase == PhaseDone {
		return nil, ErrSessionComplete
	}

	if _, err := s.history.Append(ctx, schema.UserMessage(text)); err != nil {
		return nil, fmt.Errorf("failed to log utterance: %w", err)
	}

	result, err := s.flow.RunTurn(ctx, &st, text)
	if err != nil {
		slog.Debug("turn aborted", "session", sessionID, "err", err)
		return nil, err
	}

	if result.Message != "" {
		if _, err := s.history.Append(ctx, schema.AssistantMessage(result.Message, nil)); err != nil {
			return nil, fmt.Errorf("failed to log reply: %w", err)
		}
	}
	if err := s.states.Write(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to write session state: %w", err)
	}
	slog.Debug("turn finished", "session", sessionID, "phase", st.Phase, "asked", result.Asked, "completed", result.Completed)

	reply := &Reply{
		SessionID: sessionID,
		Message:   result.Message,
		Completed: result.Completed,
	}
	if result.Completed {
		record := st.Record
		reply.Record = &record
	}
	return reply, nil
}

// Seed pre-fills a session's record with already-known values, e.g. the phone
// number of an authenticated caller. Fields the session already collected are
// left untouched.
func (s *Session) Seed(ctx context.Context, sessionID string, seed reservation.Draft) error {
	if sessionID == "" {
		return fmt.Errorf("session id is empty")
	}
	ctx = WithSessionID(ctx, sessionID)

	st, err := s.states.Read(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session state: %w", err)
	}
	if st.Phase == PhaseDone {
		return ErrSessionComplete
	}

	record, err := applySeed(st.Record, seedOperations(st.Record, seed))
	if err != nil {
		return err
	}
	st.Record = record
	return s.states.Write(ctx, st)
}

// State returns the current persisted turn state of a session.
func (s *Session) State(ctx context.Context, sessionID string) (State, error) {
	return s.states.Read(WithSessionID(ctx, sessionID))
}

// History returns the persisted message log of a session.
func (s *Session) History(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	return s.history.Load(WithSessionID(ctx, sessionID))
}

// End discards a session's state and history, whether or not it completed.
func (s *Session) End(ctx context.Context, sessionID string) error {
	ctx = WithSessionID(ctx, sessionID)
	if err := s.states.Remove(ctx); err != nil {
		return err
	}
	return s.history.Clear(ctx)
}
