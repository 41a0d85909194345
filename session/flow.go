package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/egaillera/reserva-restaurantes/extract"
	"github.com/egaillera/reserva-restaurantes/phrase"
	"github.com/egaillera/reserva-restaurantes/reservation"
)

// Flow is the per-turn controller: it decides whether the utterance goes
// through extraction or is the answer to a pending question, merges extracted
// values into the record, and either closes the session or asks for what is
// still missing.
type Flow struct {
	extractor extract.Extractor
	phraser   phrase.Phraser
	schema    string
}

func NewFlow(extractor extract.Extractor, phraser phrase.Phraser) (*Flow, error) {
	schema, err := reservation.DraftSchema()
	if err != nil {
		return nil, err
	}
	return &Flow{
		extractor: extractor,
		phraser:   phraser,
		schema:    schema,
	}, nil
}

// RunTurn advances the state machine by one utterance, mutating st in place.
// On error st must be discarded by the caller; nothing about the turn is
// meant to survive a failed extraction or phrasing.
func (f *Flow) RunTurn(ctx context.Context, st *State, utterance string) (*TurnResult, error) {
	if st.Phase == "" {
		st.Phase = PhaseRouting
	}

	switch st.Phase {
	case PhaseDone:
		return nil, ErrSessionComplete

	case PhaseAsking:
		// The arriving utterance is the answer to the question just asked;
		// it is extracted on the next turn. No question is posed either.
		st.Phase = PhaseRouting
		slog.Debug("answer received, resuming routing")
		return &TurnResult{}, nil
	}

	draft, err := f.extractor.Extract(ctx, &extract.Request{
		Utterance: utterance,
		Schema:    f.schema,
		Missing:   st.Record.Missing(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionUnavailable, err)
	}
	extracted := !draft.Empty()
	st.Record.Merge(draft)
	slog.Debug("merged extraction result", "extracted", extracted, "complete", st.Record.Complete())

	if st.Record.Complete() {
		st.Phase = PhaseDone
		return &TurnResult{
			Message:   CompletedMessage,
			Extracted: extracted,
			Completed: true,
		}, nil
	}

	// Even when extraction found nothing, the turn still ends with a
	// question about the gaps; the conversation never stalls silently.
	question, err := f.phraser.Ask(ctx, st.Record.Missing())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPhrasingUnavailable, err)
	}
	st.Phase = PhaseAsking
	return &TurnResult{
		Message:   question,
		Extracted: extracted,
		Asked:     true,
	}, nil
}
