package session

import (
	"github.com/egaillera/reserva-restaurantes/reservation"
)

// Phase is the position of a session inside the turn-taking cycle.
type Phase string

const (
	// PhaseRouting: the next utterance is routed through extraction.
	PhaseRouting Phase = "routing"
	// PhaseAsking: a question was just posed; the next utterance is the
	// answer and is extracted one turn later.
	PhaseAsking Phase = "asking"
	// PhaseDone: the record is complete; terminal.
	PhaseDone Phase = "done"
)

// CompletedMessage is the fixed reply emitted when the reservation is
// complete.
const CompletedMessage = "Reserva realizada con éxito"

// State is everything one session must persist between turns, besides its
// message history.
type State struct {
	Phase  Phase              `json:"phase"`
	Record reservation.Record `json:"record"`
}

func NewState() State {
	return State{Phase: PhaseRouting}
}

// AwaitingAnswer reports whether the previous turn ended with a question.
func (s State) AwaitingAnswer() bool {
	return s.Phase == PhaseAsking
}

// TurnResult is the outcome of running one utterance through the flow.
type TurnResult struct {
	// Message is the assistant reply for this turn; empty on the beat that
	// only acknowledges an answer.
	Message string
	// Extracted reports whether this turn's extraction produced any values.
	Extracted bool
	// Asked reports whether Message is a follow-up question.
	Asked bool
	// Completed reports that the record is full and the session is done.
	Completed bool
}

// Reply is the session boundary answer to one submitted utterance.
type Reply struct {
	SessionID string              `json:"session_id"`
	Message   string              `json:"message"`
	Completed bool                `json:"completed"`
	Record    *reservation.Record `json:"record,omitempty"`
}
