package extract

import (
	"context"

	"github.com/egaillera/reserva-restaurantes/reservation"
)

// Request is the input contract of an extraction backend: the raw utterance
// plus the declared shape it may fill.
type Request struct {
	// Utterance is the latest user message, verbatim.
	Utterance string

	// Schema is the JSON schema of reservation.Draft, the target shape.
	Schema string

	// Missing lists the slots still unfilled, as guidance only; backends must
	// not invent values for them.
	Missing []reservation.FieldSpec
}

// Extractor turns free text into candidate reservation values. Fields the
// utterance does not mention are left nil in the draft, never guessed. An
// utterance with nothing to extract yields an empty draft and no error.
type Extractor interface {
	Extract(ctx context.Context, req *Request) (reservation.Draft, error)
}
