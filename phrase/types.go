package phrase

import (
	"context"

	"github.com/egaillera/reserva-restaurantes/reservation"
)

// Phraser turns the descriptions of still-missing fields into one polite
// question in the session's target language, covering all of them in a single
// request rather than one question per field.
type Phraser interface {
	Ask(ctx context.Context, missing []reservation.FieldSpec) (string, error)
}
