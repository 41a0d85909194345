package phrase

import (
	"context"
	"fmt"

	"github.com/egaillera/reserva-restaurantes/reservation"
)

// LocalPhraser builds a deterministic question from a template, with no model
// call. It is the usual fallback behind a ToolBasedPhraser.
type LocalPhraser struct {
	// Template must contain one "%s" placeholder for the joined field names.
	// Empty means the default Spanish wording.
	Template string
}

const defaultLocalTemplate = "Por favor, ¿podría indicarme %s de la reserva?"

func (g *LocalPhraser) Ask(ctx context.Context, missing []reservation.FieldSpec) (string, error) {
	if len(missing) == 0 {
		return "", fmt.Errorf("nothing to ask: no missing fields")
	}
	tpl := g.Template
	if tpl == "" {
		tpl = defaultLocalTemplate
	}
	return fmt.Sprintf(tpl, joinDisplayNames(missing)), nil
}

// FailbackPhraser tries each phraser in order and returns the first answer.
type FailbackPhraser struct {
	phrasers []Phraser
}

func NewFailbackPhraser(phrasers ...Phraser) *FailbackPhraser {
	return &FailbackPhraser{phrasers: phrasers}
}

func (g *FailbackPhraser) Ask(ctx context.Context, missing []reservation.FieldSpec) (string, error) {
	var lastErr error
	for _, phraser := range g.phrasers {
		question, err := phraser.Ask(ctx, missing)
		if err == nil {
			return question, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("all phrasers failed: %w", lastErr)
}
