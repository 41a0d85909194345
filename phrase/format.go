package phrase

import (
	"fmt"
	"strings"

	"github.com/egaillera/reserva-restaurantes/reservation"
)

func formatMissingItems(fields []reservation.FieldSpec) string {
	if len(fields) == 0 {
		return "# Missing items:\nnone"
	}
	result := "# Missing items:\n"
	for _, field := range fields {
		result += fmt.Sprintf("- %s", field.DisplayName)
		if field.Description != "" {
			result += fmt.Sprintf(": %s", field.Description)
		}
		result += "\n"
	}
	return strings.TrimRight(result, "\n")
}

// joinDisplayNames renders "a, b y c" for LocalPhraser questions.
func joinDisplayNames(fields []reservation.FieldSpec) string {
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.DisplayName)
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " y " + names[len(names)-1]
	}
}
