package extract

import (
	"fmt"
	"strings"

	"github.com/egaillera/reserva-restaurantes/reservation"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// FormatRequest renders an extraction request as the markdown user prompt.
func FormatRequest(req *Request) string {
	sections := []string{}
	if req.Schema != "" {
		sections = append(sections, fmt.Sprintf("# Target schema JSON:\n```json\n%s\n```", req.Schema))
	}
	if s := formatMissingFieldsSection(req.Missing); s != "" {
		sections = append(sections, s)
	}
	sections = append(sections, fmt.Sprintf("# User message:\n%s", req.Utterance))
	return strings.Join(sections, "\n\n")
}

func formatMissingFieldsSection(fields []reservation.FieldSpec) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Still missing fields:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Display Name", "Description")
	for _, field := range fields {
		_ = table.Append(string(field.Name), field.DisplayName, field.Description)
	}
	_ = table.Render()
	return strings.TrimRight(buf.String(), "\n")
}
