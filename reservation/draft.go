package reservation

import (
	"encoding/json"
	"fmt"

	"github.com/eino-contrib/jsonschema"
)

// Draft carries candidate field values produced by one extraction pass. A nil
// member means the utterance said nothing about that field; it is never
// guessed. Drafts are what tool-call arguments decode into, hence the
// jsonschema tags.
type Draft struct {
	Name       *string `json:"name,omitempty" jsonschema:"description=name of the person who made the reservation"`
	GuestCount *int    `json:"n_guests,omitempty" jsonschema:"description=number of guests of the reservation"`
	Phone      *string `json:"phone,omitempty" jsonschema:"description=phone number of the person who made the reservation"`
	Date       *string `json:"date,omitempty" jsonschema:"description=date of the reservation"`
	Time       *string `json:"time,omitempty" jsonschema:"description=time of the reservation"`
}

// Empty reports whether the draft carries no values at all.
func (d Draft) Empty() bool {
	return d.Name == nil && d.GuestCount == nil && d.Phone == nil && d.Date == nil && d.Time == nil
}

// CollapseDrafts flattens a batch of drafts (e.g. several tool-call results
// from one model reply) into a single draft. For a field present in more than
// one draft, the last value wins; first-write-wins against the record is
// applied afterwards by Merge.
func CollapseDrafts(drafts ...Draft) Draft {
	var out Draft
	for _, d := range drafts {
		if d.Name != nil {
			out.Name = d.Name
		}
		if d.GuestCount != nil {
			out.GuestCount = d.GuestCount
		}
		if d.Phone != nil {
			out.Phone = d.Phone
		}
		if d.Date != nil {
			out.Date = d.Date
		}
		if d.Time != nil {
			out.Time = d.Time
		}
	}
	return out
}

// DraftSchema returns the JSON schema of Draft, handed to extraction backends
// as the declared target shape.
func DraftSchema() (string, error) {
	schema := jsonschema.Reflect(&Draft{})
	schema.Title = "Reserva de restaurante"
	schema.Description = "Datos necesarios para registrar una reserva de restaurante."
	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON schema: %w", err)
	}
	return string(schemaBytes), nil
}
