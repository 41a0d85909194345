package reservation

import (
	"fmt"
	"strings"
)

// Field identifies one slot of a reservation. Values double as the JSON
// member names of Record and Draft.
type Field string

const (
	FieldName       Field = "name"
	FieldGuestCount Field = "n_guests"
	FieldPhone      Field = "phone"
	FieldDate       Field = "date"
	FieldTime       Field = "time"
)

// FieldSpec describes one slot for prompt building and question generation.
type FieldSpec struct {
	Name        Field  `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// fieldSpecs is the declarative slot table. Order is asking order.
var fieldSpecs = []FieldSpec{
	{Name: FieldName, DisplayName: "nombre", Description: "name of the person who made the reservation", Required: true},
	{Name: FieldGuestCount, DisplayName: "número de comensales", Description: "number of guests of the reservation", Required: true},
	{Name: FieldPhone, DisplayName: "teléfono de contacto", Description: "phone number of the person who made the reservation", Required: true},
	{Name: FieldDate, DisplayName: "fecha", Description: "date of the reservation", Required: true},
	{Name: FieldTime, DisplayName: "hora", Description: "time of the reservation", Required: true},
}

// Schema returns the slot table in declaration order.
func Schema() []FieldSpec {
	out := make([]FieldSpec, len(fieldSpecs))
	copy(out, fieldSpecs)
	return out
}

// Describe returns the static description of a field, or "" for an unknown one.
func Describe(f Field) string {
	for _, spec := range fieldSpecs {
		if spec.Name == f {
			return spec.Description
		}
	}
	return ""
}

// Record is the accumulating state of one reservation. It is created empty at
// session start and only ever mutated through Merge.
type Record struct {
	Name       Optional[string] `json:"name"`
	GuestCount Optional[int]    `json:"n_guests"`
	Phone      Optional[string] `json:"phone"`
	Date       Optional[string] `json:"date"`
	Time       Optional[string] `json:"time"`
}

// Filled reports whether a field has been provided. Unknown fields are never
// filled.
func (r *Record) Filled(f Field) bool {
	switch f {
	case FieldName:
		return r.Name.IsSet()
	case FieldGuestCount:
		return r.GuestCount.IsSet()
	case FieldPhone:
		return r.Phone.IsSet()
	case FieldDate:
		return r.Date.IsSet()
	case FieldTime:
		return r.Time.IsSet()
	default:
		return false
	}
}

// Complete reports whether every declared field has been provided.
func (r *Record) Complete() bool {
	for _, spec := range fieldSpecs {
		if !r.Filled(spec.Name) {
			return false
		}
	}
	return true
}

// Missing returns the specs of every unfilled field, in declaration order.
func (r *Record) Missing() []FieldSpec {
	var missing []FieldSpec
	for _, spec := range fieldSpecs {
		if !r.Filled(spec.Name) {
			missing = append(missing, spec)
		}
	}
	return missing
}

// FirstMissing returns the spec of the first unfilled field, if any.
func (r *Record) FirstMissing() (FieldSpec, bool) {
	for _, spec := range fieldSpecs {
		if !r.Filled(spec.Name) {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// Merge integrates a draft of candidate values into the record. Each field is
// written only when the draft provides it and the record does not have it yet;
// a filled field is never overwritten and never reverts to unset.
func (r *Record) Merge(d Draft) {
	if d.Name != nil && !r.Name.IsSet() {
		r.Name = Some(*d.Name)
	}
	if d.GuestCount != nil && !r.GuestCount.IsSet() {
		r.GuestCount = Some(*d.GuestCount)
	}
	if d.Phone != nil && !r.Phone.IsSet() {
		r.Phone = Some(*d.Phone)
	}
	if d.Date != nil && !r.Date.IsSet() {
		r.Date = Some(*d.Date)
	}
	if d.Time != nil && !r.Time.IsSet() {
		r.Time = Some(*d.Time)
	}
}

// Summary renders the record for end-of-session display.
func (r *Record) Summary() string {
	var sb strings.Builder
	sb.WriteString("Reserva:\n")
	fmt.Fprintf(&sb, "  nombre: %s\n", r.Name.Or("-"))
	if guests, ok := r.GuestCount.Get(); ok {
		fmt.Fprintf(&sb, "  comensales: %d\n", guests)
	} else {
		sb.WriteString("  comensales: -\n")
	}
	fmt.Fprintf(&sb, "  teléfono: %s\n", r.Phone.Or("-"))
	fmt.Fprintf(&sb, "  fecha: %s\n", r.Date.Or("-"))
	fmt.Fprintf(&sb, "  hora: %s", r.Time.Or("-"))
	return sb.String()
}
