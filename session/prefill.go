package session

import (
	"encoding/json"
	"fmt"

	"github.com/egaillera/reserva-restaurantes/reservation"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

type seedOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// seedOperations builds RFC6902 operations for the draft values that the
// record does not have yet. Filled fields are skipped, so seeding obeys the
// same first-write-wins rule as merging.
func seedOperations(current reservation.Record, seed reservation.Draft) []seedOperation {
	ops := make([]seedOperation, 0, 5)
	add := func(field reservation.Field, value any) {
		if current.Filled(field) {
			return
		}
		// Record members always exist (unfilled ones are null), so replace
		// is the right op for every path.
		ops = append(ops, seedOperation{Op: "replace", Path: "/" + string(field), Value: value})
	}
	if seed.Name != nil {
		add(reservation.FieldName, *seed.Name)
	}
	if seed.GuestCount != nil {
		add(reservation.FieldGuestCount, *seed.GuestCount)
	}
	if seed.Phone != nil {
		add(reservation.FieldPhone, *seed.Phone)
	}
	if seed.Date != nil {
		add(reservation.FieldDate, *seed.Date)
	}
	if seed.Time != nil {
		add(reservation.FieldTime, *seed.Time)
	}
	return ops
}

func applySeed(current reservation.Record, ops []seedOperation) (reservation.Record, error) {
	if len(ops) == 0 {
		return current, nil
	}

	currentJSON, err := json.Marshal(current)
	if err != nil {
		return current, fmt.Errorf("failed to marshal record: %w", err)
	}
	patchJSON, err := json.Marshal(ops)
	if err != nil {
		return current, fmt.Errorf("failed to marshal seed operations: %w", err)
	}
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return current, fmt.Errorf("failed to decode seed patch: %w", err)
	}
	modifiedJSON, err := patch.Apply(currentJSON)
	if err != nil {
		return current, fmt.Errorf("failed to apply seed patch: %w", err)
	}

	var result reservation.Record
	if err := json.Unmarshal(modifiedJSON, &result); err != nil {
		return current, fmt.Errorf("seeded record is invalid: %w", err)
	}
	return result, nil
}
