package repositories

import (
	"fmt"

	"github.com/jackc/pgtype"
)

// jsonbFromMap wraps a details/metadata map into a pgtype.JSONB value
func jsonbFromMap(m map[string]any) (pgtype.JSONB, error) {
	var out pgtype.JSONB
	if m == nil {
		m = map[string]any{}
	}
	if err := out.Set(m); err != nil {
		return out, fmt.Errorf("could not encode jsonb: %w", err)
	}
	return out, nil
}

// mapFromJSONB unwraps a scanned pgtype.JSONB column into a map
func mapFromJSONB(raw pgtype.JSONB) (map[string]any, error) {
	if raw.Status != pgtype.Present {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := raw.AssignTo(&out); err != nil {
		return nil, fmt.Errorf("could not decode jsonb: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}
