package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Session details are persisted as a json object whose shape depends on the
// verification method. The structs below are the per method variants; they are
// decoded from the raw map at the service boundary.

// ReverifyDetails is the working state of a channel re-verification session
type ReverifyDetails struct {
	Method              string    `mapstructure:"method" json:"method"`
	Identifier          string    `mapstructure:"identifier" json:"identifier"`
	VerificationCode    string    `mapstructure:"verificationCode" json:"verificationCode"`
	CodeGeneratedAt     time.Time `mapstructure:"codeGeneratedAt" json:"codeGeneratedAt"`
	SavedVerificationID string    `mapstructure:"savedVerificationId" json:"savedVerificationId"`
	Attempts            int       `mapstructure:"attempts" json:"attempts"`
}

// QRChallengeDetails is the working state of a QR cross-device session
type QRChallengeDetails struct {
	QRToken     string    `mapstructure:"qrToken" json:"qrToken"`
	GeneratedAt time.Time `mapstructure:"generatedAt" json:"generatedAt"`
}

// DecodeDetails decodes the raw session details into one of the typed
// variants. Timestamps are stored in RFC 3339 form inside the json object.
func DecodeDetails(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		Result:     out,
	})
	if err != nil {
		return fmt.Errorf("could not build details decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("could not decode session details: %w", err)
	}
	return nil
}

// EncodeDetails converts a typed details variant back into the raw map form
// stored on the session. The struct goes through a json round trip so that
// time.Time fields end up as RFC 3339 strings, the same shape the database
// column holds.
func EncodeDetails(in any) (map[string]any, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("could not encode session details: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("could not encode session details: %w", err)
	}
	return out, nil
}
