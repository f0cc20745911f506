package services

import (
	"encoding/json"
	"strings"

	"interview-evaluator/internal/models"
)

// RecoveryMode tags how a payload was obtained: a strict parse of the
// whole response, or a fallback parse of the first-{ .. last-} substring.
type RecoveryMode string

const (
	RecoveryStrict    RecoveryMode = "strict"
	RecoverySubstring RecoveryMode = "substring"
)

// RecoveredPayload is a validated JSON object recovered from a model
// response.
type RecoveredPayload struct {
	Object map[string]interface{}
	Mode   RecoveryMode
}

type OutputRecoverer interface {
	Recover(raw string, requiredKeys []string) (*RecoveredPayload, error)
}

type outputRecoverer struct{}

func NewOutputRecoverer() OutputRecoverer {
	return &outputRecoverer{}
}

// Recover coerces a model response into a JSON object containing the
// required keys. The strict whole-text parse runs first so that a
// response which merely contains JSON inside meaningful prose is not
// silently accepted; the substring fallback exists because the model is
// known to wrap its output in commentary despite instructions.
func (r *outputRecoverer) Recover(raw string, requiredKeys []string) (*RecoveredPayload, error) {
	var value interface{}
	mode := RecoveryStrict

	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		substring, ok := braceSubstring(raw)
		if !ok {
			return nil, &models.PayloadNotJSONError{Raw: raw, Err: err}
		}
		if subErr := json.Unmarshal([]byte(substring), &value); subErr != nil {
			return nil, &models.PayloadNotJSONError{Raw: raw, Err: subErr}
		}
		mode = RecoverySubstring
	}

	object, ok := value.(map[string]interface{})
	if !ok {
		return nil, &models.SchemaMismatchError{Detail: "payload is not a JSON object"}
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, present := object[key]; !present {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &models.SchemaMismatchError{MissingKeys: missing}
	}

	return &RecoveredPayload{Object: object, Mode: mode}, nil
}

// braceSubstring returns the span from the first '{' to the last '}'.
func braceSubstring(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// coerceScore converts a decoded JSON value into a bounded integer
// score. JSON numbers arrive as float64; anything non-numeric is a
// schema mismatch, never a silent zero.
func coerceScore(value interface{}, field string) (int, error) {
	switch v := value.(type) {
	case float64:
		return int(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, &models.SchemaMismatchError{Detail: "non-numeric score for " + field}
		}
		return int(f), nil
	default:
		return 0, &models.SchemaMismatchError{Detail: "non-numeric score for " + field}
	}
}
