package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActionType is the mutation requested by an action envelope
type ActionType string

const (
	ActionCreate ActionType = "CREATE"
	ActionUpdate ActionType = "UPDATE"
	ActionDelete ActionType = "DELETE"
)

// Action is a JSON action envelope returned by the language model, e.g.
//
//	{"action": "UPDATE", "id": "...", "stock": 10}
//
// Field values are converted lazily so that a malformed field surfaces as
// an execution error rather than turning the reply into plain text.
type Action struct {
	Type   ActionType
	fields map[string]json.RawMessage
}

// ParseAction decodes reply as an action envelope. ok is false when the reply
// is ordinary text: it must start with '{', mention "action" and decode as a
// JSON object carrying an action key.
func ParseAction(reply string) (*Action, bool) {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "{") || !strings.Contains(trimmed, `"action"`) {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		return nil, false
	}
	raw, ok := fields["action"]
	if !ok {
		return nil, false
	}

	return &Action{
		Type:   ActionType(rawText(raw)),
		fields: fields,
	}, true
}

// Has reports whether the envelope carries a non-null value for field
func (a *Action) Has(field string) bool {
	raw, ok := a.fields[field]
	return ok && !isNull(raw)
}

// Text returns the textual value of field. Numbers and booleans are returned
// in their JSON form. ok is false when the field is absent or null.
func (a *Action) Text(field string) (string, bool) {
	raw, ok := a.fields[field]
	if !ok || isNull(raw) {
		return "", false
	}
	return rawText(raw), true
}

// NonEmptyText is like Text but also treats an empty string as absent
func (a *Action) NonEmptyText(field string) (string, bool) {
	v, ok := a.Text(field)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// UUID returns field parsed as a UUID, nil when absent or empty
func (a *Action) UUID(field string) (*uuid.UUID, error) {
	v, ok := a.NonEmptyText(field)
	if !ok {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID string: %s", v)
	}
	return &id, nil
}

// Decimal returns field as a decimal. Both JSON numbers and numeric strings
// are accepted; nil is returned when the field is absent or null.
func (a *Action) Decimal(field string) (*decimal.Decimal, error) {
	v, ok := a.Text(field)
	if !ok {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("invalid number for %s: %q", field, v)
	}
	return &d, nil
}

// Int returns field as an int. Fractions are truncated; nil is returned when
// the field is absent or null.
func (a *Action) Int(field string) (*int, error) {
	v, ok := a.Text(field)
	if !ok {
		return nil, nil
	}
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return &n, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("invalid integer for %s: %q", field, v)
	}
	n := int(d.IntPart())
	return &n, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
