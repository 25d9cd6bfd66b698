// Package validate implements declarative payload validation. Each
// entity describes its fields as a Schema; a single generic routine
// interprets the schema against a decoded JSON object and reports the
// first violation it finds as one human-readable error.
package validate

import (
	"fmt"
	"math"
	"strconv"
)

// FieldType names the JSON type a field must carry.
type FieldType string

const (
	String  FieldType = "string"
	Number  FieldType = "number"
	Boolean FieldType = "boolean"
	// ID accepts a positive integer identifier, sent either as a JSON
	// number or a numeric string.
	ID FieldType = "id"
)

// Field is one constraint entry of a Schema. For String fields Min/Max
// bound the length in characters; for Number fields they bound the
// value. Integer additionally rejects fractional numbers.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Min      float64
	Max      float64
	Integer  bool
}

// Schema is an ordered list of field constraints. Order matters:
// violations are reported first-field-first.
type Schema []Field

// Apply checks payload against the schema and returns the first
// violation, or nil when the payload passes. A required field that is
// absent (or JSON null) is rejected before any type or range check.
func (s Schema) Apply(payload map[string]interface{}) error {
	for _, f := range s {
		v, ok := payload[f.Name]
		if !ok || v == nil {
			if f.Required {
				return fmt.Errorf("%s is required", f.Name)
			}
			continue
		}
		if err := f.check(v); err != nil {
			return err
		}
	}
	return nil
}

func (f Field) check(v interface{}) error {
	switch f.Type {
	case String:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%s must be a string", f.Name)
		}
		n := float64(len([]rune(s)))
		if n < f.Min {
			return fmt.Errorf("%s must be at least %s characters long", f.Name, num(f.Min))
		}
		if f.Max > 0 && n > f.Max {
			return fmt.Errorf("%s must be at most %s characters long", f.Name, num(f.Max))
		}
	case Number:
		n, ok := v.(float64)
		if !ok {
			return fmt.Errorf("%s must be a number", f.Name)
		}
		if f.Integer && n != math.Trunc(n) {
			return fmt.Errorf("%s must be an integer", f.Name)
		}
		if n < f.Min {
			return fmt.Errorf("%s must be at least %s", f.Name, num(f.Min))
		}
		if f.Max > 0 && n > f.Max {
			return fmt.Errorf("%s must be at most %s", f.Name, num(f.Max))
		}
	case Boolean:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("%s must be a boolean", f.Name)
		}
	case ID:
		if _, ok := toID(v); !ok {
			return fmt.Errorf("%s must be a valid id", f.Name)
		}
	}
	return nil
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func toID(v interface{}) (uint64, bool) {
	switch t := v.(type) {
	case float64:
		if t > 0 && t == math.Trunc(t) {
			return uint64(t), true
		}
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// Accessors below read typed values out of a payload that already
// passed Apply. Missing or mistyped values yield zero values, so they
// are only safe after validation.

// GetString returns payload[key] as a string.
func GetString(payload map[string]interface{}, key string) string {
	s, _ := payload[key].(string)
	return s
}

// GetNumber returns payload[key] as a float64.
func GetNumber(payload map[string]interface{}, key string) float64 {
	n, _ := payload[key].(float64)
	return n
}

// GetBool returns payload[key] as a bool.
func GetBool(payload map[string]interface{}, key string) bool {
	b, _ := payload[key].(bool)
	return b
}

// GetID returns payload[key] as an identifier.
func GetID(payload map[string]interface{}, key string) uint64 {
	id, _ := toID(payload[key])
	return id
}

// Has reports whether the payload carries a non-null value for key.
func Has(payload map[string]interface{}, key string) bool {
	v, ok := payload[key]
	return ok && v != nil
}
