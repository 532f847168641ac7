package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Specialties is the ordered list of areas a registrant works in.
//
// Relational storage keeps it in a single TEXT column as a JSON array;
// the document store keeps it as a native array. Order is preserved
// both ways and Decode(Encode(s)) equals s for every list of strings.
type Specialties []string

// Encode renders the list as a JSON array. A nil list encodes as "[]".
func (s Specialties) Encode() (string, error) {
	if s == nil {
		s = Specialties{}
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return "", fmt.Errorf("encode specialties: %w", err)
	}
	return string(b), nil
}

// DecodeSpecialties parses the JSON array produced by Encode.
func DecodeSpecialties(encoded string) (Specialties, error) {
	var values []string
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil, fmt.Errorf("decode specialties: %w", err)
	}
	if values == nil {
		values = []string{}
	}
	return Specialties(values), nil
}

// Value implements driver.Valuer so the list can be passed straight to SQL.
func (s Specialties) Value() (driver.Value, error) {
	return s.Encode()
}

// Scan implements sql.Scanner for the TEXT column written by Value.
func (s *Specialties) Scan(src any) error {
	var encoded string
	switch v := src.(type) {
	case string:
		encoded = v
	case []byte:
		encoded = string(v)
	case nil:
		*s = Specialties{}
		return nil
	default:
		return fmt.Errorf("scan specialties: unsupported type %T", src)
	}

	decoded, err := DecodeSpecialties(encoded)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}
