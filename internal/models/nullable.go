package models

import (
	"encoding/json"
)

// Nullable wrappers distinguish three JSON states for a field:
//   - absent:  Set=false, Valid=false
//   - null:    Set=true,  Valid=false
//   - a value: Set=true,  Valid=true
//
// Activity payloads from Strava occasionally omit numeric fields, and the
// stats engine must be able to tell "missing" apart from a genuine zero.

// NullableString is a string that may be absent or null.
type NullableString struct {
	Value string
	Valid bool
	Set   bool
}

// NewNullableString returns a present, non-null string.
func NewNullableString(s string) NullableString {
	return NullableString{Value: s, Valid: true, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (ns *NullableString) UnmarshalJSON(data []byte) error {
	ns.Set = true
	if string(data) == "null" {
		ns.Valid = false
		ns.Value = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	ns.Value = s
	ns.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (ns NullableString) MarshalJSON() ([]byte, error) {
	if !ns.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ns.Value)
}

// ToPtr returns nil when the string is not valid.
func (ns NullableString) ToPtr() *string {
	if !ns.Valid {
		return nil
	}
	return &ns.Value
}

// NullableFloat is a float64 that may be absent or null.
type NullableFloat struct {
	Value float64
	Valid bool
	Set   bool
}

// NewNullableFloat returns a present, non-null float.
func NewNullableFloat(v float64) NullableFloat {
	return NullableFloat{Value: v, Valid: true, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (nf *NullableFloat) UnmarshalJSON(data []byte) error {
	nf.Set = true
	if string(data) == "null" {
		nf.Valid = false
		nf.Value = 0
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	nf.Value = f
	nf.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (nf NullableFloat) MarshalJSON() ([]byte, error) {
	if !nf.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(nf.Value)
}

// ToPtr returns nil when the float is not valid.
func (nf NullableFloat) ToPtr() *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Value
}

// NullableInt is an int64 that may be absent or null.
type NullableInt struct {
	Value int64
	Valid bool
	Set   bool
}

// NewNullableInt returns a present, non-null integer.
func NewNullableInt(v int64) NullableInt {
	return NullableInt{Value: v, Valid: true, Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (ni *NullableInt) UnmarshalJSON(data []byte) error {
	ni.Set = true
	if string(data) == "null" {
		ni.Valid = false
		ni.Value = 0
		return nil
	}

	var i int64
	if err := json.Unmarshal(data, &i); err != nil {
		return err
	}
	ni.Value = i
	ni.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (ni NullableInt) MarshalJSON() ([]byte, error) {
	if !ni.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ni.Value)
}

// OrZero returns the value, or 0 when absent or null.
func (ni NullableInt) OrZero() int64 {
	if !ni.Valid {
		return 0
	}
	return ni.Value
}
