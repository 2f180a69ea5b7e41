package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringArray stores a []string as a JSON column, portable between
// PostgreSQL and the sqlite driver used in tests.
type StringArray []string

// Value implements database/sql/driver.Valuer
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements database/sql.Scanner
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}

	return json.Unmarshal(bytes, s)
}

// Contains reports whether the array contains the given element.
func (s StringArray) Contains(v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

// UintArray stores a []uint as a JSON column.
type UintArray []uint

// Value implements database/sql/driver.Valuer
func (u UintArray) Value() (driver.Value, error) {
	if u == nil {
		return nil, nil
	}
	return json.Marshal(u)
}

// Scan implements database/sql.Scanner
func (u *UintArray) Scan(value interface{}) error {
	if value == nil {
		*u = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan UintArray")
		}
		bytes = []byte(str)
	}

	return json.Unmarshal(bytes, u)
}

// Contains reports whether the array contains the given element.
func (u UintArray) Contains(v uint) bool {
	for _, e := range u {
		if e == v {
			return true
		}
	}
	return false
}
