// Package models defines the user records fetched from the remote API
// and the display formats they can be rendered in.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

// Address is the postal part of a user record.
type Address struct {
	Street *string `json:"street,omitempty" validate:"required"`
	City   *string `json:"city,omitempty" validate:"required"`
}

// User is a single record of the remote users list.
//
// Fields are pointers because records are decoded without shape validation:
// a field absent in the payload stays nil and is reported by Validate.
// The JSON object the record was decoded from is retained and used
// verbatim by MarshalJSON.
type User struct {
	Name    *string  `json:"name,omitempty" validate:"required"`
	Email   *string  `json:"email,omitempty" validate:"required"`
	Address *Address `json:"address,omitempty" validate:"required"`

	raw json.RawMessage
}

type plainUser User

// UnmarshalJSON decodes the modelled fields and keeps a copy of the source object.
func (u *User) UnmarshalJSON(data []byte) error {
	var p plainUser
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*u = User(p)
	u.raw = append(json.RawMessage(nil), data...)

	return nil
}

// MarshalJSON returns the source object for decoded records
// and the modelled fields for records built in code.
func (u User) MarshalJSON() ([]byte, error) {
	if len(u.raw) > 0 {
		return u.raw, nil
	}

	p := plainUser(u)
	return json.Marshal(&p)
}

// NewUser builds a complete record.
func NewUser(name, email, street, city string) User {
	return User{
		Name:  &name,
		Email: &email,
		Address: &Address{
			Street: &street,
			City:   &city,
		},
	}
}

// NameValue returns the user's name and whether it is present.
func (u User) NameValue() (string, bool) {
	if u.Name == nil {
		return "", false
	}
	return *u.Name, true
}

// Row projects a validated record onto name, email, street and city.
func (u User) Row() []string {
	row := []string{deref(u.Name), deref(u.Email), "", ""}
	if u.Address != nil {
		row[2] = deref(u.Address.Street)
		row[3] = deref(u.Address.City)
	}
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// MissingFieldError reports a required field absent from a user record.
type MissingFieldError struct {
	// Field is the dotted JSON path of the field, e.g. "address.city".
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field in user data: '%s'", e.Field)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the record carries name, email, street and city.
// The first missing field is returned as a *MissingFieldError.
func Validate(u User) error {
	err := validate.Struct(u)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}

	namespace := fieldErrors[0].Namespace()
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}

	return &MissingFieldError{Field: namespace}
}

// ValidateAll validates records in order and stops at the first invalid one.
func ValidateAll(users []User) error {
	for _, u := range users {
		if err := Validate(u); err != nil {
			return err
		}
	}
	return nil
}

// Format is a display format for a set of users.
type Format string

const (
	FormatStandard Format = "standard"
	FormatJSON     Format = "json"
	FormatTable    Format = "table"
	FormatCompact  Format = "compact"
)

// Formats lists the display formats in menu order.
var Formats = []Format{
	FormatStandard,
	FormatJSON,
	FormatTable,
	FormatCompact,
}

// ErrUnknownFormat is returned by ParseFormat for names outside Formats.
var ErrUnknownFormat = errors.New("unknown display format")

// ParseFormat maps a format name to a Format, case-insensitively.
func ParseFormat(name string) (Format, error) {
	candidate := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, f := range Formats {
		if f == candidate {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}
