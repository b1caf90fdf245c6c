/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package code

import (
	"bytes"
	"encoding"
	"errors"
	"strings"
)

// Code is the canonical, validated representation of a wire error code.
//
// It is a distinct type (not a bare string) so that handler and adapter
// signatures can state explicitly that they expect a normalized code, and so
// raw user input cannot be mixed in by accident.
//
// The canonical form is snake_case ASCII: the first character is a lowercase
// letter, the rest are lowercase letters, digits, or underscore, and the
// total length is within [MinLength, MaxLength]. Empty codes are not valid:
// every error that reaches the wire carries a non-empty code.
type Code string

// MinLength and MaxLength bound the accepted code length.
const (
	// MinLength rejects ultra-short identifiers like "a" or "x1" that carry
	// no meaning for API clients.
	MinLength = 3

	// MaxLength is generous enough for descriptive codes like
	// "invalid_credentials" while preventing unbounded values.
	MaxLength = 64
)

// ErrInvalid is returned when a value cannot be parsed or validated as a
// canonical code.
var ErrInvalid = errors.New("code: invalid error code")

var (
	_ encoding.TextMarshaler   = (*Code)(nil)
	_ encoding.TextUnmarshaler = (*Code)(nil)
)

// Parse normalizes and validates s, returning a canonical Code.
func Parse(s string) (Code, error) {
	s = Normalize(s)
	if err := validate(s); err != nil {
		return "", err
	}
	return Code(s), nil
}

// MustParse is the panic-on-error variant of Parse, for package-level
// declarations.
func MustParse(s string) Code {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Normalize brings an arbitrary string closer to canonical form without
// being lossy: it trims surrounding spaces, lowercases, and converts '-'
// to '_'. The result is not guaranteed to be valid; callers still need
// Parse or Validate.
//
// Normalization is what lets a legacy uppercase wire code such as
// "RATE_LIMITED" round-trip into the canonical "rate_limited".
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// Validate reports whether c is a canonical code. The empty code is invalid.
func Validate(c Code) error {
	return validate(string(c))
}

// String returns the canonical string representation.
func (c Code) String() string {
	return string(c)
}

// MarshalText implements encoding.TextMarshaler. Invalid codes refuse to
// marshal rather than leaking a malformed value onto the wire.
func (c Code) MarshalText() ([]byte, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, normalizing and
// validating the input before assigning.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// validate checks the canonical grammar: ^[a-z][a-z0-9_]{2,63}$.
// A plain loop keeps this allocation-free on hot error paths.
func validate(s string) error {
	if len(s) < MinLength || len(s) > MaxLength {
		return ErrInvalid
	}
	if s[0] < 'a' || s[0] > 'z' {
		return ErrInvalid
	}
	for i := 1; i < len(s); i++ {
		b := s[i]
		if (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '_' {
			continue
		}
		return ErrInvalid
	}
	return nil
}
