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
	"errors"
	"strings"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want Code
	}{
		{"rate_limited", "rate_limited"},
		{"RATE_LIMITED", "rate_limited"},
		{"  not-found  ", "not_found"},
		{"abc123", "abc123"},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{
		"",
		"ab",                             // too short
		"1abc",                           // digit first
		"not.found",                      // dot
		"no spaces",                      // space
		strings.Repeat("a", MaxLength+1), // too long
	}
	for _, in := range cases {
		if _, err := Parse(in); !errors.Is(err, ErrInvalid) {
			t.Fatalf("Parse(%q) err = %v; want ErrInvalid", in, err)
		}
	}
}

func TestCanonicalConstants_AreValid(t *testing.T) {
	all := []Code{
		Internal, Unavailable, Timeout,
		Invalid, Missing, NotFound, AlreadyExists, Conflict,
		Unauthenticated, InvalidCredentials, PermissionDenied,
		RateLimited,
	}
	for _, c := range all {
		if err := Validate(c); err != nil {
			t.Fatalf("constant %q is not canonical: %v", c, err)
		}
	}
}

func TestTextRoundTrip(t *testing.T) {
	b, err := RateLimited.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var c Code
	if err := c.UnmarshalText(b); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if c != RateLimited {
		t.Fatalf("round trip got %q", c)
	}

	var bad Code = "Not Canonical"
	if _, err := bad.MarshalText(); err == nil {
		t.Fatal("invalid code must refuse to marshal")
	}
}
