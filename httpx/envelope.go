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

package httpx

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"dirpx.dev/dreq/apperr"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the uniform wire shape for every JSON response. Success
// responses carry Data; failure responses carry Error. The two are
// mutually exclusive.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *WireError `json:"error,omitempty"`
}

// WireError is the serialized form of an *apperr.Error. Status travels
// in the HTTP response line, not in the body.
type WireError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// OK writes a success envelope with the given status and payload.
func OK(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

// Fail writes a failure envelope for err. Arbitrary errors are first
// normalized through apperr.FromError, so infrastructure failures never
// leak their message onto the wire.
func Fail(w http.ResponseWriter, err error) {
	e := apperr.FromError(err)
	write(w, e.Status, Envelope{Success: false, Error: &WireError{
		Code:    string(e.Code),
		Message: e.Message,
		Details: e.Details,
	}})
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	b, err := json.Marshal(env)
	if err != nil {
		return
	}
	_, _ = w.Write(b)
}
