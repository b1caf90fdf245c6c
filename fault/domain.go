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

package fault

import "errors"

// DomainError marks an expected, typed business-rule failure.
//
// Concrete variants belong to per-operation sealed unions declared by the
// application (see the package documentation); they additionally implement
// this interface so that cross-cutting layers (logging, transport mapping)
// can tell domain failures from infrastructure ones without knowing any
// specific union.
type DomainError interface {
	error

	// Domain is the marker method. Implementations are empty.
	Domain()
}

// IsDomain reports whether err carries a DomainError anywhere in its chain.
func IsDomain(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}
