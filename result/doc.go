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

// Package result provides the Ok/Err sum type used to propagate failure
// through dreq without returning bare errors up every layer.
//
// The error side is the standard error interface. When a caller needs to
// distinguish expected, typed failure variants (domain errors), the idiom
// is a closed set of error types resolved inside the Match err arm — see
// dirpx.dev/dreq/fault for the sealed-union pattern that makes that
// dispatch exhaustive at compile time.
package result
