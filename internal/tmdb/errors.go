// Copyright 2025 CineFeed Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file defines the error taxonomy at the catalog client boundary.
// A TransportError means the request never produced a usable response
// (network failure, timeout); an HTTPError means the API answered with a
// non-2xx status. The extractor treats both the same way (skip and
// continue) but keeping them distinct preserves the boundary contract and
// makes logs unambiguous.
package tmdb

import "fmt"

// TransportError wraps a network-level failure for a specific request URL.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error requesting %s: %v", e.URL, e.Err)
}

// Unwrap exposes the underlying network error for errors.Is/As checks.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError records a non-2xx response status for a specific request URL.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("catalog API returned status %d for %s", e.StatusCode, e.URL)
}
