//go:build !amd64
// +build !amd64

/*
 * MinIO Cloud Storage, (C) 2020 MinIO, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mison

// Backend selects a byte-match implementation.
type Backend int

const (
	// BackendAuto picks the SWAR fallback on this platform.
	BackendAuto Backend = iota
	// BackendPortable forces the SWAR fallback.
	BackendPortable
	// BackendWide also picks the SWAR fallback on this platform.
	BackendWide
)

// selectMatchByte ignores b and always returns the portable backend on
// non-amd64 platforms; matchByteWide is selected only on amd64.
func selectMatchByte(b Backend) matchByteFunc {
	return matchByteSWAR
}
