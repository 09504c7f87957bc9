//go:build amd64
// +build amd64

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

import "github.com/klauspost/cpuid/v2"

// Backend selects a byte-match implementation.
type Backend int

const (
	// BackendAuto picks the widest backend the running CPU supports.
	BackendAuto Backend = iota
	// BackendPortable forces the SWAR fallback.
	BackendPortable
	// BackendWide forces the AVX2-shaped backend.
	BackendWide
)

func selectMatchByte(b Backend) matchByteFunc {
	switch b {
	case BackendPortable:
		return matchByteSWAR
	case BackendWide:
		return matchByteWide
	default:
		if cpuid.CPU.Has(cpuid.AVX2) {
			return matchByteWide
		}
		return matchByteSWAR
	}
}
