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

// bitvec is a bitmap over record positions, one bit per byte, LSB-first
// within each word: bit b of word w is record position 64*w + b.
type bitvec []uint64

// clearLowestSet clears the lowest set bit of x.
func clearLowestSet(x uint64) uint64 {
	return x & (x - 1)
}

// isolateLowestSet isolates the lowest set bit of x.
func isolateLowestSet(x uint64) uint64 {
	return x & -x
}

// smearLowestSet masks the lowest set bit of x and every bit below it.
// Returns 0 for x == 0.
func smearLowestSet(x uint64) uint64 {
	if x == 0 {
		return 0
	}
	return x ^ (x - 1)
}

// and computes the element-wise AND of two equal-length bit-vectors in place
// into dst.
func (dst bitvec) and(other bitvec) {
	for i := range dst {
		dst[i] &= other[i]
	}
}

// shiftRight1 shifts the whole bit-vector right by one bit position,
// carrying the low bit of each word into the high bit of the previous word.
func (dst bitvec) shiftRight1() {
	var carry uint64
	for i := len(dst) - 1; i >= 0; i-- {
		next := dst[i] & 1
		dst[i] = (dst[i] >> 1) | (carry << 63)
		carry = next
	}
}

// shiftLeft1 shifts the whole bit-vector left by one bit position, carrying
// the high bit of each word into the low bit of the next word.
func (dst bitvec) shiftLeft1() {
	var carry uint64
	for i := 0; i < len(dst); i++ {
		next := dst[i] >> 63
		dst[i] = (dst[i] << 1) | carry
		carry = next
	}
}

// reset zeroes the vector without shrinking its backing array.
func (dst bitvec) reset() {
	for i := range dst {
		dst[i] = 0
	}
}
