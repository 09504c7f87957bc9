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

import "math/bits"

const (
	byteSpace  = ' '
	byteTab    = '\t'
	byteLF     = '\n'
	byteCR     = '\r'
	byteComma  = ','
	byteRBrace = '}'
)

func isBlank(b byte) bool {
	return b == byteSpace || b == byteTab || b == byteLF || b == byteCR
}

// collectColonPositions appends, in ascending order, every colon position
// in level[d] within [start, end] to *out. *out must already be cleared by
// the caller; the backing array is reused across calls.
func (p *Parser) collectColonPositions(depth, start, end int, out *[]int) {
	level := p.ib.level[depth]
	if end < 0 || start > end {
		return
	}
	wStart := start / 64
	wEnd := end / 64
	if wEnd >= len(level) {
		wEnd = len(level) - 1
	}
	for i := wStart; i <= wEnd; i++ {
		word := level[i]
		for word != 0 {
			bit := isolateLowestSet(word)
			pos := i*64 + bits.OnesCount64(bit-1)
			if pos >= start && pos <= end {
				*out = append(*out, pos)
			}
			word = clearLowestSet(word)
		}
	}
}

// preField locates the two structural quotes immediately preceding hi and
// strictly after lo, returning (si, ei) with si < ei so that the field name
// is rec[si+1:ei].
func (p *Parser) preField(lo, hi int) (si, ei int, err error) {
	bq := p.ib.bQuote
	wHi := hi / 64
	wLo := lo / 64
	if wHi >= len(bq) {
		wHi = len(bq) - 1
	}
	found := 0
	var firstPos, secondPos int
	for wi := wHi; wi >= wLo && wi >= 0; wi-- {
		word := bq[wi]
		if wi == wHi {
			local := hi - wi*64
			word &= (uint64(1) << uint(local)) - 1
		}
		if wi == wLo {
			local := lo - wi*64
			word &^= (uint64(1) << uint(local+1)) - 1
		}
		for word != 0 {
			pos := 63 - bits.LeadingZeros64(word)
			globalPos := wi*64 + pos
			word &^= uint64(1) << uint(pos)
			if found == 0 {
				firstPos = globalPos
				found = 1
			} else {
				secondPos = globalPos
				found = 2
				break
			}
		}
		if found == 2 {
			break
		}
	}
	if found < 2 {
		return 0, 0, ErrInvalidRecord
	}
	return secondPos, firstPos, nil
}

// postValue trims a candidate value range [si, ei], dropping surrounding
// whitespace and at most one trailing terminator (',' for an interior
// field, '}' for the last field of the enclosing object).
func postValue(rec []byte, si, ei int, terminator byte) (int, int, error) {
	n := len(rec)
	for si < n && isBlank(rec[si]) {
		si++
	}
	for ei >= si && isBlank(rec[ei]) {
		ei--
	}
	if ei >= si && rec[ei] == terminator {
		ei--
		for ei >= si && isBlank(rec[ei]) {
			ei--
		}
	}
	if ei < si {
		return 0, 0, ErrInvalidRecord
	}
	return si, ei, nil
}

// basicParse scans every colon at depth within [start, end], matching
// field names against node's children and recursing into nested objects.
// Writes absolute byte ranges into results for every terminal path found.
func (p *Parser) basicParse(rec []byte, node *queryNode, start, end, depth int, training bool, results []Result) error {
	buf := &p.colonBuf[depth]
	*buf = (*buf)[:0]
	p.collectColonPositions(depth, start, end, buf)
	cp := *buf

	total := len(node.children)
	if total == 0 {
		return nil
	}

	vei := end
	found := 0
	for i := len(cp) - 1; i >= 0 && found < total; i-- {
		lo := start
		if i > 0 {
			lo = cp[i-1]
		}
		fsi, fei, err := p.preField(lo, cp[i])
		if err != nil {
			return err
		}
		if child := node.children[string(rec[fsi+1:fei])]; child != nil {
			term := byte(byteComma)
			if i == len(cp)-1 {
				term = byteRBrace
			}
			vsi, vei2, err := postValue(rec, cp[i]+1, vei, term)
			if err != nil {
				return err
			}
			if training {
				p.stats[child.id][i] = struct{}{}
			}
			if len(child.children) > 0 {
				if err := p.basicParse(rec, child, vsi, vei2, depth+1, training, results); err != nil {
					return err
				}
			}
			if child.hasPathID {
				results[child.pathID] = Result{Start: vsi, End: vei2 + 1, Present: true}
			}
			found++
		}
		vei = fsi - 1
	}
	return nil
}

// speculativeParse attempts to resolve every child of node using only
// (field, colon-index) pairs observed during training. It returns false as
// soon as any child has no matching cached candidate, signalling the
// caller to fall back to basicParse.
func (p *Parser) speculativeParse(rec []byte, node *queryNode, start, end, depth int, results []Result) (bool, error) {
	buf := &p.colonBuf[depth]
	*buf = (*buf)[:0]
	p.collectColonPositions(depth, start, end, buf)
	cp := *buf

	for _, child := range node.childList {
		matched := false
		for i := range p.stats[child.id] {
			if i >= len(cp) {
				continue
			}
			lo := start
			if i > 0 {
				lo = cp[i-1]
			}
			fsi, fei, err := p.preField(lo, cp[i])
			if err != nil {
				continue
			}
			if string(rec[fsi+1:fei]) != child.label {
				continue
			}

			var vei int
			if i < len(cp)-1 {
				nfsi, _, err := p.preField(cp[i], cp[i+1])
				if err != nil {
					continue
				}
				vei = nfsi - 1
			} else {
				vei = end
			}

			term := byte(byteComma)
			if i == len(cp)-1 {
				term = byteRBrace
			}
			vsi, vei2, err := postValue(rec, cp[i]+1, vei, term)
			if err != nil {
				continue
			}

			if len(child.children) > 0 {
				ok, err := p.speculativeParse(rec, child, vsi, vei2, depth+1, results)
				if err != nil {
					return false, err
				}
				if !ok {
					continue
				}
			}

			if child.hasPathID {
				results[child.pathID] = Result{Start: vsi, End: vei2 + 1, Present: true}
			}
			matched = true
			break
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}