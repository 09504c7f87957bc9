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

import "fmt"

// Result is a raw byte range into the record most recently passed to
// Parse. It is only valid until the next call to Parse on the same
// Parser. Present is false when the queried path does not occur in the
// record.
type Result struct {
	Start   int
	End     int
	Present bool
}

// Bytes slices rec using r's range. Callers wanting a value that outlives
// the next Parse call must copy it.
func (r Result) Bytes(rec []byte) []byte {
	if !r.Present {
		return nil
	}
	return rec[r.Start:r.End]
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithBackend forces a specific byte-match backend instead of the
// cpuid-selected default.
func WithBackend(b Backend) Option {
	return func(p *Parser) {
		p.ib.matchByte = selectMatchByte(b)
	}
}

// WithTrainingThreshold sets how many basicParse calls (with training
// enabled) the Parser performs before switching to speculative parsing.
// The default is 5.
func WithTrainingThreshold(n int) Option {
	return func(p *Parser) {
		p.trainThreshold = n
	}
}

// Parser extracts a fixed set of JSONPath-style fields from JSON object
// records sharing a common layout. A Parser is stateful (it learns the
// layout of the records it sees) and is not safe for concurrent use;
// callers parsing concurrently should construct one Parser per goroutine.
type Parser struct {
	tree *queryTree
	ib   *indexBuilder

	stats    []map[int]struct{}
	colonBuf [][]int

	trainThreshold int
	trainedCount   int
	trained        bool

	results []Result

	paths []string
	opts  []Option
}

// clone builds a fresh Parser from the same construction arguments,
// untrained. Used by ParseNDStream to give each worker goroutine its own
// mutable Parser, since a Parser is not safe for concurrent use.
func (p *Parser) clone() (*Parser, error) {
	return NewParser(p.paths, p.opts...)
}

// NewParser builds a Parser for the given set of query paths, each of the
// form "$.a.b.c". Paths may repeat a prefix; the underlying trie is built
// once and shared across every call to Parse.
func NewParser(paths []string, opts ...Option) (*Parser, error) {
	tree, err := newQueryTree(paths)
	if err != nil {
		return nil, err
	}

	p := &Parser{
		tree:           tree,
		ib:             newIndexBuilder(tree.maxDepth, selectMatchByte(BackendAuto)),
		stats:          make([]map[int]struct{}, tree.numNodes),
		colonBuf:       make([][]int, tree.maxDepth),
		trainThreshold: 5,
		results:        make([]Result, tree.numPaths),
		paths:          paths,
		opts:           opts,
	}
	for i := range p.stats {
		p.stats[i] = map[int]struct{}{}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Parse extracts every queried path from rec. The returned slice is owned
// by the Parser and is only valid until the next call to Parse.
func (p *Parser) Parse(rec []byte) ([]Result, error) {
	if len(rec) == 0 {
		return nil, ErrInvalidRecord
	}
	if err := p.ib.build(rec); err != nil {
		return nil, err
	}

	for i := range p.results {
		p.results[i] = Result{}
	}

	start, end, err := objectBounds(rec)
	if err != nil {
		return nil, err
	}

	if p.trained {
		ok, err := p.speculativeParse(rec, p.tree.root, start, end, 0, p.results)
		if err != nil {
			return nil, err
		}
		if ok {
			return p.results, nil
		}
		for i := range p.results {
			p.results[i] = Result{}
		}
	}

	training := !p.trained
	if err := p.basicParse(rec, p.tree.root, start, end, 0, training, p.results); err != nil {
		return nil, err
	}
	if training {
		p.trainedCount++
		if p.trainedCount >= p.trainThreshold {
			p.trained = true
		}
	}
	return p.results, nil
}

// objectBounds skips leading/trailing whitespace and returns the positions
// of the record's enclosing '{' and '}' as the [start, end] range passed to
// basicParse/speculativeParse.
func objectBounds(rec []byte) (int, int, error) {
	n := len(rec)
	si := 0
	for si < n && isBlank(rec[si]) {
		si++
	}
	ei := n - 1
	for ei >= si && isBlank(rec[ei]) {
		ei--
	}
	if ei < si || rec[si] != '{' || rec[ei] != '}' {
		return 0, 0, fmt.Errorf("%w: not a JSON object", ErrInvalidRecord)
	}
	return si, ei, nil
}