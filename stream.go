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

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
)

// Stream is one parsed NDJSON record, returned in input order. Record and
// Results are copies made for this Stream alone, so they stay valid after
// later Streams arrive.
type Stream struct {
	Record  []byte
	Results []Result
	Error   error
}

type streamJob struct {
	line []byte
	item chan Stream
}

// ParseNDStream parses newline-delimited JSON from r, one record per line,
// and sends results to res in input order. It fans work out across half of
// runtime.GOMAXPROCS (rounded up) worker goroutines, each with its own Parser
// cloned from p's construction arguments (a Parser is stateful and not safe
// for concurrent use), and forwards finished results through a queue of
// single-slot channels so that out-of-order completion on the workers does
// not reorder what the caller observes. A record that fails to parse is
// sent as a Stream with Record and Error set, and parsing continues. The
// channel is closed after a final Stream whose Error is io.EOF, or the
// scanner's error if reading r fails.
func (p *Parser) ParseNDStream(r io.Reader, res chan<- Stream) {
	const maxLine = 10 << 20
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	conc := (runtime.GOMAXPROCS(0) + 1) / 2
	if conc < 1 {
		conc = 1
	}
	queue := make(chan chan Stream, conc)
	jobs := make(chan streamJob, conc)

	// Forward finished items in order, regardless of which worker finished
	// them first.
	go func() {
		defer close(res)
		for items := range queue {
			res <- <-items
		}
	}()

	for i := 0; i < conc; i++ {
		go func() {
			worker, err := p.clone()
			if err != nil {
				for j := range jobs {
					j.item <- Stream{Record: j.line, Error: fmt.Errorf("cloning parser: %w", err)}
				}
				return
			}
			for j := range jobs {
				results, err := worker.Parse(j.line)
				if err != nil {
					j.item <- Stream{Record: j.line, Error: fmt.Errorf("parsing record: %w", err)}
					continue
				}
				out := make([]Result, len(results))
				copy(out, results)
				j.item <- Stream{Record: j.line, Results: out}
			}
		}()
	}

	go func() {
		defer close(queue)
		defer close(jobs)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			if len(line) == 0 {
				continue
			}
			item := make(chan Stream, 1)
			queue <- item
			jobs <- streamJob{line: line, item: item}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		final := make(chan Stream, 1)
		queue <- final
		final <- Stream{Error: err}
	}()
}