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
	"bytes"
	"errors"
	"strings"
	"testing"
)

func mustResultStrings(t *testing.T, rec []byte, results []Result) []string {
	t.Helper()
	out := make([]string, len(results))
	for i, r := range results {
		if r.Present {
			out[i] = string(r.Bytes(rec))
		} else {
			out[i] = "<absent>"
		}
	}
	return out
}

func TestScenarioS1EmptyObject(t *testing.T) {
	p, err := NewParser([]string{"$.f1"})
	if err != nil {
		t.Fatal(err)
	}
	rec := []byte(`{}`)
	results, err := p.Parse(rec)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Present {
		t.Fatalf("expected absent, got %q", results[0].Bytes(rec))
	}
}

func TestScenarioS2FieldNotPresent(t *testing.T) {
	p, err := NewParser([]string{"$.f1"})
	if err != nil {
		t.Fatal(err)
	}
	rec := []byte(`{"f0": "a"}`)
	results, err := p.Parse(rec)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Present {
		t.Fatalf("expected absent, got %q", results[0].Bytes(rec))
	}
}

func TestScenarioS3SimpleField(t *testing.T) {
	p, err := NewParser([]string{"$.f1"})
	if err != nil {
		t.Fatal(err)
	}
	rec := []byte(`{"f0": "a", "f1": "b"}`)
	results, err := p.Parse(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Present || string(results[0].Bytes(rec)) != `"b"` {
		t.Fatalf("got %q, want %q", results[0].Bytes(rec), `"b"`)
	}
}

func TestScenarioS4NestedAndMixed(t *testing.T) {
	paths := []string{"$.f1", "$.f2", "$.f2.f1", "$.f2.f2.f1", "$.f2.f3", "$.f3", "$.f4"}
	p, err := NewParser(paths)
	if err != nil {
		t.Fatal(err)
	}
	rec := []byte(`{"f0":"a","f1":"b","f2":{"f1":1,"f2":{"f1":"c","f2":"d"}},"f3":[1,2,3]}`)
	results, err := p.Parse(rec)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		`"b"`,
		`{"f1":1,"f2":{"f1":"c","f2":"d"}}`,
		`1`,
		`"c"`,
		"<absent>",
		`[1,2,3]`,
		"<absent>",
	}
	got := mustResultStrings(t, rec, results)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("path %q: got %q want %q", paths[i], got[i], want[i])
		}
	}
}

func TestScenarioS5EscapedQuotesInString(t *testing.T) {
	p, err := NewParser([]string{"$.f1"})
	if err != nil {
		t.Fatal(err)
	}
	rec := []byte(`{"f1":"\"f1\": \\"}`)
	results, err := p.Parse(rec)
	if err != nil {
		t.Fatal(err)
	}
	want := `"\"f1\": \\"`
	if !results[0].Present || string(results[0].Bytes(rec)) != want {
		t.Fatalf("got %q, want %q", results[0].Bytes(rec), want)
	}
}

func TestScenarioS6TrainingThenSpeculation(t *testing.T) {
	paths := []string{"$.f1", "$.f2", "$.f2.f1", "$.f2.f2.f1", "$.f3"}
	p, err := NewParser(paths, WithTrainingThreshold(1))
	if err != nil {
		t.Fatal(err)
	}

	rec1 := []byte(`{"f1":"b","f2":{"f1":1,"f2":{"f1":"c"}},"f3":[1,2,3]}`)
	first, err := p.Parse(rec1)
	if err != nil {
		t.Fatal(err)
	}
	firstStr := mustResultStrings(t, rec1, first)
	if !p.trained {
		t.Fatal("expected parser to be trained after threshold of 1")
	}

	rec2 := []byte(`{"f1":"b","f2":{"f1":1,"f2":{"f1":"c"}},"f3":[1,2,3]}`)
	second, err := p.Parse(rec2)
	if err != nil {
		t.Fatal(err)
	}
	secondStr := mustResultStrings(t, rec2, second)
	for i := range firstStr {
		if firstStr[i] != secondStr[i] {
			t.Errorf("speculative result diverged at %d: %q vs %q", i, firstStr[i], secondStr[i])
		}
	}

	// Reordered top-level keys: speculative guesses should miss and the
	// parser must fall back to basic parse, still producing correct output.
	rec3 := []byte(`{"f3":[4,5,6],"f2":{"f1":2,"f2":{"f1":"z"}},"f1":"q"}`)
	third, err := p.Parse(rec3)
	if err != nil {
		t.Fatal(err)
	}
	thirdStr := mustResultStrings(t, rec3, third)
	want := []string{`"q"`, `{"f1":2,"f2":{"f1":"z"}}`, `2`, `"z"`, `[4,5,6]`}
	for i := range want {
		if thirdStr[i] != want[i] {
			t.Errorf("path %q: got %q want %q", paths[i], thirdStr[i], want[i])
		}
	}
}

func TestScenarioS7EmptyRecord(t *testing.T) {
	p, err := NewParser([]string{"$.a"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Parse(nil)
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("got %v, want ErrInvalidRecord", err)
	}
}

func TestScenarioS8InvalidQueryAtConstruction(t *testing.T) {
	_, err := NewParser([]string{"$"})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("got %v, want ErrInvalidQuery", err)
	}
}

func TestBasicParseIdempotence(t *testing.T) {
	paths := []string{"$.f1", "$.f2", "$.f2.f1"}
	p, err := NewParser(paths, WithTrainingThreshold(1<<30)) // never speculate
	if err != nil {
		t.Fatal(err)
	}
	rec := []byte(`{"f0":"a","f1":"b","f2":{"f1":1,"f2":2}}`)
	a, err := p.Parse(rec)
	if err != nil {
		t.Fatal(err)
	}
	aStr := mustResultStrings(t, rec, a)
	b, err := p.Parse(rec)
	if err != nil {
		t.Fatal(err)
	}
	bStr := mustResultStrings(t, rec, b)
	for i := range aStr {
		if aStr[i] != bStr[i] {
			t.Errorf("basic parse not idempotent at %d: %q vs %q", i, aStr[i], bStr[i])
		}
	}
}

func TestBoundaryPaddingLengths(t *testing.T) {
	lengths := []int{1, 31, 32, 33, 63, 64, 65, 127, 128}
	for _, padLen := range lengths {
		pad := strings.Repeat("x", padLen)
		rec := []byte(`{"pad":"` + pad + `","f1":"hit"}`)
		p, err := NewParser([]string{"$.f1"})
		if err != nil {
			t.Fatal(err)
		}
		results, err := p.Parse(rec)
		if err != nil {
			t.Fatalf("pad=%d: %v", padLen, err)
		}
		if !results[0].Present || string(results[0].Bytes(rec)) != `"hit"` {
			t.Errorf("pad=%d: got %q", padLen, results[0].Bytes(rec))
		}
	}
}

func TestEscapeRunLengths(t *testing.T) {
	for runLen := 0; runLen <= 8; runLen++ {
		escapes := strings.Repeat(`\\`, runLen)
		rec := []byte(`{"f0":"` + escapes + `","f1":"hit"}`)
		p, err := NewParser([]string{"$.f1"})
		if err != nil {
			t.Fatal(err)
		}
		results, err := p.Parse(rec)
		if err != nil {
			t.Fatalf("runLen=%d: %v", runLen, err)
		}
		if !results[0].Present || string(results[0].Bytes(rec)) != `"hit"` {
			t.Errorf("runLen=%d: got %q", runLen, results[0].Bytes(rec))
		}
	}
}

func TestPostValueTerminators(t *testing.T) {
	p, err := NewParser([]string{"$.f1", "$.f2"})
	if err != nil {
		t.Fatal(err)
	}
	rec := []byte("{\"f1\": \"a\" ,\n\"f2\":  \"b\"  }")
	results, err := p.Parse(rec)
	if err != nil {
		t.Fatal(err)
	}
	if string(results[0].Bytes(rec)) != `"a"` {
		t.Errorf("f1: got %q", results[0].Bytes(rec))
	}
	if string(results[1].Bytes(rec)) != `"b"` {
		t.Errorf("f2: got %q", results[1].Bytes(rec))
	}
}

func TestParseNDStreamOrdering(t *testing.T) {
	p, err := NewParser([]string{"$.id"})
	if err != nil {
		t.Fatal(err)
	}
	var input bytes.Buffer
	want := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		input.WriteString(`{"id":`)
		input.WriteString(strings.Repeat(" ", i%3))
		input.WriteString(itoa(i))
		input.WriteString("}\n")
		want = append(want, itoa(i))
	}

	res := make(chan Stream)
	p.ParseNDStream(&input, res)

	i := 0
	for s := range res {
		if s.Error != nil {
			break
		}
		if !s.Results[0].Present {
			t.Fatalf("record %d: missing id", i)
		}
		got := string(s.Results[0].Bytes(s.Record))
		if got != want[i] {
			t.Errorf("record %d: got %q want %q", i, got, want[i])
		}
		i++
	}
	if i != len(want) {
		t.Fatalf("got %d records, want %d", i, len(want))
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}
