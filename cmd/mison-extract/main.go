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

// Command mison-extract pulls a fixed set of fields out of newline
// delimited JSON, printing one JSON array of raw matches per input record.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"

	"github.com/minio/mison"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	app := &cli.App{
		Name:  "mison-extract",
		Usage: "extract fixed fields from newline delimited JSON without full parsing",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "query",
				Aliases:  []string{"q"},
				Usage:    "JSONPath-style field to extract, e.g. $.user.id (repeatable)",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "train",
				Value: 5,
				Usage: "number of records to fully scan before speculating on layout",
			},
			&cli.BoolFlag{
				Name:  "wide",
				Usage: "force the wide byte-match backend instead of auto-detection",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "input file (defaults to stdin)",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	queries := c.StringSlice("query")

	opts := []mison.Option{mison.WithTrainingThreshold(c.Int("train"))}
	if c.Bool("wide") {
		opts = append(opts, mison.WithBackend(mison.BackendWide))
	}

	p, err := mison.NewParser(queries, opts...)
	if err != nil {
		return fmt.Errorf("building parser: %w", err)
	}

	var in io.Reader = os.Stdin
	if f := c.String("file"); f != "" {
		fh, err := os.Open(f)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer fh.Close()
		in = fh
		if strings.HasSuffix(f, ".gz") {
			gz, err := gzip.NewReader(fh)
			if err != nil {
				return fmt.Errorf("opening gzip input: %w", err)
			}
			defer gz.Close()
			in = gz
		}
	}

	out := bufio.NewWriterSize(os.Stdout, 1<<20)
	defer out.Flush()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 10<<20)
	enc := jsonAPI.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		results, err := p.Parse(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping record: %v\n", err)
			continue
		}
		matches := make([]string, len(queries))
		for i, r := range results {
			if r.Present {
				matches[i] = string(r.Bytes(line))
			}
		}
		if err := enc.Encode(matches); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return scanner.Err()
}
