/*
 * Copyright 2021 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package urllist reads lists of URLs to be added to a sitemap.
//
// A list has one URL per line. Each line holds up to four fields separated by whitespace:
//
//	location [lastmod [changefreq [priority]]]
//
// lastmod is either seconds since the Unix epoch or a W3C Datetime (e.g. 2021-03-04 or 2021-03-04T12:00:00Z).
// A single dash leaves an optional field unset. Empty lines and lines starting with # are ignored.
package urllist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nlnwa/gositemap"
	"github.com/nlnwa/gositemap/internal/timestamp"
)

const (
	unset    = "-"
	maxLine  = 1024 * 1024
	maxField = 4
)

// Entry is one URL read from a list.
type Entry struct {
	Location   string
	LastMod    *time.Time
	ChangeFreq gositemap.ChangeFrequency
	Priority   *float64
}

// Options returns the URL options matching the fields set on the entry.
func (e *Entry) Options() []gositemap.URLOption {
	var opts []gositemap.URLOption
	if e.LastMod != nil {
		opts = append(opts, gositemap.WithLastModified(*e.LastMod))
	}
	if e.ChangeFreq != 0 {
		opts = append(opts, gositemap.WithChangeFrequency(e.ChangeFreq))
	}
	if e.Priority != nil {
		opts = append(opts, gositemap.WithPriority(*e.Priority))
	}
	return opts
}

// ParseError is returned for lines which can't be parsed.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Reader reads entries from a URL list.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader{scanner: s}
}

// Next returns the next entry. At the end of input, Next returns io.EOF.
func (r *Reader) Next() (*Entry, error) {
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, err := parseLine(line)
		if err != nil {
			return nil, &ParseError{Line: r.line, Err: err}
		}
		return e, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, &ParseError{Line: r.line + 1, Err: err}
	}
	return nil, io.EOF
}

func parseLine(line string) (*Entry, error) {
	fields := strings.Fields(line)
	if len(fields) > maxField {
		return nil, fmt.Errorf("expected at most %d fields, got %d", maxField, len(fields))
	}

	e := &Entry{Location: fields[0]}
	if len(fields) > 1 && fields[1] != unset {
		t, err := parseLastMod(fields[1])
		if err != nil {
			return nil, err
		}
		e.LastMod = &t
	}
	if len(fields) > 2 && fields[2] != unset {
		f, err := gositemap.ParseChangeFrequency(fields[2])
		if err != nil {
			return nil, err
		}
		e.ChangeFreq = f
	}
	if len(fields) > 3 && fields[3] != unset {
		p, err := gositemap.ParsePriority(fields[3])
		if err != nil {
			return nil, err
		}
		e.Priority = &p
	}
	return e, nil
}

func parseLastMod(s string) (time.Time, error) {
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0), nil
	}
	t, err := timestamp.ParseW3c(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid lastmod '%s': not epoch seconds or a W3C datetime", s)
	}
	return t, nil
}

// Validate reads all entries from r and returns the number of entries, or the first ParseError.
func Validate(r io.Reader) (int, error) {
	reader := NewReader(r)
	count := 0
	for {
		_, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		count++
	}
}

// URLAdder is the interface that wraps the AddURL method of gositemap.SitemapWriter.
type URLAdder interface {
	AddURL(location string, opts ...gositemap.URLOption) error
}

// AddAll reads all entries from r and adds them to w. It stops at the first error.
// Input that can't be parsed or is rejected by w as an invalid argument is reported as a ParseError.
// Other errors from w are returned unchanged.
//
// Returns the number of URLs added.
func AddAll(w URLAdder, r io.Reader) (int, error) {
	reader := NewReader(r)
	count := 0
	for {
		e, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		if err := w.AddURL(e.Location, e.Options()...); err != nil {
			var argErr *gositemap.ArgumentError
			if errors.As(err, &argErr) {
				return count, &ParseError{Line: reader.line, Err: err}
			}
			return count, err
		}
		count++
	}
}
