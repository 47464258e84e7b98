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

package gositemap

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nlnwa/gositemap/internal/timestamp"
)

// urlEntry holds the optional values of a single url element until it is encoded.
type urlEntry struct {
	lastMod    *time.Time
	changeFreq ChangeFrequency
	priority   *float64
}

// URLOption sets an optional value on a URL added with AddURL.
type URLOption interface {
	apply(*urlEntry)
}

type funcURLOption struct {
	f func(*urlEntry)
}

func (fo *funcURLOption) apply(e *urlEntry) {
	fo.f(e)
}

func newFuncURLOption(f func(*urlEntry)) *funcURLOption {
	return &funcURLOption{
		f: f,
	}
}

// WithLastModified sets the lastmod value of the URL.
func WithLastModified(t time.Time) URLOption {
	return newFuncURLOption(func(e *urlEntry) {
		e.lastMod = &t
	})
}

// WithLastModifiedUnix sets the lastmod value of the URL from seconds since the Unix epoch.
func WithLastModifiedUnix(sec int64) URLOption {
	return WithLastModified(time.Unix(sec, 0))
}

// WithChangeFrequency sets the changefreq value of the URL.
func WithChangeFrequency(freq ChangeFrequency) URLOption {
	return newFuncURLOption(func(e *urlEntry) {
		e.changeFreq = freq
	})
}

// WithPriority sets the priority value of the URL. Valid values are from 0.0 to 1.0 inclusive.
func WithPriority(priority float64) URLOption {
	return newFuncURLOption(func(e *urlEntry) {
		e.priority = &priority
	})
}

// ParsePriority parses s as a priority value. It must be a decimal number between 0.0 and 1.0 inclusive,
// optionally with an exponent (e.g. 0.5, .5, 5e-1). Hexadecimal notation is not accepted.
func ParsePriority(s string) (float64, error) {
	v := strings.TrimSpace(s)
	if isHexNumber(v) {
		return 0, newArgumentError("priority", s, "not a decimal number")
	}
	p, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, newArgumentError("priority", s, "not a number")
	}
	if err := validatePriority(p); err != nil {
		return 0, err
	}
	return p, nil
}

func isHexNumber(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

func validatePriority(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return newArgumentError("priority", formatPriority(p), "must be between 0 and 1")
	}
	return nil
}

func formatPriority(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// normalizeLocation makes sure a location starts with a path separator.
func normalizeLocation(location string) string {
	if location != "" && !strings.HasPrefix(location, "/") {
		return "/" + location
	}
	return location
}

// urlElement is the xml representation of a url in a urlset.
type urlElement struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod,omitempty"`
	ChangeFreq string   `xml:"changefreq,omitempty"`
	Priority   string   `xml:"priority,omitempty"`
}

func newURLElement(siteURL, location string, opts []URLOption) (*urlElement, error) {
	if location == "" {
		return nil, newArgumentError("location", "", "must not be empty")
	}

	e := &urlEntry{}
	for _, opt := range opts {
		opt.apply(e)
	}

	el := &urlElement{Loc: siteURL + normalizeLocation(location)}
	if e.lastMod != nil {
		el.LastMod = timestamp.UTCW3cIso8601(*e.lastMod)
	}
	if e.changeFreq != 0 {
		if !e.changeFreq.Valid() {
			return nil, newArgumentError("changefreq", e.changeFreq.String(), "unknown change frequency")
		}
		el.ChangeFreq = e.changeFreq.String()
	}
	if e.priority != nil {
		if err := validatePriority(*e.priority); err != nil {
			return nil, err
		}
		el.Priority = formatPriority(*e.priority)
	}
	return el, nil
}
