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

package urllist

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/nlnwa/gositemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_Next(t *testing.T) {
	input := `# pages
/index.html
about 1000000000 monthly 0.8

/news - daily
/archive 2021-03-04 - 0
/old 2021-03-04T12:00:00Z never -
`
	want := []Entry{
		{Location: "/index.html"},
		{Location: "about", LastMod: timePtr(time.Unix(1000000000, 0)), ChangeFreq: gositemap.Monthly, Priority: floatPtr(0.8)},
		{Location: "/news", ChangeFreq: gositemap.Daily},
		{Location: "/archive", LastMod: timePtr(time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)), Priority: floatPtr(0)},
		{Location: "/old", LastMod: timePtr(time.Date(2021, 3, 4, 12, 0, 0, 0, time.UTC)), ChangeFreq: gositemap.Never},
	}

	r := NewReader(strings.NewReader(input))
	for _, w := range want {
		got, err := r.Next()
		require.NoError(t, err)
		assert.Equal(t, w.Location, got.Location)
		assert.Equal(t, w.ChangeFreq, got.ChangeFreq)
		assert.Equal(t, w.Priority, got.Priority)
		if w.LastMod == nil {
			assert.Nil(t, got.LastMod)
		} else if assert.NotNil(t, got.LastMod) {
			assert.True(t, w.LastMod.Equal(*got.LastMod), "want %v, got %v", w.LastMod, got.LastMod)
		}
	}
	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_Next_errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"too many fields", "/a - daily 0.5 extra", 1},
		{"bad lastmod", "/a yesterday", 1},
		{"bad changefreq", "# comment\n/a - sometimes", 2},
		{"bad priority", "/a\n/b\n/c - - 1.5", 3},
		{"priority not a number", "/a - - high", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input))
			var err error
			for err == nil {
				_, err = r.Next()
			}
			var parseErr *ParseError
			if assert.True(t, errors.As(err, &parseErr), "expected ParseError, got %v", err) {
				assert.Equal(t, tt.wantLine, parseErr.Line)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	assert := assert.New(t)

	n, err := Validate(strings.NewReader("# list\n/a\n/b 0 daily 0.5\n"))
	assert.NoError(err)
	assert.Equal(2, n)

	n, err = Validate(strings.NewReader("/a\n/b - - 0x1p-1\n/c\n"))
	assert.Equal(1, n)
	var parseErr *ParseError
	if assert.True(errors.As(err, &parseErr)) {
		assert.Equal(2, parseErr.Line)
	}
}

type recordingAdder struct {
	locations []string
	options   [][]gositemap.URLOption
	failOn    string
	failErr   error
}

func (a *recordingAdder) AddURL(location string, opts ...gositemap.URLOption) error {
	if location == a.failOn {
		return a.failErr
	}
	a.locations = append(a.locations, location)
	a.options = append(a.options, opts)
	return nil
}

func TestAddAll(t *testing.T) {
	assert := assert.New(t)
	a := &recordingAdder{}
	n, err := AddAll(a, strings.NewReader("/a\n/b 0 always 1\n\n/c\n"))
	assert.NoError(err)
	assert.Equal(3, n)
	assert.Equal([]string{"/a", "/b", "/c"}, a.locations)
	assert.Len(a.options[0], 0)
	assert.Len(a.options[1], 3)
}

func TestAddAll_stopsAtFirstError(t *testing.T) {
	_, argErr := gositemap.ParsePriority("2")
	writeErr := errors.New("disk full")

	tests := []struct {
		name           string
		failErr        error
		wantParseError bool
	}{
		{"invalid argument", argErr, true},
		{"write failure", writeErr, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)
			a := &recordingAdder{failOn: "/b", failErr: tt.failErr}
			n, err := AddAll(a, strings.NewReader("/a\n/b\n/c\n"))
			assert.Equal(1, n)
			assert.ErrorIs(err, tt.failErr)
			var parseErr *ParseError
			if tt.wantParseError {
				if assert.True(errors.As(err, &parseErr)) {
					assert.Equal(2, parseErr.Line)
				}
			} else {
				assert.False(errors.As(err, &parseErr))
				assert.Equal(tt.failErr, err)
			}
			assert.Equal([]string{"/a"}, a.locations)
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(f float64) *float64 { return &f }
