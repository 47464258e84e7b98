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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		value   string
		want    float64
		wantErr bool
	}{
		{"0", 0, false},
		{"1", 1, false},
		{"0.5", 0.5, false},
		{"1.0", 1, false},
		{" 0.8 ", 0.8, false},
		{"1.01", 0, true},
		{"-0.1", 0, true},
		{"2", 0, true},
		{"high", 0, true},
		{"", 0, true},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{".5", 0.5, false},
		{"5e-1", 0.5, false},
		{"0x1p-1", 0, true},
		{"0X1P-1", 0, true},
		{"+0x1p-1", 0, true},
		{"1_0e-1", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParsePriority(tt.value)
			if tt.wantErr {
				assert.IsType(t, &ArgumentError{}, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"page", "/page"},
		{"/page", "/page"},
		{"p", "/p"},
		{"", ""},
		{"/", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeLocation(tt.location), tt.location)
	}
}

func TestNewURLElement(t *testing.T) {
	assert := assert.New(t)
	oslo := time.FixedZone("CET", 3600)

	el, err := newURLElement("http://example.com", "page", []URLOption{
		WithLastModified(time.Date(2021, 3, 4, 13, 0, 0, 0, oslo)),
		WithChangeFrequency(Never),
		WithPriority(0.25),
	})
	assert.NoError(err)
	assert.Equal(&urlElement{
		Loc:        "http://example.com/page",
		LastMod:    "2021-03-04T12:00:00Z",
		ChangeFreq: "never",
		Priority:   "0.25",
	}, el)

	el, err = newURLElement("http://example.com", "page", nil)
	assert.NoError(err)
	assert.Equal(&urlElement{Loc: "http://example.com/page"}, el)
}
