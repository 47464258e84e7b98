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
	"strconv"
)

// ChangeFrequency is a hint to crawlers about how often a page is likely to change.
type ChangeFrequency int8

// The ChangeFrequency values defined by the sitemaps.org protocol.
const (
	Always ChangeFrequency = iota + 1
	Hourly
	Daily
	Weekly
	Monthly
	Yearly
	Never
)

// ChangeFrequencies lists all valid ChangeFrequency values.
var ChangeFrequencies = []ChangeFrequency{Always, Hourly, Daily, Weekly, Monthly, Yearly, Never}

func (c ChangeFrequency) String() string {
	switch c {
	case Always:
		return "always"
	case Hourly:
		return "hourly"
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	case Never:
		return "never"
	}
	return "ChangeFrequency(" + strconv.Itoa(int(c)) + ")"
}

// Valid reports whether c is one of the values defined by the protocol.
func (c ChangeFrequency) Valid() bool {
	return c >= Always && c <= Never
}

// ParseChangeFrequency returns the ChangeFrequency for s. The match is case sensitive, s must be one of
// always, hourly, daily, weekly, monthly, yearly or never.
func ParseChangeFrequency(s string) (ChangeFrequency, error) {
	switch s {
	case "always":
		return Always, nil
	case "hourly":
		return Hourly, nil
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	case "yearly":
		return Yearly, nil
	case "never":
		return Never, nil
	}
	return 0, newArgumentError("changefreq", s, "not one of always, hourly, daily, weekly, monthly, yearly or never")
}

// MarshalText implements encoding.TextMarshaler.
func (c ChangeFrequency) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, newArgumentError("changefreq", c.String(), "unknown change frequency")
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ChangeFrequency) UnmarshalText(text []byte) error {
	v, err := ParseChangeFrequency(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
