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

package timestamp

import (
	"fmt"
	"time"
)

// W3C Datetime layouts accepted by the sitemaps.org protocol, most specific first.
var w3cLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02",
	"2006-01",
	"2006",
}

// UTC returns t in UTC with sub second precision removed.
func UTC(t time.Time) time.Time {
	return t.In(time.UTC).Truncate(time.Second)
}

// UTCW3cIso8601 formats t as a W3C Datetime in UTC with second precision, e.g. 2020-01-05T10:44:25Z
func UTCW3cIso8601(t time.Time) string {
	return UTC(t).Format(time.RFC3339)
}

// ParseW3c parses a W3C Datetime in any of the precisions allowed in sitemaps.
func ParseW3c(s string) (time.Time, error) {
	for _, layout := range w3cLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not a W3C datetime: %s", s)
}
