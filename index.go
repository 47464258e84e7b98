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
	"bytes"
	"encoding/xml"
	"os"
	"strings"
	"time"

	"github.com/nlnwa/gositemap/internal/timestamp"
	"github.com/prometheus/tsdb/fileutil"
)

// sitemapIndex is the xml representation of a sitemap index document.
type sitemapIndex struct {
	XMLName  xml.Name         `xml:"sitemapindex"`
	Xmlns    string           `xml:"xmlns,attr"`
	Sitemaps []sitemapElement `xml:"sitemap"`
}

type sitemapElement struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

func newSitemapIndex() *sitemapIndex {
	return &sitemapIndex{Xmlns: SchemaURL}
}

func (s *sitemapIndex) add(loc string, lastMod time.Time) {
	s.Sitemaps = append(s.Sitemaps, sitemapElement{Loc: loc, LastMod: timestamp.UTCW3cIso8601(lastMod)})
}

// writeTo writes the index to path, replacing any existing file.
// The document is written to path + ".open" first and then renamed.
func (s *sitemapIndex) writeTo(path string) error {
	buf := bytes.NewBufferString(xml.Header)
	enc := xml.NewEncoder(buf)
	enc.Indent("", "  ")
	if err := enc.Encode(s); err != nil {
		return newIOError("encode", path, err)
	}
	buf.WriteByte('\n')

	tmp := path + openFileSuffix
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		_ = os.Remove(tmp)
		return newIOError("write", tmp, err)
	}
	if err := fileutil.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return newIOError("rename", tmp, err)
	}
	return nil
}

// joinURL returns baseURL and name separated by exactly one slash.
func joinURL(baseURL, name string) string {
	if strings.HasSuffix(baseURL, "/") {
		return baseURL + name
	}
	return baseURL + "/" + name
}
