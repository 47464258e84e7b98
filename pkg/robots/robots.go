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

// Package robots announces sitemap indexes in robots.txt files.
package robots

import (
	"bytes"
	"fmt"
	"os"

	"github.com/prometheus/tsdb/fileutil"
	"github.com/temoto/robotstxt"
)

// EnsureSitemap makes sure the robots.txt file at path has a Sitemap directive for sitemapURL.
// The file is created if it does not exist. Existing content is kept and the directive appended.
//
// Returns true if the file was changed.
func EnsureSitemap(path, sitemapURL string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("could not read %s: %w", path, err)
	}

	robots, err := robotstxt.FromBytes(content)
	if err != nil {
		return false, fmt.Errorf("could not parse %s: %w", path, err)
	}
	for _, s := range robots.Sitemaps {
		if s == sitemapURL {
			return false, nil
		}
	}

	buf := bytes.NewBuffer(content)
	if buf.Len() > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		buf.WriteByte('\n')
	}
	fmt.Fprintf(buf, "Sitemap: %s\n", sitemapURL)

	tmp := path + ".open"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("could not write %s: %w", tmp, err)
	}
	if err := fileutil.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("could not rename %s: %w", tmp, err)
	}
	return true, nil
}
