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

package gositemap_test

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nlnwa/gositemap"
)

func ExampleSitemapWriter() {
	dir, err := os.MkdirTemp("", "sitemap")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	w, err := gositemap.NewSitemapWriter("https://example.com", dir, "sitemap.xml",
		gositemap.WithMaxURLs(2),
		gositemap.WithCompression(false),
		gositemap.WithClock(clockwork.NewFakeClockAt(time.Date(2021, 3, 4, 12, 0, 0, 0, time.UTC))),
	)
	if err != nil {
		panic(err)
	}

	_ = w.AddURL("/")
	_ = w.AddURL("about", gositemap.WithChangeFrequency(gositemap.Monthly), gositemap.WithPriority(0.8))
	_ = w.AddURL("/news", gositemap.WithLastModifiedUnix(1614859200))
	if err := w.Close(); err != nil {
		panic(err)
	}

	for _, path := range w.FilePaths() {
		fmt.Println(filepath.Base(path))
	}
	index, _ := os.ReadFile(w.IndexPath())
	fmt.Print(string(index))
	// Output:
	// sitemap_part.xml
	// sitemap_part_2.xml
	// <?xml version="1.0" encoding="UTF-8"?>
	// <sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
	//   <sitemap>
	//     <loc>https://example.com/sitemap_part.xml</loc>
	//     <lastmod>2021-03-04T12:00:00Z</lastmod>
	//   </sitemap>
	//   <sitemap>
	//     <loc>https://example.com/sitemap_part_2.xml</loc>
	//     <lastmod>2021-03-04T12:00:00Z</lastmod>
	//   </sitemap>
	// </sitemapindex>
}

func ExampleParseChangeFrequency() {
	f, err := gositemap.ParseChangeFrequency("weekly")
	fmt.Println(f, err)

	_, err = gositemap.ParseChangeFrequency("sometimes")
	fmt.Println(err != nil)
	// Output:
	// weekly <nil>
	// true
}
