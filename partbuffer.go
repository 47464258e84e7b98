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
	"fmt"
	"os"
)

// SchemaURL is the namespace of both urlset and sitemapindex documents.
const SchemaURL = "http://www.sitemaps.org/schemas/sitemap/0.9"

var (
	urlsetStart = xml.Header + `<urlset xmlns="` + SchemaURL + `">` + "\n"
	urlsetEnd   = "</urlset>\n"
)

// partBuffer holds the part of a urlset document which is not yet written to disk.
//
// The file is opened in append mode for every flush and closed again before flush returns.
type partBuffer struct {
	path     string
	buf      bytes.Buffer
	entries  int   // entries added since last flush
	size     int64 // total size of the document, flushed or not
	finished bool
}

func newPartBuffer(path string) *partBuffer {
	b := &partBuffer{path: path}
	b.write([]byte(urlsetStart))
	return b
}

func (b *partBuffer) String() string {
	return fmt.Sprintf("%s (size: %d, buffered: %d bytes/%d entries)", b.path, b.size, b.buf.Len(), b.entries)
}

func (b *partBuffer) write(p []byte) {
	// bytes.Buffer.Write never returns an error
	_, _ = b.buf.Write(p)
	b.size += int64(len(p))
}

// add appends one encoded url element.
func (b *partBuffer) add(element []byte) {
	b.write(element)
	b.entries++
}

// flush appends the buffered data to the file and empties the buffer.
// The buffer is left unchanged if writing fails.
func (b *partBuffer) flush() (err error) {
	if b.buf.Len() == 0 {
		return nil
	}
	f, err := os.OpenFile(b.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return newIOError("open", b.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = newIOError("close", b.path, cerr)
		}
	}()

	if _, err := f.Write(b.buf.Bytes()); err != nil {
		return newIOError("write", b.path, err)
	}
	b.buf.Reset()
	b.entries = 0
	return nil
}

// finish closes the urlset element and flushes the rest of the document to disk.
func (b *partBuffer) finish() error {
	if !b.finished {
		b.write([]byte(urlsetEnd))
		b.finished = true
	}
	return b.flush()
}

// encodeURL returns the indented xml for a url element, including the trailing newline.
func encodeURL(el *urlElement) ([]byte, error) {
	data, err := xml.MarshalIndent(el, "  ", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
