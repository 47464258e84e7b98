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
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/pgzip"
	"github.com/prometheus/tsdb/fileutil"
)

const (
	// size of the chunks read from the uncompressed file
	copyChunkSize = 512 * 1024

	// suffix added to a file while it is being written
	openFileSuffix = ".open"
)

// Compressor is the interface that wraps what is needed to compress a sitemap file.
type Compressor interface {
	// NewWriter returns a WriteCloser compressing everything written to it into w.
	// The returned writer must be closed to flush all data to w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
	// Extension returns the suffix added to the name of compressed files, e.g. ".gz".
	Extension() string
}

// GzipCompressor implements Compressor using parallel gzip compression.
type GzipCompressor struct {
	// Level is the gzip compression level. Note that the zero value is pgzip.NoCompression.
	Level int
}

func (g *GzipCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return pgzip.NewWriterLevel(w, g.Level)
}

func (g *GzipCompressor) Extension() string {
	return ".gz"
}

// CompressFile compresses the file at path into a sibling file with the compressor's extension
// added to the name, and removes the original file.
//
// The compressed file is written with an ".open" suffix which is removed when all data is written.
// If anything fails, the partially written file is removed and the original is left untouched.
//
// Returns the public URL of the compressed file, which is baseURL joined with the file name.
func CompressFile(path, baseURL string, c Compressor) (string, error) {
	if c == nil {
		return "", &MissingDependencyError{name: "compressor"}
	}
	dest := path + c.Extension()
	tmp := dest + openFileSuffix

	if err := copyCompressed(path, tmp, c); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := fileutil.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return "", newIOError("rename", tmp, err)
	}
	if err := os.Remove(path); err != nil {
		return "", newIOError("remove", path, err)
	}
	return joinURL(baseURL, filepath.Base(dest)), nil
}

func copyCompressed(src, dst string, c Compressor) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return newIOError("open", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return newIOError("create", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = newIOError("close", dst, cerr)
		}
	}()

	zw, err := c.NewWriter(out)
	if err != nil {
		return newIOError("compress", dst, err)
	}
	// Hide the file's WriterTo so the copy goes through the fixed size buffer
	if _, err := io.CopyBuffer(zw, struct{ io.Reader }{in}, make([]byte, copyChunkSize)); err != nil {
		_ = zw.Close()
		return newIOError("compress", src, err)
	}
	if err := zw.Close(); err != nil {
		return newIOError("compress", dst, err)
	}
	return nil
}
