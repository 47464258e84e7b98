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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nlnwa/gositemap/internal"
	"github.com/nlnwa/whatwg-url/url"
	"github.com/sirupsen/logrus"
)

const partNamePattern = "%{base}s_%{serial}d%{ext}s"

// SitemapWriter writes URLs to one or more sitemap files and finally a sitemap index referencing them.
//
// A SitemapWriter is not safe for concurrent use.
type SitemapWriter struct {
	opts             *sitemapWriterOptions
	siteURL          string
	workDir          string
	fileName         string
	partBase         string
	partExt          string
	current          *partBuffer
	urlsCount        int // urls in the current file
	urlsTotal        int
	writtenFileCount int
	writtenFilePaths []string
	failedFiles      []string
	closed           bool
	log              logrus.FieldLogger
}

// NewSitemapWriter creates a new SitemapWriter with the supplied options.
//
// siteURL must be an absolute URL. It is prepended to every location added and to the file names
// referenced from the index. Sitemap files are written to workDir and the index is written to
// workDir/fileName when the writer is closed.
//
// The first sitemap file is prepared before NewSitemapWriter returns. Any existing file with the same
// name is removed.
func NewSitemapWriter(siteURL, workDir, fileName string, opts ...Option) (*SitemapWriter, error) {
	o := defaultSitemapWriterOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}

	if err := validateSiteURL(siteURL); err != nil {
		return nil, err
	}
	if fileName == "" || filepath.Base(fileName) != fileName {
		return nil, newConfigErrorf("index file name must be a plain file name, was '%s'", fileName)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}

	base, ext, _ := splitPartFileName(o.partFileName)
	w := &SitemapWriter{
		opts:     &o,
		siteURL:  siteURL,
		workDir:  workDir,
		fileName: fileName,
		partBase: base,
		partExt:  ext,
		log:      o.logger.WithField("sitemap", fileName),
	}
	if err := w.createFile(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *SitemapWriter) String() string {
	return fmt.Sprintf("SitemapWriter (%s)", w.opts)
}

// AddURL adds a URL to the current sitemap file.
//
// The location is appended to the site URL, with a slash inserted if location does not start with one.
// Optional values are set with WithLastModified, WithLastModifiedUnix, WithChangeFrequency and WithPriority.
//
// An ArgumentError is returned if location is empty or an optional value is invalid. The writer is left
// unchanged in that case and can still be used.
// An IOError is returned if buffered data could not be written to disk.
//
// Calling AddURL after Close will panic.
func (w *SitemapWriter) AddURL(location string, opts ...URLOption) error {
	if w.closed {
		panic("gositemap: AddURL called on closed SitemapWriter")
	}

	el, err := newURLElement(w.siteURL, location, opts)
	if err != nil {
		return err
	}
	data, err := encodeURL(el)
	if err != nil {
		return newArgumentError("location", location, err.Error())
	}

	if w.isFull(len(data)) {
		if err := w.rotate(); err != nil {
			return err
		}
	}

	if w.current.entries >= w.opts.bufferSize {
		w.log.Debugf("flushing %d urls to %s", w.current.entries, w.current.path)
		if err := w.current.flush(); err != nil {
			return err
		}
	}

	w.current.add(data)
	w.urlsCount++
	w.urlsTotal++
	return nil
}

// isFull reports whether the current file has room for an url element of size bytes.
func (w *SitemapWriter) isFull(size int) bool {
	if w.urlsCount >= w.opts.maxURLs {
		return true
	}
	if w.opts.maxFileSize > 0 && w.urlsCount > 0 {
		return w.current.size+int64(size)+int64(len(urlsetEnd)) > w.opts.maxFileSize
	}
	return false
}

// rotate finishes the current file and starts a new one.
func (w *SitemapWriter) rotate() error {
	w.log.Debugf("%s is full with %d urls (%d bytes)", w.current.path, w.urlsCount, w.current.size)
	if err := w.current.finish(); err != nil {
		return err
	}
	return w.createFile()
}

func (w *SitemapWriter) createFile() error {
	w.writtenFileCount++
	path := w.currentFilePath()
	w.writtenFilePaths = append(w.writtenFilePaths, path)

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return newIOError("remove", path, err)
	}
	w.current = newPartBuffer(path)
	w.urlsCount = 0
	w.log.Debugf("created sitemap file %s", path)
	return nil
}

// currentFilePath returns the path of file number writtenFileCount. The first file uses the configured
// part file name, the following insert an underscore and the serial number before the extension.
func (w *SitemapWriter) currentFilePath() string {
	if w.writtenFileCount < 2 {
		return filepath.Join(w.workDir, w.partBase+w.partExt)
	}
	name := internal.Sprintt(partNamePattern, map[string]any{
		"base":   w.partBase,
		"serial": w.writtenFileCount,
		"ext":    w.partExt,
	})
	return filepath.Join(w.workDir, name)
}

// Close finishes the current sitemap file, compresses all sitemap files if compression is enabled and
// writes the sitemap index.
//
// Files which could not be compressed are left out of the index. They are logged and available from
// FailedFiles. If the writer was created with WithStrictCompression(true), a CompressionError listing
// them is returned after the index is written.
//
// Calling Close more than once returns ErrClosed.
func (w *SitemapWriter) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true

	if err := w.current.finish(); err != nil {
		return err
	}
	if w.opts.compress && w.opts.compressor == nil {
		return &MissingDependencyError{name: "compressor"}
	}

	now := w.opts.clock.Now()
	index := newSitemapIndex()
	compressionErr := &CompressionError{}
	for _, path := range w.writtenFilePaths {
		loc := joinURL(w.siteURL, filepath.Base(path))
		if w.opts.compress {
			var err error
			loc, err = CompressFile(path, w.siteURL, w.opts.compressor)
			if err != nil {
				w.log.WithError(err).Warnf("leaving %s out of sitemap index", path)
				compressionErr.add(path, err)
				continue
			}
		}
		index.add(loc, now)
	}
	w.failedFiles = compressionErr.Files()

	if err := index.writeTo(w.IndexPath()); err != nil {
		return err
	}
	w.log.WithFields(logrus.Fields{
		"file":  w.IndexPath(),
		"parts": len(index.Sitemaps),
		"urls":  w.urlsTotal,
	}).Info("wrote sitemap index")

	if w.opts.strictCompression && len(compressionErr.Files()) > 0 {
		return compressionErr
	}
	return nil
}

// SetMaxURLs sets the max number of URLs in one sitemap file. It takes effect for the next URL added.
func (w *SitemapWriter) SetMaxURLs(count int) error {
	if count <= 0 {
		return newArgumentError("max urls", fmt.Sprint(count), "must be greater than zero")
	}
	w.opts.maxURLs = count
	return nil
}

// SetBufferSize sets how many entries are kept in memory before they are written to disk.
func (w *SitemapWriter) SetBufferSize(count int) error {
	if count <= 0 {
		return newArgumentError("buffer size", fmt.Sprint(count), "must be greater than zero")
	}
	w.opts.bufferSize = count
	return nil
}

// SetCompression sets if sitemap files should be compressed when the writer is closed.
func (w *SitemapWriter) SetCompression(compress bool) {
	w.opts.compress = compress
}

// Compression reports whether sitemap files will be compressed when the writer is closed.
func (w *SitemapWriter) Compression() bool {
	return w.opts.compress
}

// FilePaths returns the paths of all sitemap files created so far, in creation order.
// The paths are those of the uncompressed files.
func (w *SitemapWriter) FilePaths() []string {
	paths := make([]string, len(w.writtenFilePaths))
	copy(paths, w.writtenFilePaths)
	return paths
}

// URLs returns the public URLs of all sitemap files created so far, as baseURL joined with each file name.
func (w *SitemapWriter) URLs(baseURL string) []string {
	urls := make([]string, len(w.writtenFilePaths))
	for i, path := range w.writtenFilePaths {
		urls[i] = joinURL(baseURL, filepath.Base(path))
	}
	return urls
}

// FailedFiles returns the paths of the files which could not be compressed by Close.
func (w *SitemapWriter) FailedFiles() []string {
	files := make([]string, len(w.failedFiles))
	copy(files, w.failedFiles)
	return files
}

// IndexPath returns the path of the sitemap index file.
func (w *SitemapWriter) IndexPath() string {
	return filepath.Join(w.workDir, w.fileName)
}

func validateSiteURL(siteURL string) error {
	if strings.TrimSpace(siteURL) != siteURL || siteURL == "" {
		return newConfigErrorf("site url '%s' is not a valid url", siteURL)
	}
	u, err := url.Parse(siteURL)
	if err != nil {
		return newWrappedConfigError(fmt.Sprintf("site url '%s' is not a valid url", siteURL), err)
	}
	if u.Hostname() == "" {
		return newConfigErrorf("site url '%s' is not an absolute url", siteURL)
	}
	return nil
}

// splitPartFileName splits name into base name and extension.
func splitPartFileName(name string) (base, ext string, err error) {
	if name == "" || filepath.Base(name) != name {
		return "", "", newConfigErrorf("part file name must be a plain file name, was '%s'", name)
	}
	ext = filepath.Ext(name)
	base = strings.TrimSuffix(name, ext)
	if base == "" {
		return "", "", newConfigErrorf("part file name must have a base name, was '%s'", name)
	}
	return base, ext, nil
}
