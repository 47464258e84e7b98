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

	"github.com/jonboulle/clockwork"
	"github.com/klauspost/pgzip"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultMaxURLs is the maximum number of URLs allowed in one sitemap file by the sitemaps.org protocol.
	DefaultMaxURLs = 50000
	// DefaultBufferSize is the number of entries held in memory before they are flushed to disk.
	DefaultBufferSize = 1000
	// DefaultMaxFileSize is the maximum uncompressed size of one sitemap file by the sitemaps.org protocol.
	DefaultMaxFileSize = 50 * 1024 * 1024
	// DefaultPartFileName is the name of the first sitemap file. Later files get a serial number inserted before the extension.
	DefaultPartFileName = "sitemap_part.xml"
)

// Options for the sitemap writer
type sitemapWriterOptions struct {
	maxURLs           int
	bufferSize        int
	maxFileSize       int64
	compress          bool
	strictCompression bool
	compressor        Compressor
	partFileName      string
	clock             clockwork.Clock
	logger            logrus.FieldLogger
}

func (o *sitemapWriterOptions) String() string {
	return fmt.Sprintf("Max URLs: %d, Buffer size: %d, Max file size: %d, Compressed: %v",
		o.maxURLs, o.bufferSize, o.maxFileSize, o.compress)
}

func (o *sitemapWriterOptions) validate() error {
	if o.maxURLs <= 0 {
		return newConfigErrorf("max URLs must be greater than zero, was %d", o.maxURLs)
	}
	if o.bufferSize <= 0 {
		return newConfigErrorf("buffer size must be greater than zero, was %d", o.bufferSize)
	}
	if o.maxFileSize < 0 {
		return newConfigErrorf("max file size must not be negative, was %d", o.maxFileSize)
	}
	if _, _, err := splitPartFileName(o.partFileName); err != nil {
		return err
	}
	if gz, ok := o.compressor.(*GzipCompressor); ok && (gz.Level < pgzip.HuffmanOnly || gz.Level > pgzip.BestCompression) {
		return newConfigErrorf("gzip compression level must be between %d and %d, was %d",
			pgzip.HuffmanOnly, pgzip.BestCompression, gz.Level)
	}
	if o.compress && o.compressor == nil {
		return &MissingDependencyError{name: "compressor"}
	}
	return nil
}

// Option configures how to write sitemap files.
type Option interface {
	apply(*sitemapWriterOptions)
}

// funcOption wraps a function that modifies sitemapWriterOptions into an
// implementation of the Option interface.
type funcOption struct {
	f func(*sitemapWriterOptions)
}

func (fo *funcOption) apply(po *sitemapWriterOptions) {
	fo.f(po)
}

func newFuncOption(f func(*sitemapWriterOptions)) *funcOption {
	return &funcOption{
		f: f,
	}
}

func defaultSitemapWriterOptions() sitemapWriterOptions {
	return sitemapWriterOptions{
		maxURLs:      DefaultMaxURLs,
		bufferSize:   DefaultBufferSize,
		maxFileSize:  DefaultMaxFileSize,
		compress:     true,
		compressor:   &GzipCompressor{Level: pgzip.DefaultCompression},
		partFileName: DefaultPartFileName,
		clock:        clockwork.NewRealClock(),
		logger:       logrus.StandardLogger(),
	}
}

// WithMaxURLs sets the max number of URLs in one sitemap file before a new one is created.
// defaults to 50000
func WithMaxURLs(count int) Option {
	return newFuncOption(func(o *sitemapWriterOptions) {
		o.maxURLs = count
	})
}

// WithBufferSize sets how many entries are kept in memory before they are appended to the current sitemap file.
// defaults to 1000
func WithBufferSize(count int) Option {
	return newFuncOption(func(o *sitemapWriterOptions) {
		o.bufferSize = count
	})
}

// WithMaxFileSize sets the max uncompressed size in bytes of a sitemap file before a new one is created.
// A file always gets at least one entry, even if that entry alone exceeds the limit.
// Zero disables the limit.
// defaults to 50 MiB
func WithMaxFileSize(size int64) Option {
	return newFuncOption(func(o *sitemapWriterOptions) {
		o.maxFileSize = size
	})
}

// WithCompression sets if the sitemap files should be compressed when the writer is closed.
// defaults to true
func WithCompression(compress bool) Option {
	return newFuncOption(func(o *sitemapWriterOptions) {
		o.compress = compress
	})
}

// WithCompressionLevel sets the gzip level used by the default compressor.
// Levels outside pgzip.HuffmanOnly..pgzip.BestCompression make NewSitemapWriter fail with a ConfigError.
// It has no effect if another compressor is set with WithCompressor.
// defaults to pgzip.DefaultCompression
func WithCompressionLevel(level int) Option {
	return newFuncOption(func(o *sitemapWriterOptions) {
		if _, ok := o.compressor.(*GzipCompressor); ok {
			o.compressor = &GzipCompressor{Level: level}
		}
	})
}

// WithCompressor sets the Compressor used for compressing sitemap files.
// Setting it to nil while compression is enabled makes NewSitemapWriter fail with a MissingDependencyError.
// defaults to a gzip compressor
func WithCompressor(compressor Compressor) Option {
	return newFuncOption(func(o *sitemapWriterOptions) {
		o.compressor = compressor
	})
}

// WithStrictCompression sets if Close should return a CompressionError when one or more files could not be compressed.
// The index is written in both cases, but files that failed are left out of it.
// defaults to false
func WithStrictCompression(strict bool) Option {
	return newFuncOption(func(o *sitemapWriterOptions) {
		o.strictCompression = strict
	})
}

// WithPartFileName sets the file name of the first sitemap file. The following files
// get an underscore and a serial number inserted before the extension.
// defaults to "sitemap_part.xml"
func WithPartFileName(name string) Option {
	return newFuncOption(func(o *sitemapWriterOptions) {
		o.partFileName = name
	})
}

// WithClock sets the clock used for the lastmod value of the sitemap index entries.
// defaults to the system clock
func WithClock(clock clockwork.Clock) Option {
	return newFuncOption(func(o *sitemapWriterOptions) {
		o.clock = clock
	})
}

// WithLogger sets the logger.
// defaults to logrus.StandardLogger()
func WithLogger(logger logrus.FieldLogger) Option {
	return newFuncOption(func(o *sitemapWriterOptions) {
		o.logger = logger
	})
}
