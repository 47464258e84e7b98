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
	"errors"
	"fmt"
	"strings"
)

// ErrClosed is returned when Close is called on a SitemapWriter that is already closed.
var ErrClosed = errors.New("gositemap: sitemap writer is closed")

// ConfigError is used when a SitemapWriter can't be created because of invalid configuration
type ConfigError struct {
	msg     string
	wrapped error
}

func newConfigErrorf(msg string, param ...interface{}) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(msg, param...)}
}

func newWrappedConfigError(msg string, wrapped error) *ConfigError {
	return &ConfigError{msg: msg, wrapped: wrapped}
}

func (e *ConfigError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("gositemap: invalid configuration: %s: %v", e.msg, e.wrapped)
	}
	return fmt.Sprintf("gositemap: invalid configuration: %s", e.msg)
}

func (e *ConfigError) Unwrap() error {
	return e.wrapped
}

// MissingDependencyError is used when compression is requested, but no compressor is available
type MissingDependencyError struct {
	name string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("gositemap: missing dependency: %s", e.name)
}

// ArgumentError is used for invalid values passed when adding a URL
type ArgumentError struct {
	field string
	value string
	msg   string
}

func newArgumentError(field, value, msg string) *ArgumentError {
	return &ArgumentError{field: field, value: value, msg: msg}
}

// Field returns the name of the offending argument.
func (e *ArgumentError) Field() string {
	return e.field
}

func (e *ArgumentError) Error() string {
	if e.value != "" {
		return fmt.Sprintf("gositemap: invalid %s '%s': %s", e.field, e.value, e.msg)
	}
	return fmt.Sprintf("gositemap: invalid %s: %s", e.field, e.msg)
}

// IOError is used when a sitemap file could not be written
type IOError struct {
	op      string
	path    string
	wrapped error
}

func newIOError(op, path string, wrapped error) *IOError {
	return &IOError{op: op, path: path, wrapped: wrapped}
}

// Path returns the path of the file that failed.
func (e *IOError) Path() string {
	return e.path
}

func (e *IOError) Error() string {
	return fmt.Sprintf("gositemap: failed to %s %s: %v", e.op, e.path, e.wrapped)
}

func (e *IOError) Unwrap() error {
	return e.wrapped
}

// CompressionError is used when one or more sitemap files could not be compressed
type CompressionError struct {
	files []string
	errs  multiErr
}

func (e *CompressionError) add(file string, err error) {
	e.files = append(e.files, file)
	e.errs = append(e.errs, err)
}

// Files returns the paths of the files that could not be compressed.
func (e *CompressionError) Files() []string {
	return e.files
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("gositemap: failed to compress %d file(s): %v", len(e.files), e.errs)
}

func (e *CompressionError) Unwrap() []error {
	return e.errs
}

type multiErr []error

func (e multiErr) Error() string {
	switch len(e) {

	case 0:
		return ""

	case 1:
		return e[0].Error()
	}

	const (
		start = "["
		sep   = ", "
		end   = "]"
	)

	n := len(start) + len(end) + (len(sep) * (len(e) - 1))
	for i := 0; i < len(e); i++ {
		n += len(e[i].Error())
	}

	var b strings.Builder
	b.Grow(n)
	b.WriteString(start)
	b.WriteString(e[0].Error())
	for _, s := range e[1:] {
		b.WriteString(sep)
		b.WriteString(s.Error())
	}
	b.WriteString(end)
	return b.String()
}
