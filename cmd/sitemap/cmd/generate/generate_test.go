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

package generate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConf(t *testing.T, urls string) *conf {
	dir := t.TempDir()
	input := filepath.Join(dir, "urls.txt")
	require.NoError(t, os.WriteFile(input, []byte(urls), 0644))
	return &conf{
		siteURL:          "https://example.com",
		workDir:          filepath.Join(dir, "public"),
		indexFile:        "sitemap.xml",
		input:            input,
		partFile:         "sitemap_part.xml",
		maxURLs:          2,
		bufferSize:       10,
		compressionLevel: -1,
		watchDelay:       time.Second,
	}
}

func TestGenerate(t *testing.T) {
	assert := assert.New(t)
	c := testConf(t, "/a\n/b 2021-01-02 daily 0.5\n/c\n")
	c.robots = true

	require.NoError(t, generate(c))

	assert.FileExists(filepath.Join(c.workDir, "sitemap_part.xml"))
	assert.FileExists(filepath.Join(c.workDir, "sitemap_part_2.xml"))
	index, err := os.ReadFile(filepath.Join(c.workDir, "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(string(index), "<loc>https://example.com/sitemap_part.xml</loc>")
	assert.Contains(string(index), "<loc>https://example.com/sitemap_part_2.xml</loc>")

	robots, err := os.ReadFile(filepath.Join(c.workDir, "robots.txt"))
	require.NoError(t, err)
	assert.Equal("Sitemap: https://example.com/sitemap.xml\n", string(robots))
}

func TestGenerate_gzip(t *testing.T) {
	assert := assert.New(t)
	c := testConf(t, "/a\n")
	c.gzip = true

	require.NoError(t, generate(c))
	assert.FileExists(filepath.Join(c.workDir, "sitemap_part.xml.gz"))
	assert.NoFileExists(filepath.Join(c.workDir, "sitemap_part.xml"))
}

func TestGenerate_invalidInput(t *testing.T) {
	assert := assert.New(t)
	c := testConf(t, "/a\n/b - sometimes\n")

	err := generate(c)
	if assert.Error(err) {
		assert.Contains(err.Error(), "line 2")
	}
	assert.NoFileExists(filepath.Join(c.workDir, "sitemap.xml"))
	assert.NoFileExists(filepath.Join(c.workDir, "sitemap_part.xml"))
}

func TestGenerate_invalidInputKeepsPreviousSitemap(t *testing.T) {
	assert := assert.New(t)
	c := testConf(t, "/a\n/b\n/c\n")
	require.NoError(t, generate(c))

	part := filepath.Join(c.workDir, "sitemap_part.xml")
	index := filepath.Join(c.workDir, "sitemap.xml")
	wantPart, err := os.ReadFile(part)
	require.NoError(t, err)
	wantIndex, err := os.ReadFile(index)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(c.input, []byte("/a\n/b - - 2\n"), 0644))
	assert.Error(generate(c))

	gotPart, err := os.ReadFile(part)
	require.NoError(t, err)
	assert.Equal(wantPart, gotPart)
	gotIndex, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Equal(wantIndex, gotIndex)
	assert.FileExists(filepath.Join(c.workDir, "sitemap_part_2.xml"))
}

func TestGenerate_missingInput(t *testing.T) {
	c := testConf(t, "")
	c.input = filepath.Join(t.TempDir(), "missing.txt")
	assert.Error(t, generate(c))
}

func TestWatch(t *testing.T) {
	c := testConf(t, "/a\n")
	require.NoError(t, generate(c))

	ctx, cancel := context.WithCancel(context.Background())
	clock := clockwork.NewFakeClock()
	done := make(chan error)
	go func() { done <- watch(ctx, c, clock) }()

	// Keep changing the input until the watcher has seen it and started the delay timer
	require.Eventually(t, func() bool {
		if err := os.WriteFile(c.input, []byte("/a\n/changed\n"), 0644); err != nil {
			return false
		}
		bctx, bcancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer bcancel()
		return clock.BlockUntilContext(bctx, 1) == nil
	}, 5*time.Second, 50*time.Millisecond)

	clock.Advance(c.watchDelay)
	assert.Eventually(t, func() bool {
		b, err := os.ReadFile(filepath.Join(c.workDir, "sitemap_part.xml"))
		return err == nil && strings.Contains(string(b), "https://example.com/changed")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

