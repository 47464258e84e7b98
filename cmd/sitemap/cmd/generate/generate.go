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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/nlnwa/gositemap"
	"github.com/nlnwa/gositemap/pkg/robots"
	"github.com/nlnwa/gositemap/pkg/urllist"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type conf struct {
	siteURL           string
	workDir           string
	indexFile         string
	input             string
	partFile          string
	maxURLs           int
	bufferSize        int
	maxFileSize       int64
	gzip              bool
	compressionLevel  int
	strictCompression bool
	robots            bool
	watch             bool
	watchDelay        time.Duration
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate sitemap files and a sitemap index from a list of URLs",
		Long: `Generate sitemap files and a sitemap index from a list of URLs.

The list has one URL per line with up to four whitespace separated fields:

  location [lastmod [changefreq [priority]]]

Use - to leave an optional field unset. Lines starting with # are ignored.

An input file is checked before any sitemap file is replaced, so a list with errors
leaves the previous sitemap in place. Input read from stdin can't be checked in advance.
If it has errors, uncompressed sitemap files from an earlier run may already be removed.`,
		Example: `  sitemap generate --site-url https://example.com --work-dir public --input urls.txt`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &conf{
				siteURL:           viper.GetString("site-url"),
				workDir:           viper.GetString("work-dir"),
				indexFile:         viper.GetString("index-file"),
				input:             viper.GetString("input"),
				partFile:          viper.GetString("part-file"),
				maxURLs:           viper.GetInt("max-urls"),
				bufferSize:        viper.GetInt("buffer-size"),
				maxFileSize:       int64(viper.GetSizeInBytes("max-file-size")),
				gzip:              viper.GetBool("gzip"),
				compressionLevel:  viper.GetInt("compression-level"),
				strictCompression: viper.GetBool("strict-compression"),
				robots:            viper.GetBool("robots"),
				watch:             viper.GetBool("watch"),
				watchDelay:        viper.GetDuration("watch-delay"),
			}
			if c.siteURL == "" {
				return errors.New("missing site url, use --site-url")
			}
			if c.watch && c.input == "-" {
				return errors.New("--watch needs an input file")
			}
			return runE(cmd.Context(), c)
		},
	}

	cmd.Flags().StringP("site-url", "u", "", "absolute url of the site, prepended to every location")
	cmd.Flags().StringP("work-dir", "w", ".", "directory to write sitemap files to")
	cmd.Flags().StringP("index-file", "", "sitemap.xml", "file name of the sitemap index")
	cmd.Flags().StringP("input", "i", "-", "file with urls to add, - reads from stdin")
	cmd.Flags().StringP("part-file", "", gositemap.DefaultPartFileName, "file name of the first sitemap file")
	cmd.Flags().IntP("max-urls", "", gositemap.DefaultMaxURLs, "max number of urls in one sitemap file")
	cmd.Flags().IntP("buffer-size", "", gositemap.DefaultBufferSize, "number of urls kept in memory before writing to disk")
	cmd.Flags().StringP("max-file-size", "", "50MB", "max uncompressed size of one sitemap file, 0 disables the limit")
	cmd.Flags().BoolP("gzip", "z", true, "gzip compress sitemap files")
	cmd.Flags().IntP("compression-level", "", -1, "gzip compression level, -1 is the default level")
	cmd.Flags().BoolP("strict-compression", "", false, "fail if a sitemap file could not be compressed")
	cmd.Flags().BoolP("robots", "", false, "add the sitemap index to robots.txt in the work dir")
	cmd.Flags().BoolP("watch", "", false, "regenerate when the input file changes")
	cmd.Flags().DurationP("watch-delay", "", time.Second, "time to wait for more changes before regenerating")

	return cmd
}

func runE(ctx context.Context, c *conf) error {
	if err := generate(c); err != nil {
		return err
	}
	if !c.watch {
		return nil
	}
	return watch(ctx, c, clockwork.NewRealClock())
}

func (c *conf) writerOptions() []gositemap.Option {
	return []gositemap.Option{
		gositemap.WithMaxURLs(c.maxURLs),
		gositemap.WithBufferSize(c.bufferSize),
		gositemap.WithMaxFileSize(c.maxFileSize),
		gositemap.WithCompression(c.gzip),
		gositemap.WithCompressionLevel(c.compressionLevel),
		gositemap.WithStrictCompression(c.strictCompression),
		gositemap.WithPartFileName(c.partFile),
		gositemap.WithLogger(log.StandardLogger()),
	}
}

// generate writes the sitemap for the urls in the configured input.
func generate(c *conf) error {
	var in io.Reader = os.Stdin
	if c.input != "-" {
		f, err := os.Open(c.input)
		if err != nil {
			return err
		}
		defer f.Close()

		// Check the whole list before existing sitemap files are replaced
		if _, err := urllist.Validate(f); err != nil {
			return fmt.Errorf("%s: %w", c.input, err)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}
		in = f
	}

	if err := os.MkdirAll(c.workDir, 0755); err != nil {
		return err
	}

	start := time.Now()
	w, err := gositemap.NewSitemapWriter(c.siteURL, c.workDir, c.indexFile, c.writerOptions()...)
	if err != nil {
		return err
	}

	count, err := urllist.AddAll(w, in)
	if err != nil {
		for _, path := range w.FilePaths() {
			_ = os.Remove(path)
		}
		return fmt.Errorf("%s: %w", c.input, err)
	}
	if err := w.Close(); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"urls":  count,
		"files": len(w.FilePaths()),
		"index": w.IndexPath(),
	}).Infof("generated sitemap in %v", time.Since(start).Round(time.Millisecond))

	if c.robots {
		sitemapURL := strings.TrimSuffix(c.siteURL, "/") + "/" + c.indexFile
		changed, err := robots.EnsureSitemap(filepath.Join(c.workDir, "robots.txt"), sitemapURL)
		if err != nil {
			return err
		}
		if changed {
			log.Infof("added %s to robots.txt", sitemapURL)
		}
	}
	return nil
}

// watch regenerates the sitemap each time the input file changes until ctx is cancelled.
// Changes are collected until no new change is seen for the configured delay.
func watch(ctx context.Context, c *conf, clock clockwork.Clock) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory since editors often replace the file instead of writing to it
	input := filepath.Clean(c.input)
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return err
	}
	log.Infof("watching %s for changes", input)

	var timer clockwork.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != input || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debugf("%s: %v", event.Name, event.Op)
			if timer == nil {
				timer = clock.NewTimer(c.watchDelay)
			} else {
				timer.Reset(c.watchDelay)
			}
			fire = timer.Chan()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("watch error: %v", err)
		case <-fire:
			fire = nil
			if err := generate(c); err != nil {
				log.Errorf("could not regenerate sitemap: %v", err)
			}
		}
	}
}
