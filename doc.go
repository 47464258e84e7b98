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

/*
Package gositemap writes sitemaps as defined by the sitemaps.org protocol.

# Sitemaps

A sitemap is an XML file listing the URLs of a site together with optional metadata about each URL:
when it was last modified, how often it is likely to change and its priority relative to other URLs on the site.
A single sitemap file may hold at most 50,000 URLs and be at most 50MB uncompressed. Larger sites are split
into several sitemap files which are listed in a sitemap index file.

To learn more about the protocol, read https://www.sitemaps.org/protocol.html

# Write sitemaps

The [SitemapWriter] is used to write sitemaps. It is initialized with [NewSitemapWriter]. URLs are added with
[SitemapWriter.AddURL]. The writer keeps a limited number of URLs in memory and appends them to the current sitemap
file as it goes. When the current file is full, it is finished and a new file is started.

[SitemapWriter.Close] finishes the last file, compresses all files with gzip (unless disabled with
[WithCompression]) and writes the sitemap index.

Single files can be compressed with [CompressFile].
*/
package gositemap
