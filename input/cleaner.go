// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//   This file is part of PLVOCAB.
//
//  PLVOCAB is free software: you can redistribute it and/or modify
//  it under the terms of the GNU General Public License as published by
//  the Free Software Foundation, either version 3 of the License, or
//  (at your option) any later version.
//
//  PLVOCAB is distributed in the hope that it will be useful,
//  but WITHOUT ANY WARRANTY; without even the implied warranty of
//  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
//  GNU General Public License for more details.
//
//  You should have received a copy of the GNU General Public License
//  along with PLVOCAB.  If not, see <https://www.gnu.org/licenses/>.

// Package input prepares raw document sources (HTML pages, WebVTT
// captions, plain text) for the tokenizer.
package input

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	FormatPlain = "plain"
	FormatHTML  = "html"
	FormatVTT   = "vtt"
)

var wsRegexp = regexp.MustCompile(`\s+`)

// HTMLText strips markup from an HTML document and returns its
// visible text with whitespace squashed. When both startMarker
// and endMarker are non-empty and found in the raw source, only
// the part between them is considered; this mirrors the common
// case of cutting a single article out of a full page.
func HTMLText(html, startMarker, endMarker string) (string, error) {
	if startMarker != "" && endMarker != "" {
		startIdx := strings.Index(html, startMarker)
		searchFrom := 0
		if startIdx != -1 {
			searchFrom = startIdx
		}
		endIdx := strings.Index(html[searchFrom:], endMarker)
		if startIdx != -1 && endIdx != -1 {
			html = html[startIdx : searchFrom+endIdx]
		}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML input: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	return wsRegexp.ReplaceAllString(strings.TrimSpace(doc.Text()), " "), nil
}

// Text normalizes a document of the specified format to plain
// text suitable for tokenization.
func Text(data, format, startMarker, endMarker string) (string, error) {
	switch format {
	case FormatHTML:
		return HTMLText(data, startMarker, endMarker)
	case FormatVTT:
		return CaptionText(data), nil
	case FormatPlain, "":
		return data, nil
	default:
		return "", fmt.Errorf("unknown input format: %s", format)
	}
}
