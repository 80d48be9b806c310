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

package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLTextStripsMarkup(t *testing.T) {
	html := `<html><head><style>p{color:red}</style><script>var x=1;</script></head>` +
		`<body><p>Kot   goni</p><p>psa</p></body></html>`
	text, err := HTMLText(html, "", "")
	assert.NoError(t, err)
	assert.Equal(t, "Kot gonipsa", text)
}

func TestHTMLTextMarkers(t *testing.T) {
	html := `<div>intro</div><div id="art">Kot goni psa</div><div id="end">stopka</div>`
	text, err := HTMLText(html, `<div id="art">`, `<div id="end">`)
	assert.NoError(t, err)
	assert.Equal(t, "Kot goni psa", text)
}

func TestHTMLTextMarkersNotFound(t *testing.T) {
	html := `<p>Kot goni psa</p>`
	text, err := HTMLText(html, "<start>", "<end>")
	assert.NoError(t, err)
	assert.Equal(t, "Kot goni psa", text)
}

func TestCaptionText(t *testing.T) {
	vtt := "WEBVTT\n" +
		"\n" +
		"NOTE something\n" +
		"\n" +
		"1\n" +
		"00:00:01.000 --> 00:00:03.000\n" +
		"<c>Kot goni</c> psa\n" +
		"\n" +
		"2\n" +
		"00:00:03.000 --> 00:00:05.000\n" +
		"Kot goni psa\n" +
		"kot ucieka\n"
	assert.Equal(t, "Kot goni psa kot ucieka", CaptionText(vtt))
}

func TestCaptionTextCollapsesRepeats(t *testing.T) {
	vtt := "WEBVTT\n\nala\nala\nala\nma kota\n"
	assert.Equal(t, "ala ma kota", CaptionText(vtt))
}

func TestTextDispatch(t *testing.T) {
	text, err := Text("plain input", FormatPlain, "", "")
	assert.NoError(t, err)
	assert.Equal(t, "plain input", text)

	text, err = Text("<p>html input</p>", FormatHTML, "", "")
	assert.NoError(t, err)
	assert.Equal(t, "html input", text)

	_, err = Text("x", "pdf", "", "")
	assert.Error(t, err)
}
