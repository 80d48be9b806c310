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

// Package lemmatize defines the tokenizer/lemmatizer boundary.
// The external lemmatizer is a potentially slow and error-prone
// oracle; its output is consumed as-is and never corrected.
package lemmatize

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"plvocab/vocab"
)

// Lemmatizer turns raw document text into an ordered token
// sequence with lemmas attached.
type Lemmatizer interface {
	Lemmatize(ctx context.Context, docID, text string) ([]vocab.Token, error)
}

type Conf struct {
	// ServiceURL points to a UDPipe-compatible REST service; when
	// empty, the regex fallback tokenizer is used (identity
	// lemmas).
	ServiceURL string `json:"serviceUrl" yaml:"serviceUrl"`

	// Model is the UDPipe model name (e.g. `polish-pdb-ud`);
	// empty value lets the service pick its default.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	RequestTimeoutSecs int `json:"requestTimeoutSecs" yaml:"requestTimeoutSecs"`
}

func (conf *Conf) ValidateAndDefaults() error {
	if conf.RequestTimeoutSecs == 0 {
		conf.RequestTimeoutSecs = dfltRequestTimeoutSecs
		log.Warn().
			Int("value", conf.RequestTimeoutSecs).
			Msg("lemmatizer.requestTimeoutSecs not specified, using default")
	}
	return nil
}

// NewLemmatizer instantiates the configured boundary client. The
// instance is created once per process and reused for all the
// documents of a run (the remote service pays a model-loading
// cost on first use).
func NewLemmatizer(conf *Conf) Lemmatizer {
	if conf == nil || conf.ServiceURL == "" {
		log.Warn().Msg("lemmatizer service not configured, using regex tokenizer with identity lemmas")
		return &RegexTokenizer{}
	}
	return newUDPipeClient(conf)
}

// ------------------------------

var wordRegexp = regexp.MustCompile(`(?i)[0-9a-ząćęłńóśźż]+`)

// RegexTokenizer is a fallback producing lowercased word tokens
// over the Polish alphabet with the surface form reused as lemma.
// No lemma grouping happens beyond exact (case-folded) match.
type RegexTokenizer struct{}

func (rt *RegexTokenizer) Lemmatize(ctx context.Context, docID, text string) ([]vocab.Token, error) {
	words := wordRegexp.FindAllString(strings.ToLower(text), -1)
	ans := make([]vocab.Token, len(words))
	for i, w := range words {
		ans[i] = vocab.Token{
			Form:     w,
			Lemma:    w,
			Position: i,
			DocID:    docID,
		}
	}
	return ans, nil
}
