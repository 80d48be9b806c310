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

package lemmatize

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"plvocab/verror"
)

func TestRegexTokenizerBasic(t *testing.T) {
	rt := &RegexTokenizer{}
	tokens, err := rt.Lemmatize(context.Background(), "doc1", "Kot goni psa, kot ucieka!")
	assert.NoError(t, err)
	forms := make([]string, len(tokens))
	for i, tok := range tokens {
		forms[i] = tok.Form
	}
	assert.Equal(t, []string{"kot", "goni", "psa", "kot", "ucieka"}, forms)
	assert.Equal(t, "kot", tokens[0].Lemma)
	assert.Equal(t, "doc1", tokens[0].DocID)
	assert.Equal(t, 3, tokens[3].Position)
}

func TestRegexTokenizerPolishDiacritics(t *testing.T) {
	rt := &RegexTokenizer{}
	tokens, err := rt.Lemmatize(context.Background(), "doc1", "Żółć gęślą jaźń")
	assert.NoError(t, err)
	assert.Len(t, tokens, 3)
	assert.Equal(t, "żółć", tokens[0].Form)
	assert.Equal(t, "gęślą", tokens[1].Form)
}

func TestRegexTokenizerEmptyInput(t *testing.T) {
	rt := &RegexTokenizer{}
	tokens, err := rt.Lemmatize(context.Background(), "doc1", "")
	assert.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestParseCoNLLU(t *testing.T) {
	data := "# newdoc\n" +
		"# sent_id = 1\n" +
		"1\tKoty\tkot\tNOUN\tsubst:pl:nom:m2\t_\t0\troot\t_\t_\n" +
		"2\tśpią\tspać\tVERB\tfin:pl:ter:imperf\t_\t1\tnsubj\t_\t_\n" +
		"\n" +
		"3-4\tdo niego\t_\t_\t_\t_\t_\t_\t_\t_\n" +
		"3\tdo\tdo\tADP\tprep:gen\t_\t2\tcase\t_\t_\n" +
		"4\tniego\ton\tPRON\tppron3\t_\t2\tobl\t_\t_\n"
	tokens := ParseCoNLLU(data, "doc1")
	assert.Len(t, tokens, 4)
	assert.Equal(t, "Koty", tokens[0].Form)
	assert.Equal(t, "kot", tokens[0].Lemma)
	assert.Equal(t, "NOUN", tokens[0].PoS)
	assert.Equal(t, "on", tokens[3].Lemma)
	assert.Equal(t, 3, tokens[3].Position)
}

func TestParseCoNLLUUnderscoreLemma(t *testing.T) {
	data := "1\tneologizm\t_\tX\t_\t_\t_\t_\t_\t_\n"
	tokens := ParseCoNLLU(data, "doc1")
	assert.Len(t, tokens, 1)
	assert.Equal(t, "neologizm", tokens[0].Lemma)
}

func TestNewLemmatizerFallsBackToRegex(t *testing.T) {
	lm := NewLemmatizer(&Conf{})
	_, ok := lm.(*RegexTokenizer)
	assert.True(t, ok)
}

func TestUDPipeClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// the server cancels req.Context() on client disconnect only
		// after the request body has been consumed; without this drain
		// the handler never unblocks and srv.Close() deadlocks
		io.Copy(io.Discard, req.Body)
		<-req.Context().Done()
	}))
	defer srv.Close()
	uc := newUDPipeClient(&Conf{ServiceURL: srv.URL, RequestTimeoutSecs: 1})
	_, err := uc.Lemmatize(context.Background(), "doc1", "Kot goni psa.")
	assert.ErrorAs(t, err, &verror.TimeoutError{})
}
