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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/czcorpus/cnc-gokit/httpclient"

	"plvocab/verror"
	"plvocab/vocab"
)

const (
	dfltRequestTimeoutSecs = 60
	idleConnTimeoutSecs    = 60
)

// udpipeClient talks to a UDPipe REST service (`/process`
// endpoint) and parses its CoNLL-U output into tokens.
type udpipeClient struct {
	conf   *Conf
	client *http.Client
}

func newUDPipeClient(conf *Conf) *udpipeClient {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = httpclient.TransportMaxIdleConns
	transport.MaxConnsPerHost = httpclient.TransportMaxConnsPerHost
	transport.MaxIdleConnsPerHost = httpclient.TransportMaxIdleConnsPerHost
	transport.IdleConnTimeout = idleConnTimeoutSecs * time.Second
	return &udpipeClient{
		conf: conf,
		client: &http.Client{
			Timeout:   time.Duration(conf.RequestTimeoutSecs) * time.Second,
			Transport: transport,
		},
	}
}

type udpipeResponse struct {
	Model  string `json:"model"`
	Result string `json:"result"`
}

func (uc *udpipeClient) Lemmatize(ctx context.Context, docID, text string) ([]vocab.Token, error) {
	form := url.Values{}
	form.Set("tokenizer", "")
	form.Set("tagger", "")
	form.Set("data", text)
	if uc.conf.Model != "" {
		form.Set("model", uc.conf.Model)
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		strings.TrimSuffix(uc.conf.ServiceURL, "/")+"/process",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := uc.client.Do(req)
	if err != nil {
		if os.IsTimeout(err) {
			return nil, verror.TimeoutError{
				Msg: fmt.Sprintf("lemmatizer service timed out: %s", err)}
		}
		return nil, verror.LookupError{Msg: fmt.Sprintf("lemmatizer service failed: %s", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, verror.LookupError{
			Msg: fmt.Sprintf("lemmatizer service failed with status %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, verror.LookupError{Msg: fmt.Sprintf("lemmatizer service failed: %s", err)}
	}
	var data udpipeResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, verror.LookupError{
			Msg: fmt.Sprintf("failed to decode lemmatizer response: %s", err)}
	}
	return ParseCoNLLU(data.Result, docID), nil
}

// ParseCoNLLU extracts (form, lemma, pos) tuples from CoNLL-U
// text. Comment lines, multiword ranges (`1-2`) and empty nodes
// (`1.1`) are skipped; an underscore lemma falls back to the
// surface form.
func ParseCoNLLU(data, docID string) []vocab.Token {
	var ans []vocab.Token
	for _, line := range strings.Split(data, "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 4 {
			continue
		}
		if strings.ContainsAny(cols[0], "-.") {
			continue
		}
		form := cols[1]
		lemma := cols[2]
		if lemma == "_" {
			lemma = form
		}
		ans = append(ans, vocab.Token{
			Form:     form,
			Lemma:    lemma,
			PoS:      cols[3],
			Position: len(ans),
			DocID:    docID,
		})
	}
	return ans
}
