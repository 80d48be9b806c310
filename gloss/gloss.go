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

// Package gloss provides best-effort translations for exported
// vocabulary items. The remote service is a side augmentation:
// it must never block or fail the ranking pipeline, so each call
// is bounded by a timeout, rate-limited, and guarded by a
// circuit breaker. On any failure the gloss degrades to an empty
// value.
package gloss

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/czcorpus/cnc-gokit/httpclient"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	dfltRequestTimeoutSecs = 5
	dfltMaxReqPerSec       = 10
	idleConnTimeoutSecs    = 60
	breakerMaxFails        = 5
	breakerOpenTimeout     = 30 * time.Second
)

type Conf struct {
	// ServiceURL points to a translation service accepting
	// `q`, `src` and `dst` URL arguments and answering with
	// a JSON object containing a `translation` attribute.
	// An empty value disables glossing entirely.
	ServiceURL string `json:"serviceUrl" yaml:"serviceUrl"`

	SrcLang string `json:"srcLang" yaml:"srcLang"`
	DstLang string `json:"dstLang" yaml:"dstLang"`

	RequestTimeoutSecs int `json:"requestTimeoutSecs" yaml:"requestTimeoutSecs"`
	MaxReqPerSec       int `json:"maxReqPerSec" yaml:"maxReqPerSec"`
}

func (conf *Conf) ValidateAndDefaults() error {
	if conf.ServiceURL == "" {
		return nil
	}
	if conf.RequestTimeoutSecs == 0 {
		conf.RequestTimeoutSecs = dfltRequestTimeoutSecs
		log.Warn().
			Int("value", conf.RequestTimeoutSecs).
			Msg("gloss.requestTimeoutSecs not specified, using default")
	}
	if conf.MaxReqPerSec == 0 {
		conf.MaxReqPerSec = dfltMaxReqPerSec
	}
	if conf.SrcLang == "" {
		conf.SrcLang = "pl"
	}
	if conf.DstLang == "" {
		conf.DstLang = "en"
	}
	return nil
}

// Provider returns a gloss (translation or short definition) for
// a lemma, or an empty string when none is available.
type Provider interface {
	Gloss(ctx context.Context, lemma string) string
}

// Null is used when no gloss service is configured.
type Null struct{}

func (n Null) Gloss(ctx context.Context, lemma string) string {
	return ""
}

// ------------------------------

type Client struct {
	conf    *Conf
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
	limiter *rate.Limiter
}

type glossResponse struct {
	Translation string `json:"translation"`
}

func (c *Client) fetch(ctx context.Context, lemma string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.conf.ServiceURL, nil)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Add("q", lemma)
	q.Add("src", c.conf.SrcLang)
	q.Add("dst", c.conf.DstLang)
	req.URL.RawQuery = q.Encode()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gloss service failed with status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var data glossResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", err
	}
	return strings.TrimSpace(data.Translation), nil
}

// Gloss asks the remote service for a translation. Rate limit
// overruns, timeouts, an open breaker and any transport error
// all degrade to an empty gloss; the failure is logged and the
// pipeline goes on.
func (c *Client) Gloss(ctx context.Context, lemma string) string {
	ctx, cancel := context.WithTimeout(
		ctx, time.Duration(c.conf.RequestTimeoutSecs)*time.Second)
	defer cancel()
	if err := c.limiter.Wait(ctx); err != nil {
		log.Warn().Err(err).Str("lemma", lemma).Msg("gloss lookup dropped")
		return ""
	}
	ans, err := c.breaker.Execute(func() (string, error) {
		return c.fetch(ctx, lemma)
	})
	if err != nil {
		log.Warn().Err(err).Str("lemma", lemma).Msg("gloss lookup failed")
		return ""
	}
	return ans
}

// NewProvider instantiates the configured gloss boundary, or the
// Null provider when no service is set up.
func NewProvider(conf *Conf) Provider {
	if conf == nil || conf.ServiceURL == "" {
		log.Info().Msg("gloss service not specified - exported rows will have no translations")
		return Null{}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = httpclient.TransportMaxIdleConns
	transport.MaxConnsPerHost = httpclient.TransportMaxConnsPerHost
	transport.MaxIdleConnsPerHost = httpclient.TransportMaxIdleConnsPerHost
	transport.IdleConnTimeout = idleConnTimeoutSecs * time.Second
	return &Client{
		conf: conf,
		client: &http.Client{
			Timeout:   time.Duration(conf.RequestTimeoutSecs) * time.Second,
			Transport: transport,
		},
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:    "gloss",
			Timeout: breakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerMaxFails
			},
		}),
		limiter: rate.NewLimiter(rate.Limit(conf.MaxReqPerSec), conf.MaxReqPerSec),
	}
}
