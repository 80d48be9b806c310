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

// Package cnf loads and validates the application configuration.
// Both JSON and YAML files are accepted, decided by the file
// extension.
package cnf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"plvocab/export"
	"plvocab/freqdict"
	"plvocab/gloss"
	"plvocab/lemmatize"
	"plvocab/pipeline"
	"plvocab/rdb"
)

const (
	dfltServerWriteTimeoutSecs = 30
	dfltTimeZone               = "Europe/Prague"
)

// Conf is a global configuration of the app
type Conf struct {
	ListenAddress          string           `json:"listenAddress" yaml:"listenAddress"`
	PublicURL              string           `json:"publicUrl" yaml:"publicUrl"`
	ListenPort             int              `json:"listenPort" yaml:"listenPort"`
	ServerReadTimeoutSecs  int              `json:"serverReadTimeoutSecs" yaml:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int              `json:"serverWriteTimeoutSecs" yaml:"serverWriteTimeoutSecs"`
	CorsAllowedOrigins     []string         `json:"corsAllowedOrigins" yaml:"corsAllowedOrigins"`
	Redis                  *rdb.Conf        `json:"redis" yaml:"redis"`
	LogFile                string           `json:"logFile" yaml:"logFile"`
	LogLevel               logging.LogLevel `json:"logLevel" yaml:"logLevel"`
	TimeZone               string           `json:"timeZone" yaml:"timeZone"`
	AuthHeaderName         string           `json:"authHeaderName" yaml:"authHeaderName"`
	AuthTokens             []string         `json:"authTokens" yaml:"authTokens"`

	// WorkerStatusListenPort, when set, makes each worker
	// process expose its job statistics via a small HTTP server
	// on the listen address.
	WorkerStatusListenPort int `json:"workerStatusListenPort,omitempty" yaml:"workerStatusListenPort,omitempty"`

	Extraction *pipeline.Conf  `json:"extraction" yaml:"extraction"`
	Lemmatizer *lemmatize.Conf `json:"lemmatizer" yaml:"lemmatizer"`
	FreqDict   *freqdict.Conf  `json:"freqDict" yaml:"freqDict"`
	Gloss      *gloss.Conf     `json:"gloss" yaml:"gloss"`
	Export     *export.Conf    `json:"export" yaml:"export"`

	srcPath string
}

func (conf *Conf) IsDebugMode() bool {
	return conf.LogLevel == "debug"
}

func (conf *Conf) TimezoneLocation() *time.Location {
	// the error can be ignored here as ValidateAndDefaults
	// already tried to load the location
	loc, _ := time.LoadLocation(conf.TimeZone)
	return loc
}

// GetSourcePath returns an absolute path of a file
// the config was loaded from.
func (conf *Conf) GetSourcePath() string {
	if filepath.IsAbs(conf.srcPath) {
		return conf.srcPath
	}
	var cwd string
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "[failed to get working dir]"
	}
	return filepath.Join(cwd, conf.srcPath)
}

func LoadConfig(path string) *Conf {
	if path == "" {
		log.Fatal().Msg("Cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	var conf Conf
	conf.srcPath = path
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(rawData, &conf)
	default:
		err = json.Unmarshal(rawData, &conf)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	return &conf
}

func ValidateAndDefaults(conf *Conf) {
	if conf.ServerWriteTimeoutSecs == 0 {
		conf.ServerWriteTimeoutSecs = dfltServerWriteTimeoutSecs
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default: %d",
			dfltServerWriteTimeoutSecs,
		)
	}
	if conf.PublicURL == "" {
		conf.PublicURL = fmt.Sprintf("http://%s", conf.ListenAddress)
		log.Warn().Str("address", conf.PublicURL).Msg("publicUrl not set, using listenAddress")
	}
	if conf.Redis == nil {
		log.Fatal().Msg("missing Redis configuration")
		return
	}
	if conf.Extraction == nil {
		conf.Extraction = &pipeline.Conf{}
		log.Warn().Msg("extraction not specified, using defaults")
	}
	if err := conf.Extraction.ValidateAndDefaults(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if conf.Lemmatizer == nil {
		conf.Lemmatizer = &lemmatize.Conf{}
		log.Warn().Msg("lemmatizer not specified, a regex tokenizer will be used")
	}
	if err := conf.Lemmatizer.ValidateAndDefaults(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if conf.FreqDict == nil {
		log.Fatal().Msg("missing freqDict configuration")
		return
	}
	if err := conf.FreqDict.ValidateAndDefaults(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if conf.Gloss != nil {
		if err := conf.Gloss.ValidateAndDefaults(); err != nil {
			log.Fatal().Err(err).Msg("invalid configuration")
		}
	}
	if conf.Export != nil {
		if err := conf.Export.ValidateAndDefaults(); err != nil {
			log.Fatal().Err(err).Msg("invalid configuration")
		}
	}
	if conf.TimeZone == "" {
		conf.TimeZone = dfltTimeZone
		log.Warn().
			Str("timeZone", dfltTimeZone).
			Msg("time zone not specified, using default")
	}
	if _, err := time.LoadLocation(conf.TimeZone); err != nil {
		log.Fatal().Err(err).Msg("invalid time zone")
	}
}
