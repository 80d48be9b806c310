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

package verror

import (
	"encoding/json"
	"fmt"
)

// InputError covers malformed or empty document input
// (e.g. an attempt to score a zero-token document). It is
// never retried; the affected document is skipped and the
// batch continues.
type InputError struct {
	Msg string
}

func (err InputError) Error() string {
	return err.Msg
}

func (err InputError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// ----------------------------

// StateError signals that a persisted dedup-state store was
// unreadable or corrupt. The run may proceed with an empty
// in-memory key set but the persisted artifact must never be
// overwritten in reaction to this error.
type StateError struct {
	Msg string
}

func (err StateError) Error() string {
	return err.Msg
}

func (err StateError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// ----------------------------

// LookupError covers failures of external lookup services
// (global frequency source, gloss/translation). Callers degrade
// to a sentinel value; this error never aborts a run.
type LookupError struct {
	Msg string
}

func (err LookupError) Error() string {
	return err.Msg
}

func (err LookupError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// ---------------------------

type InternalError struct {
	Msg string
}

func (err InternalError) Error() string {
	return err.Msg
}

func (err InternalError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// ---------------------------

type RecoveredError struct {
	Msg string
}

func (err RecoveredError) Error() string {
	return err.Msg
}

func (err RecoveredError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// ---------------------------

type TimeoutError struct {
	Msg string
}

func (err TimeoutError) Error() string {
	return err.Msg
}

func (err TimeoutError) MarshalJSON() ([]byte, error) {
	if err.Msg != "" {
		return json.Marshal(err.Msg)
	}
	return json.Marshal(nil)
}

// -----------------

// PanicValueToErr converts a recovered panic value into a
// RecoveredError so callers can match it with errors.As.
func PanicValueToErr(v any) (err error) {
	switch tr := v.(type) {
	case error:
		err = RecoveredError{Msg: fmt.Sprintf("recovered panic: %s", tr)}
	case string:
		err = RecoveredError{Msg: fmt.Sprintf("recovered panic: %s", tr)}
	default:
		err = RecoveredError{Msg: fmt.Sprintf("recovered panic from a value of type %T", v)}
	}
	return
}
