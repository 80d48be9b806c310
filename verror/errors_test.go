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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPanicValueToErrFromError(t *testing.T) {
	err := PanicValueToErr(errors.New("something failed"))
	var rcv RecoveredError
	assert.ErrorAs(t, err, &rcv)
	assert.Contains(t, rcv.Msg, "something failed")
}

func TestPanicValueToErrFromString(t *testing.T) {
	err := PanicValueToErr("something failed")
	var rcv RecoveredError
	assert.ErrorAs(t, err, &rcv)
	assert.Contains(t, rcv.Msg, "something failed")
}

func TestPanicValueToErrFromOtherValue(t *testing.T) {
	err := PanicValueToErr(42)
	var rcv RecoveredError
	assert.ErrorAs(t, err, &rcv)
	assert.Contains(t, rcv.Msg, "int")
}
