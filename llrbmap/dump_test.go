// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package llrbmap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDumpBW(t *testing.T) {
	assert := assert.New(t)
	context := newTestContext(t)

	var buf bytes.Buffer

	err := context.llrbMap.DumpBW(&buf)
	assert.Nil(err)
	assert.Equal("", buf.String())

	context.putKeys(10, 20, 30)

	buf.Reset()
	err = context.llrbMap.DumpBW(&buf)
	assert.Nil(err)
	assert.Equal(" B\n BB\n", buf.String())

	context.putKeys(40)
	context.eraseKeys(10)

	buf.Reset()
	err = context.llrbMap.DumpBW(&buf)
	assert.Nil(err)
	assert.Equal(" B\n bB\n --R-\n", buf.String())

	context.eraseKeys(30)

	buf.Reset()
	err = context.llrbMap.DumpBW(&buf)
	assert.Nil(err)
	assert.Equal(" B\n bB\n --r-\n", buf.String())
}

func TestDumpLevels(t *testing.T) {
	assert := assert.New(t)
	context := newTestContext(t)

	context.putKeys(10, 20, 30, 40)

	var buf bytes.Buffer

	err := context.llrbMap.DumpLevels(&buf, 2, 0)
	assert.Nil(err)
	assert.Equal(" 20\n 10 40\n 30\n", buf.String())

	buf.Reset()
	err = context.llrbMap.DumpLevels(&buf, 2, '*')
	assert.Nil(err)
	assert.Equal(" 20\n 10 40\n  *  * 30  *\n", buf.String())

	buf.Reset()
	err = context.llrbMap.DumpLevels(&buf, 3, '.')
	assert.Nil(err)
	assert.Equal("  20\n  10  40\n   .   .  30   .\n", buf.String())

	singleDigitContext := newTestContext(t)
	singleDigitContext.putKeys(1, 2, 3)

	buf.Reset()
	err = singleDigitContext.llrbMap.DumpLevels(&buf, 1, 0)
	assert.Nil(err)
	assert.Equal(" 2\n 13\n", buf.String())
}

func TestDump(t *testing.T) {
	assert := assert.New(t)
	context := newTestContext(t)

	err := context.llrbMap.Dump()
	assert.Nil(err)

	context.putKeys(5, 3, 8, 1, 4, 7, 9, 2, 6)
	context.eraseKeys(4, 8)

	err = context.llrbMap.Dump()
	assert.Nil(err)
}

func TestFingerprint(t *testing.T) {
	assert := assert.New(t)

	ascendingContext := newTestContext(t)
	ascendingContext.putKeys(1, 2, 3, 4, 5, 6)

	descendingContext := newTestContext(t)
	descendingContext.putKeys(9, 6, 5, 4, 3, 2, 1)
	descendingContext.eraseKeys(9)

	ascendingFingerprint, err := ascendingContext.llrbMap.Fingerprint()
	assert.Nil(err)
	descendingFingerprint, err := descendingContext.llrbMap.Fingerprint()
	assert.Nil(err)
	assert.Equal(ascendingFingerprint, descendingFingerprint)

	ascendingStructuralFingerprint, err := ascendingContext.llrbMap.StructuralFingerprint()
	assert.Nil(err)
	descendingStructuralFingerprint, err := descendingContext.llrbMap.StructuralFingerprint()
	assert.Nil(err)
	assert.NotEqual(ascendingStructuralFingerprint, descendingStructuralFingerprint)

	// Rehash changes shape but never content
	err = descendingContext.llrbMap.Rehash()
	assert.Nil(err)
	descendingFingerprint, err = descendingContext.llrbMap.Fingerprint()
	assert.Nil(err)
	assert.Equal(ascendingFingerprint, descendingFingerprint)

	err = ascendingContext.llrbMap.Put(6, "six")
	assert.Nil(err)
	ascendingFingerprint, err = ascendingContext.llrbMap.Fingerprint()
	assert.Nil(err)
	assert.NotEqual(ascendingFingerprint, descendingFingerprint)
}
