// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package blunder

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestValues(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(int(unix.ENOMEM), OutOfMemoryError.Value())
	assert.Equal(int(unix.EINVAL), InvalidArgError.Value())
	assert.Equal(int(unix.ENOENT), NotFoundError.Value())
	assert.Equal(1000, InvariantViolationError.Value())
	assert.Equal(1001, CorruptIteratorError.Value())

	assert.Equal(InvalidArgError, CompareError)
	assert.Equal(OutOfMemoryError, NodeBudgetError)

	assert.Equal("OutOfMemoryError", OutOfMemoryError.String())
	assert.Equal("InvariantViolationError", InvariantViolationError.String())
	assert.Equal("MapError(4242)", MapError(4242).String())
}

func TestDefaultErrno(t *testing.T) {
	assert := assert.New(t)

	var err error

	assert.Equal(successErrno, Errno(err))
	assert.True(IsSuccess(err))
	assert.False(IsNotSuccess(err))
	assert.Equal("", ErrorString(err))

	err = fmt.Errorf("This is an ordinary error")

	assert.Equal(failureErrno, Errno(err))
	assert.False(IsSuccess(err))
	assert.True(IsNotSuccess(err))
	assert.False(hasErrnoValue(err))

	err = AddError(err, InvalidArgError)

	assert.Equal(InvalidArgError.Value(), Errno(err))
	assert.True(hasErrnoValue(err))
	assert.True(Is(err, InvalidArgError))
	assert.True(Is(err, CompareError))
	assert.True(IsNot(err, OutOfMemoryError))
}

func TestAddValue(t *testing.T) {
	assert := assert.New(t)

	var err error

	// Adding a value to a nil error still yields a non-nil error
	err = AddError(err, OutOfMemoryError)
	assert.NotNil(err)
	assert.True(Is(err, OutOfMemoryError))
	assert.False(Is(err, NotFoundError))
	assert.True(IsNotSuccess(err))

	err = fmt.Errorf("This is an ordinary error")
	err = AddError(err, NotFoundError)
	assert.True(Is(err, NotFoundError))
	assert.True(strings.HasPrefix(err.Error(), "This is an ordinary error"))

	// Replacing a value is permitted
	err = AddError(err, InvariantViolationError)
	assert.True(Is(err, InvariantViolationError))
	assert.True(IsNot(err, NotFoundError))
}

func TestNewError(t *testing.T) {
	assert := assert.New(t)

	err := NewError(OutOfMemoryError, "node budget of %v exhausted", 7)

	assert.Equal("node budget of 7 exhausted", err.Error())
	assert.True(Is(err, OutOfMemoryError))
	assert.Equal("node budget of 7 exhausted. Error Value: 12 (OutOfMemoryError)", ErrorString(err))

	file, line := Location(err)
	assert.True(strings.HasSuffix(file, "api_test.go"))
	assert.NotEqual(0, line)
	assert.True(strings.Contains(SourceLine(err), "api_test.go"))
	assert.True(strings.Contains(Stacktrace(err), "TestNewError"))
	assert.True(strings.Contains(Details(err), "node budget of 7 exhausted"))
}
