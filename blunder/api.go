// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package blunder provides error-handling wrappers
//
// These wrappers allow callers to provide additional information in Go errors
// while still conforming to the Go error interface.
//
// This package provides APIs to add errno information to regular Go errors.
//
// This package is currently implemented on top of the ansel1/merry package:
//   https://github.com/ansel1/merry
//
//   merry comes with built-in support for adding information to errors:
//    - stacktraces
//    - overriding the error message
//    - your own additional information
package blunder

import (
	"fmt"

	"github.com/ansel1/merry"
	"golang.org/x/sys/unix"

	"github.com/NVIDIA/llrbmap/logger"
)

// MapError is the kind of failure reported by llrbmap and its supporting packages.
//
// Kinds with a clear POSIX counterpart use that errno value; the rest are
// numbered from 1000.
type MapError int

const (
	NotFoundError     MapError = MapError(int(unix.ENOENT))  // No such entry
	OutOfMemoryError  MapError = MapError(int(unix.ENOMEM))  // Out of memory
	InvalidArgError   MapError = MapError(int(unix.EINVAL))  // Invalid argument
	NotSupportedError MapError = MapError(int(unix.ENOTSUP)) // Operation not supported
)

// Errors that map to constants already defined above
const (
	CompareError    MapError = InvalidArgError
	BadConfigError  MapError = InvalidArgError
	NodeBudgetError MapError = OutOfMemoryError
	ForeignMapError MapError = NotSupportedError
)

// Success error
const SuccessError MapError = 0

const (
	// Errors that are internal/specific to llrbmap
	InvariantViolationError MapError = 1000 + iota
	CorruptIteratorError
)

// Default errno values for success and failure
const successErrno = 0
const failureErrno = -1

const errnoKey = "errno"

// Value returns the int value for the specified MapError constant
func (err MapError) Value() int {
	return int(err)
}

// NewError creates a new merry/blunder.MapError-annotated error using the given
// format string and arguments.
func NewError(errValue MapError, format string, a ...interface{}) error {
	return merry.WrapSkipping(fmt.Errorf(format, a...), 1).WithValue(errnoKey, int(errValue))
}

// AddError is used to add MapError detail to a Go error.
//
// Replacing a previously added value is permitted but logged.
func AddError(e error, errValue MapError) error {
	if nil == e {
		return merry.New("regular error").WithValue(errnoKey, int(errValue))
	}

	prevValue := Errno(e)
	if (prevValue != successErrno) && (prevValue != failureErrno) && (prevValue != int(errValue)) {
		logger.Warnf("replacing error value %v with value %v for error %v", prevValue, int(errValue), e)
	}

	return merry.WrapSkipping(e, 1).WithValue(errnoKey, int(errValue))
}

func hasErrnoValue(e error) bool {
	return nil != merry.Value(e, errnoKey)
}

// Errno extracts errno from the error, if it was previously wrapped.
// Otherwise a default value is returned.
func Errno(e error) int {
	if nil == e {
		return successErrno
	}

	errno := failureErrno
	tmp := merry.Value(e, errnoKey)
	if nil != tmp {
		errno = tmp.(int)
	}

	return errno
}

// ErrorString returns the error string with its errno value appended (if set)
func ErrorString(e error) string {
	if nil == e {
		return ""
	}

	errPlusVal := e.Error()

	tmp := merry.Value(e, errnoKey)
	if nil != tmp {
		errPlusVal = fmt.Sprintf("%s. Error Value: %v (%v)", errPlusVal, tmp.(int), MapError(tmp.(int)))
	}

	return errPlusVal
}

// Is checks if an error matches a particular MapError
//
// NOTE: Because the errno value is compared, MapErrors sharing a value
//       (e.g. CompareError and InvalidArgError) are indistinguishable.
func Is(e error, theError MapError) bool {
	return Errno(e) == theError.Value()
}

// IsNot checks if an error is NOT a particular MapError
func IsNot(e error, theError MapError) bool {
	return Errno(e) != theError.Value()
}

// IsSuccess checks if an error is the success MapError
func IsSuccess(e error) bool {
	return Errno(e) == successErrno
}

// IsNotSuccess checks if an error is NOT the success MapError
func IsNotSuccess(e error) bool {
	return Errno(e) != successErrno
}

// Location returns the file and line number of the code that generated the error.
// Returns zero values if e has no stacktrace.
func Location(e error) (file string, line int) {
	file, line = merry.Location(e)
	return
}

// SourceLine returns the string representation of Location's result
func SourceLine(e error) string {
	return merry.SourceLine(e)
}

// Details wraps merry.Details, which returns all error details including stacktrace in a string.
func Details(e error) string {
	return merry.Details(e)
}

// Stacktrace wraps merry.Stacktrace, which returns error stacktrace (if set) in a string.
func Stacktrace(e error) string {
	return merry.Stacktrace(e)
}
