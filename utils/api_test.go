// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetAFnName(t *testing.T) {
	assert := assert.New(t)

	fnWithPackage := GetAFnName(0)
	assert.Equal("utils.TestGetAFnName", fnWithPackage)

	fn, pkg, gid := GetFuncPackage(0)
	assert.NotEqual(uint64(0), gid)
	assert.Equal("utils", pkg)
	assert.Equal("TestGetAFnName", fn)

	assert.Equal("utils.TestGetAFnName", GetFnName())
}

func testCallerOfGetCallerFnName() string {
	return GetCallerFnName()
}

func TestGetCallerFnName(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("utils.TestGetCallerFnName", testCallerOfGetCallerFnName())
}

func TestStopwatch(t *testing.T) {
	assert := assert.New(t)

	sw := NewStopwatch()
	startTime := sw.StartTime

	assert.True(sw.IsRunning)
	assert.True(sw.StopTime.IsZero())
	assert.Equal(time.Duration(0), sw.ElapsedTime)

	sleepTime := 20 * time.Millisecond
	time.Sleep(sleepTime)

	elapsed := sw.Stop()

	assert.False(sw.IsRunning)
	assert.False(sw.StopTime.IsZero())
	assert.Equal(startTime, sw.StartTime)
	assert.True(elapsed >= sleepTime)
	assert.Equal(elapsed, sw.Elapsed())
	assert.Equal(elapsed, sw.Stop()) // stopping again changes nothing

	assert.Equal(elapsed.Nanoseconds()/int64(time.Millisecond), sw.ElapsedMs())
	assert.Equal(elapsed.Nanoseconds()/int64(time.Microsecond), sw.ElapsedUs())
	assert.Equal(elapsed.Nanoseconds(), sw.ElapsedNs())
	assert.Equal(elapsed.String(), sw.ElapsedString())

	assert.Equal(elapsed/4, sw.PerOp(4))
	assert.Equal(time.Duration(0), sw.PerOp(0))
	assert.True(sw.OpsPerSecond(1000) > 0.0)

	sw.Restart()
	assert.True(sw.IsRunning)
	assert.True(sw.StopTime.IsZero())
	assert.Equal(time.Duration(0), sw.ElapsedTime)
	assert.True(sw.StartTime.After(startTime))
}
