// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package utils provides miscellaneous utilities for llrbmap and its tools.
package utils

import (
	"bytes"
	"regexp"
	"runtime"
	"strconv"
	"time"
)

var (
	extractFnNameRE    = regexp.MustCompile(`[^\/]*$`) // strips the module path
	extractPkgNameRE   = regexp.MustCompile(`^[^.]*`)  // beginning of string to first "."
	extractShortNameRE = regexp.MustCompile(`[^.]*$`)  // last "." to end of string
)

// GetGID returns the id of the calling goroutine.
//
// Logging the goroutine is useful when a test drives several maps from
// different goroutines and the interleaving of log lines matters.
func GetGID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// GetAFnName returns a string containing the calling function and package
// (e.g. "llrbmap.(*llrbMapStruct).Rehash") level frames above the caller.
func GetAFnName(level int) string {
	pc, _, _, ok := runtime.Caller(level + 1)
	if !ok {
		return "unknown.unknown"
	}
	functionObject := runtime.FuncForPC(pc)
	if nil == functionObject {
		return "unknown.unknown"
	}
	return extractFnNameRE.FindString(functionObject.Name())
}

// GetFuncPackage returns separate strings containing the calling function
// and package along with the calling goroutine id
func GetFuncPackage(level int) (fn string, pkg string, gid uint64) {
	funcPkg := GetAFnName(level + 1)

	pkg = extractPkgNameRE.FindString(funcPkg)
	fn = extractShortNameRE.FindString(funcPkg)
	gid = GetGID()

	return
}

// GetFnName returns a string containing the name of the running function and its package.
func GetFnName() string {
	return GetAFnName(1)
}

// GetCallerFnName returns a string containing the name of the calling function.
func GetCallerFnName() string {
	return GetAFnName(2)
}

// Stopwatch measures the wall clock time of a sequence of operations
type Stopwatch struct {
	StartTime   time.Time
	StopTime    time.Time
	ElapsedTime time.Duration
	IsRunning   bool
}

func NewStopwatch() *Stopwatch {
	return &Stopwatch{StartTime: time.Now(), IsRunning: true}
}

// Stop halts a running Stopwatch and returns the elapsed time; stopping a
// stopped Stopwatch returns the previously recorded elapsed time
func (sw *Stopwatch) Stop() time.Duration {
	if sw.IsRunning {
		sw.StopTime = time.Now()
		sw.ElapsedTime = sw.StopTime.Sub(sw.StartTime)
		sw.IsRunning = false
	}
	return sw.ElapsedTime
}

// Restart zeroes and starts a stopped Stopwatch; a running Stopwatch is left alone
func (sw *Stopwatch) Restart() {
	if !sw.IsRunning {
		sw.ElapsedTime = 0
		sw.StartTime = time.Now()
		sw.StopTime = time.Time{}
		sw.IsRunning = true
	}
}

func (sw *Stopwatch) Elapsed() time.Duration {
	if !sw.IsRunning {
		return sw.ElapsedTime
	}
	return time.Since(sw.StartTime)
}

func (sw *Stopwatch) ElapsedMs() int64 {
	return int64(sw.Elapsed() / time.Millisecond)
}

func (sw *Stopwatch) ElapsedUs() int64 {
	return int64(sw.Elapsed() / time.Microsecond)
}

func (sw *Stopwatch) ElapsedNs() int64 {
	return int64(sw.Elapsed() / time.Nanosecond)
}

func (sw *Stopwatch) ElapsedString() string {
	return sw.Elapsed().String()
}

// PerOp returns the average duration of each of numOps operations timed by sw
func (sw *Stopwatch) PerOp(numOps uint64) (perOp time.Duration) {
	if 0 == numOps {
		perOp = 0
		return
	}
	perOp = sw.Elapsed() / time.Duration(numOps)
	return
}

// OpsPerSecond returns the rate at which numOps operations completed
func (sw *Stopwatch) OpsPerSecond(numOps uint64) (opsPerSecond float64) {
	elapsed := sw.Elapsed()
	if 0 == elapsed {
		opsPerSecond = 0.0
		return
	}
	opsPerSecond = float64(numOps) * float64(time.Second) / float64(elapsed)
	return
}
