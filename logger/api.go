// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package logger provides logging wrappers
//
// These wrappers allow us to standardize logging while still using a third-party
// logging package.
//
// This package is currently implemented on top of the sirupsen/logrus package:
//   https://github.com/sirupsen/logrus
//
// The APIs here add package, calling function, and goroutine to all logs.
//
// Logging of trace and debug logs are enabled/disabled on a per package basis.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/NVIDIA/llrbmap/utils"
)

type Level int

// Our logging levels
//
// We have more detailed logging levels than the logrus log package, so
// each is mapped to a logrus level before calling logrus APIs.
const (
	// PanicLevel corresponds to logrus.PanicLevel; logrus will log and then call panic with the log message
	PanicLevel Level = iota
	// FatalLevel corresponds to logrus.FatalLevel; logrus will log and then call `os.Exit(1)`
	FatalLevel
	// ErrorLevel corresponds to logrus.ErrorLevel
	ErrorLevel
	// WarnLevel corresponds to logrus.WarnLevel
	WarnLevel
	// InfoLevel corresponds to logrus.InfoLevel
	InfoLevel

	// TraceLevel is used for operational logs that trace the success path.
	// Enabled on a per-package basis; when enabled, logged at logrus.InfoLevel.
	TraceLevel

	// DebugLevel is used for very verbose logging of internal operations.
	// Enabled on a per-package basis; when enabled, logged at logrus.DebugLevel.
	DebugLevel
)

// Debug IDs within a package
const DbgInternal string = "debug_internal"
const DbgTesting string = "debug_test"

type settingsStruct struct {
	sync.Mutex
	traceLevelEnabled    bool
	debugLevelEnabled    bool
	packageTraceSettings map[string]bool     // package => trace enabled
	packageDebugSettings map[string][]string // package => enabled debug IDs
}

// Only the packages listed here may have trace or debug logging enabled
// via Logging.TraceLevelLogging or Logging.DebugLevelLogging.
var settings = settingsStruct{
	packageTraceSettings: map[string]bool{
		"conf":    false,
		"halter":  false,
		"llrbmap": false,
		"logger":  false,
		"main":    false,
	},
	packageDebugSettings: map[string][]string{
		"halter":  []string{},
		"llrbmap": []string{},
		"main":    []string{},
	},
}

func setTraceLoggingLevel(confStrSlice []string) {
	settings.Lock()

	for pkg := range settings.packageTraceSettings {
		settings.packageTraceSettings[pkg] = false
	}
	settings.traceLevelEnabled = false

HandlePkgs:
	for _, pkg := range confStrSlice {
		switch pkg {
		case "none":
			for pkg := range settings.packageTraceSettings {
				settings.packageTraceSettings[pkg] = false
			}
			settings.traceLevelEnabled = false
			break HandlePkgs
		default:
			if _, ok := settings.packageTraceSettings[pkg]; ok {
				settings.packageTraceSettings[pkg] = true
				settings.traceLevelEnabled = true
			}
		}
	}

	enabledPkgs := make([]string, 0)
	for pkg, isEnabled := range settings.packageTraceSettings {
		if isEnabled {
			enabledPkgs = append(enabledPkgs, pkg)
		}
	}

	settings.Unlock()

	for _, pkg := range enabledPkgs {
		Infof("Package %v trace logging is enabled.", pkg)
	}
}

func setDebugLoggingLevel(confStrSlice []string) {
	settings.Lock()

	for pkg := range settings.packageDebugSettings {
		settings.packageDebugSettings[pkg] = []string{}
	}
	settings.debugLevelEnabled = false

HandlePkgs:
	for _, pkg := range confStrSlice {
		switch pkg {
		case "none":
			for pkg := range settings.packageDebugSettings {
				settings.packageDebugSettings[pkg] = []string{}
			}
			settings.debugLevelEnabled = false
			break HandlePkgs
		default:
			if _, ok := settings.packageDebugSettings[pkg]; ok {
				settings.packageDebugSettings[pkg] = []string{DbgInternal, DbgTesting}
				settings.debugLevelEnabled = true
			}
		}
	}

	enabledPkgs := make([]string, 0)
	for pkg, ids := range settings.packageDebugSettings {
		if 0 < len(ids) {
			enabledPkgs = append(enabledPkgs, pkg)
		}
	}

	settings.Unlock()

	for _, pkg := range enabledPkgs {
		Infof("Package %v debug logging is enabled.", pkg)
	}
}

func traceEnabled(pkg string) (enabled bool) {
	settings.Lock()
	enabled = settings.packageTraceSettings[pkg]
	settings.Unlock()
	return
}

func debugEnabled(pkg string, debugID string) bool {
	settings.Lock()
	defer settings.Unlock()

	for _, id := range settings.packageDebugSettings[pkg] {
		if id == debugID {
			return true
		}
	}
	return false
}

// TraceEnabled reports whether trace logging is enabled for the calling package.
// Use it to avoid computing expensive trace arguments.
func TraceEnabled() bool {
	if !logEnabled(TraceLevel) {
		return false
	}
	_, pkg, _ := utils.GetFuncPackage(1)
	return traceEnabled(pkg)
}

// Log fields supported by logger
const packageKey string = "package"
const functionKey string = "function"
const errorKey string = "error"
const gidKey string = "goroutine"

// FuncCtx saves the fields common between log calls within a function
type FuncCtx struct {
	funcContext *log.Entry
}

func (ctx *FuncCtx) getPackage() string {
	pkg, ok := ctx.funcContext.Data[packageKey].(string)
	if ok {
		return pkg
	}
	return ""
}

// newFuncCtx creates a new function logging context, extracting the calling
// function from the call stack.
func newFuncCtx(level int) (ctx *FuncCtx) {
	fn, pkg, gid := utils.GetFuncPackage(level + 1)

	fields := make(log.Fields)
	fields[functionKey] = fn
	fields[packageKey] = pkg
	fields[gidKey] = gid

	ctx = &FuncCtx{funcContext: log.WithFields(fields)}
	return
}

// newFuncCtxWithField is newFuncCtx plus one additional field
func newFuncCtxWithField(level int, key string, value interface{}) (ctx *FuncCtx) {
	ctx = newFuncCtx(level + 1)
	ctx.funcContext = ctx.funcContext.WithField(key, value)
	return
}

var backtraceOneLevel int = 1

func logEnabled(level Level) (enabled bool) {
	settings.Lock()
	defer settings.Unlock()

	if (level == TraceLevel) && !settings.traceLevelEnabled {
		return false
	}
	if (level == DebugLevel) && !settings.debugLevelEnabled {
		return false
	}
	return true
}

// EXTERNAL logging APIs
// These APIs are in the style of those provided by the logrus package.

// Logger intentionally does not provide a Debugf() API; use DebugfID() instead.

func Errorf(format string, args ...interface{}) {
	level := ErrorLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtx(backtraceOneLevel)
	ctx.log(level, fmt.Sprintf(format, args...))
}

func Fatalf(format string, args ...interface{}) {
	level := FatalLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtx(backtraceOneLevel)
	ctx.log(level, fmt.Sprintf(format, args...))
}

func Infof(format string, args ...interface{}) {
	level := InfoLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtx(backtraceOneLevel)
	ctx.log(level, fmt.Sprintf(format, args...))
}

func Tracef(format string, args ...interface{}) {
	level := TraceLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtx(backtraceOneLevel)
	ctx.log(level, fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...interface{}) {
	level := WarnLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtx(backtraceOneLevel)
	ctx.log(level, fmt.Sprintf(format, args...))
}

func DebugfID(id string, format string, args ...interface{}) {
	level := DebugLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtx(backtraceOneLevel)
	ctx.logWithID(level, id, fmt.Sprintf(format, args...))
}

func ErrorfWithError(err error, format string, args ...interface{}) {
	level := ErrorLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtxWithField(backtraceOneLevel, errorKey, err)
	ctx.log(level, fmt.Sprintf(format, args...))
}

func WarnfWithError(err error, format string, args ...interface{}) {
	level := WarnLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtxWithField(backtraceOneLevel, errorKey, err)
	ctx.log(level, fmt.Sprintf(format, args...))
}

func TracefWithError(err error, format string, args ...interface{}) {
	level := TraceLevel
	if !logEnabled(level) {
		return
	}
	ctx := newFuncCtxWithField(backtraceOneLevel, errorKey, err)
	ctx.log(level, fmt.Sprintf(format, args...))
}

// TraceEnter generates a function entry trace and returns a context
// to be used for the matching (typically deferred) TraceExit
func TraceEnter(argsPrefix string, args ...interface{}) (ctx FuncCtx) {
	level := TraceLevel
	if !logEnabled(level) {
		return
	}
	ctx = *newFuncCtx(backtraceOneLevel)
	ctx.traceInternal(">> called", argsPrefix, args...)
	return
}

// TraceExit generates a function exit trace using the package and function
// saved in ctx by TraceEnter
func (ctx *FuncCtx) TraceExit(argsPrefix string, args ...interface{}) {
	level := TraceLevel
	if !logEnabled(level) {
		return
	}
	if nil == ctx.funcContext {
		// TraceEnter ran before trace logging was enabled
		ctx.funcContext = newFuncCtx(backtraceOneLevel).funcContext
	}
	ctx.traceInternal("<< returning", argsPrefix, args...)
}

// TraceExitErr is TraceExit with err included as a field
func (ctx *FuncCtx) TraceExitErr(argsPrefix string, err error, args ...interface{}) {
	level := TraceLevel
	if !logEnabled(level) {
		return
	}
	if nil == ctx.funcContext {
		ctx.funcContext = newFuncCtx(backtraceOneLevel).funcContext
	}
	newCtx := FuncCtx{funcContext: ctx.funcContext.WithField(errorKey, err)}
	newCtx.traceInternal("<< returning", argsPrefix, args...)
}

func (ctx *FuncCtx) traceInternal(formatPrefix string, argsPrefix string, args ...interface{}) {
	format := formatPrefix + " %s" + strings.Repeat(" %+v", len(args))
	newArgs := append([]interface{}{argsPrefix}, args...)
	ctx.log(TraceLevel, fmt.Sprintf(format, newArgs...))
}

// log is the common low-level logging function used internal to this package
//
// Following logrus' entry.go, this is not declared with a pointer receiver.
func (ctx FuncCtx) log(level Level, args ...interface{}) {
	if (level == TraceLevel) && !traceEnabled(ctx.getPackage()) {
		return
	}

	switch level {
	case PanicLevel:
		ctx.funcContext.Panic(args...)
	case FatalLevel:
		ctx.funcContext.Fatal(args...)
	case ErrorLevel:
		ctx.funcContext.Error(args...)
	case WarnLevel:
		ctx.funcContext.Warn(args...)
	case TraceLevel:
		ctx.funcContext.Info(args...)
	case InfoLevel:
		ctx.funcContext.Info(args...)
	case DebugLevel:
		ctx.funcContext.Debug(args...)
	}
}

func (ctx FuncCtx) logWithID(level Level, id string, args ...interface{}) {
	if (level == DebugLevel) && !debugEnabled(ctx.getPackage(), id) {
		return
	}
	ctx.log(level, args...)
}

// AddLogTarget adds another target for log messages to be written to.
// writer is called once for each log message.
//
// Up() must be called before this function is used.
func AddLogTarget(writer io.Writer) {
	addLogTarget(writer)
}

// LogBuffer captures the most recent log entries; useful for writing test cases
type LogBuffer struct {
	sync.Mutex
	LogEntries   []string // most recent log entry is [0]
	TotalEntries int      // count of all entries seen
}

type LogTarget struct {
	LogBuf *LogBuffer
}

// Init prepares a LogTarget to hold up to nEntry log entries
func (target *LogTarget) Init(nEntry int) {
	target.LogBuf = &LogBuffer{TotalEntries: 0}
	target.LogBuf.LogEntries = make([]string, nEntry)
}

// Write is called by logger for each log entry
func (target LogTarget) Write(p []byte) (n int, err error) {
	target.LogBuf.Lock()
	defer target.LogBuf.Unlock()

	entries := target.LogBuf.LogEntries
	if 0 < len(entries) {
		copy(entries[1:], entries[:len(entries)-1])
		entries[0] = strings.TrimRight(string(p), " \t\n")
	}
	target.LogBuf.TotalEntries++

	n = len(p)
	err = nil
	return
}

// LogEntryContains reports whether any captured entry contains every one of substrings
func (target LogTarget) LogEntryContains(substrings ...string) bool {
	target.LogBuf.Lock()
	defer target.LogBuf.Unlock()

NextEntry:
	for _, entry := range target.LogBuf.LogEntries {
		if "" == entry {
			continue
		}
		for _, s := range substrings {
			if !strings.Contains(entry, s) {
				continue NextEntry
			}
		}
		return true
	}
	return false
}
