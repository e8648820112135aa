// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"io"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/NVIDIA/llrbmap/conf"
)

var logFile *os.File = nil

// Up configures logging from the [Logging] section of confMap
//
// Recognized options (all optional):
//
//   LogFilePath       - file to append log lines to (default: stderr only)
//   LogToConsole      - also log to stderr when LogFilePath is set (default: false)
//   TraceLevelLogging - packages (or "none") with trace logging enabled
//   DebugLevelLogging - packages (or "none") with debug logging enabled
func Up(confMap conf.ConfMap) (err error) {
	log.SetFormatter(&log.TextFormatter{DisableColors: true})

	logFilePath, _ := confMap.FetchOptionValueString("Logging", "LogFilePath")
	if "" != logFilePath {
		logFile, err = os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if nil != err {
			log.Errorf("couldn't open log file: %v", err)
			return
		}
	}

	logToConsole, err := confMap.FetchOptionValueBool("Logging", "LogToConsole")
	if nil != err {
		logToConsole = false
	}

	globalLogTargets.reset()

	if "" == logFilePath {
		globalLogTargets.addWriter(os.Stderr)
	} else {
		globalLogTargets.addWriter(logFile)
		if logToConsole {
			globalLogTargets.addWriter(os.Stderr)
		}
	}

	log.SetOutput(&globalLogTargets)

	// logrus always logs everything at or above Debug; this package decides
	// per package whether trace and debug lines are emitted
	log.SetLevel(log.DebugLevel)

	traceConfSlice, _ := confMap.FetchOptionValueStringSlice("Logging", "TraceLevelLogging")
	setTraceLoggingLevel(traceConfSlice)

	debugConfSlice, _ := confMap.FetchOptionValueStringSlice("Logging", "DebugLevelLogging")
	setDebugLoggingLevel(debugConfSlice)

	err = nil
	return
}

// Down closes the log file opened by Up (if any) and reverts output to stderr
func Down() (err error) {
	log.SetOutput(os.Stderr)
	globalLogTargets.reset()

	if nil != logFile {
		err = logFile.Close()
		logFile = nil
	}

	setTraceLoggingLevel([]string{"none"})
	setDebugLoggingLevel([]string{"none"})

	return
}

// multiWriter fans each log line out to every registered io.Writer
type multiWriter struct {
	sync.Mutex
	writers []io.Writer
}

var globalLogTargets multiWriter

func (mw *multiWriter) reset() {
	mw.Lock()
	mw.writers = make([]io.Writer, 0)
	mw.Unlock()
}

func (mw *multiWriter) addWriter(writer io.Writer) {
	mw.Lock()
	mw.writers = append(mw.writers, writer)
	mw.Unlock()
}

func (mw *multiWriter) Write(p []byte) (n int, err error) {
	mw.Lock()
	defer mw.Unlock()

	for _, writer := range mw.writers {
		n, err = writer.Write(p)
		if nil != err {
			return
		}
	}

	n = len(p)
	err = nil
	return
}

func addLogTarget(writer io.Writer) {
	globalLogTargets.addWriter(writer)
}
