// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Program mapworkout measures the throughput of one LLRBMap operation.
//
// Each thread populates (as needed) and then exercises its own LLRBMap so
// that no map is ever shared between goroutines.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/NVIDIA/llrbmap/blunder"
	"github.com/NVIDIA/llrbmap/conf"
	"github.com/NVIDIA/llrbmap/halter"
	"github.com/NVIDIA/llrbmap/llrbmap"
	"github.com/NVIDIA/llrbmap/logger"
	"github.com/NVIDIA/llrbmap/stats"
	"github.com/NVIDIA/llrbmap/utils"
)

const (
	mapSectionName = "MapWorkout"
)

var (
	confMap         conf.ConfMap
	doNextStepChan  chan bool
	keysPerThread   uint64
	measureErase    bool
	measureGet      bool
	measurePut      bool
	measureRehash   bool
	measureRetrieve bool
	stepErrChan     chan error
	threads         uint64
)

func usage(file *os.File) {
	fmt.Fprintf(file, "Usage:\n")
	fmt.Fprintf(file, "    %v [pgerR] threads keys-per-thread conf-file [section.option=value]*\n", os.Args[0])
	fmt.Fprintf(file, "  where:\n")
	fmt.Fprintf(file, "    p                       run Put      test on an empty map\n")
	fmt.Fprintf(file, "    g                       run Get      test on a  populated map\n")
	fmt.Fprintf(file, "    e                       run Erase    test on a  populated map\n")
	fmt.Fprintf(file, "    r                       run Retrieve test on a  populated map\n")
	fmt.Fprintf(file, "    R                       run Rehash   test on a  populated map with every other key erased\n")
	fmt.Fprintf(file, "    threads                 number of threads (each with its own map)\n")
	fmt.Fprintf(file, "    keys-per-thread         number of keys each thread's map will hold\n")
	fmt.Fprintf(file, "    conf-file               input to conf.MakeConfMapFromFile()\n")
	fmt.Fprintf(file, "    [section.option=value]* optional input to conf.UpdateFromStrings()\n")
	fmt.Fprintf(file, "\n")
	fmt.Fprintf(file, "Note: Precisely one test selector must be specified\n")
	fmt.Fprintf(file, "      Each map is configured from the [%v] section of conf-file\n", mapSectionName)
}

func main() {
	var (
		err              error
		latencyPerOp     float64
		measureStopwatch *utils.Stopwatch
		numMeasuredOps   uint64
		opsPerSecond     float64
		statMap          map[string]uint64
		statNames        []string
	)

	// Parse arguments

	if 5 > len(os.Args) {
		usage(os.Stderr)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "p":
		measurePut = true
	case "g":
		measureGet = true
	case "e":
		measureErase = true
	case "r":
		measureRetrieve = true
	case "R":
		measureRehash = true
	default:
		fmt.Fprintf(os.Stderr, "os.Args[1] ('%v') must be one of 'p', 'g', 'e', 'r', or 'R'\n", os.Args[1])
		os.Exit(1)
	}

	threads, err = strconv.ParseUint(os.Args[2], 10, 64)
	if nil != err {
		fmt.Fprintf(os.Stderr, "strconv.ParseUint(\"%v\", 10, 64) of threads failed: %v\n", os.Args[2], err)
		os.Exit(1)
	}
	if 0 == threads {
		fmt.Fprintf(os.Stderr, "threads must be a positive number\n")
		os.Exit(1)
	}

	keysPerThread, err = strconv.ParseUint(os.Args[3], 10, 64)
	if nil != err {
		fmt.Fprintf(os.Stderr, "strconv.ParseUint(\"%v\", 10, 64) of keys-per-thread failed: %v\n", os.Args[3], err)
		os.Exit(1)
	}
	if 0 == keysPerThread {
		fmt.Fprintf(os.Stderr, "keys-per-thread must be a positive number\n")
		os.Exit(1)
	}

	confMap, err = conf.MakeConfMapFromFile(os.Args[4])
	if nil != err {
		fmt.Fprintf(os.Stderr, "conf.MakeConfMapFromFile(\"%v\") failed: %v\n", os.Args[4], err)
		os.Exit(1)
	}

	if 5 < len(os.Args) {
		err = confMap.UpdateFromStrings(os.Args[5:])
		if nil != err {
			fmt.Fprintf(os.Stderr, "confMap.UpdateFromStrings(%#v) failed: %v\n", os.Args[5:], err)
			os.Exit(1)
		}
	}

	// Start up needed components

	err = logger.Up(confMap)
	if nil != err {
		fmt.Fprintf(os.Stderr, "logger.Up() failed: %v\n", err)
		os.Exit(1)
	}

	err = stats.Up(confMap)
	if nil != err {
		fmt.Fprintf(os.Stderr, "stats.Up() failed: %v\n", err)
		os.Exit(1)
	}

	err = halter.Up(confMap)
	if nil != err {
		fmt.Fprintf(os.Stderr, "halter.Up() failed: %v\n", err)
		os.Exit(1)
	}

	// Perform tests

	stepErrChan = make(chan error, 0)
	doNextStepChan = make(chan bool, 0)

	// Do initialization step
	for threadIndex := uint64(0); threadIndex < threads; threadIndex++ {
		go mapWorkout(threadIndex)
	}
	for threadIndex := uint64(0); threadIndex < threads; threadIndex++ {
		err = <-stepErrChan
		if nil != err {
			fmt.Fprintf(os.Stderr, "mapWorkout() initialization step returned: %v\n", blunder.ErrorString(err))
			os.Exit(1)
		}
	}

	// Do measured operations step
	measureStopwatch = utils.NewStopwatch()
	for threadIndex := uint64(0); threadIndex < threads; threadIndex++ {
		doNextStepChan <- true
	}
	for threadIndex := uint64(0); threadIndex < threads; threadIndex++ {
		err = <-stepErrChan
		if nil != err {
			fmt.Fprintf(os.Stderr, "mapWorkout() measured operations step returned: %v\n", blunder.ErrorString(err))
			os.Exit(1)
		}
	}
	_ = measureStopwatch.Stop()

	// Do validation step
	for threadIndex := uint64(0); threadIndex < threads; threadIndex++ {
		doNextStepChan <- true
	}
	for threadIndex := uint64(0); threadIndex < threads; threadIndex++ {
		err = <-stepErrChan
		if nil != err {
			fmt.Fprintf(os.Stderr, "mapWorkout() validation step returned: %v\n", blunder.ErrorString(err))
			os.Exit(1)
		}
	}

	// Stop components launched above

	err = halter.Down()
	if nil != err {
		fmt.Fprintf(os.Stderr, "halter.Down() failed: %v\n", err)
		os.Exit(1)
	}

	err = stats.Down()
	if nil != err {
		fmt.Fprintf(os.Stderr, "stats.Down() failed: %v\n", err)
		os.Exit(1)
	}

	err = logger.Down()
	if nil != err {
		fmt.Fprintf(os.Stderr, "logger.Down() failed: %v\n", err)
		os.Exit(1)
	}

	// Report results

	if measureRehash {
		numMeasuredOps = threads // One Rehash() per map
	} else {
		numMeasuredOps = threads * keysPerThread
	}

	opsPerSecond = measureStopwatch.OpsPerSecond(numMeasuredOps)
	latencyPerOp = float64(measureStopwatch.PerOp(numMeasuredOps).Nanoseconds()) / float64(1000)

	fmt.Printf("operations   = %v\n", humanize.Comma(int64(numMeasuredOps)))
	fmt.Printf("elapsed      = %v\n", measureStopwatch.ElapsedString())
	fmt.Printf("opsPerSecond = %10.2f\n", opsPerSecond)
	fmt.Printf("latencyPerOp = %10.2f us\n", latencyPerOp)

	statMap = stats.Dump()
	statNames = make([]string, 0, len(statMap))
	for statName := range statMap {
		statNames = append(statNames, statName)
	}
	sort.Strings(statNames)
	for _, statName := range statNames {
		fmt.Printf("  %-32s %v\n", statName, statMap[statName])
	}
}

func mapWorkout(threadIndex uint64) {
	var (
		err      error
		i        uint64
		keys     []int
		llrbMap  llrbmap.LLRBMap
		numAlive int
		ok       bool
		value    *llrbmap.Value
	)

	// Do initialization step
	llrbMap, err = llrbmap.NewLLRBMapFromConfMap(confMap, mapSectionName, llrbmap.CompareAscending, nil)
	if nil != err {
		stepErrChan <- err
		runtime.Goexit()
	}

	keys = rand.New(rand.NewSource(int64(threadIndex))).Perm(int(keysPerThread))

	if !measurePut {
		for i = 0; i < keysPerThread; i++ {
			err = llrbMap.Put(keys[i], threadIndex)
			if nil != err {
				stepErrChan <- err
				runtime.Goexit()
			}
		}
		if measureRehash {
			for i = 0; i < keysPerThread; i += 2 {
				err = llrbMap.Erase(keys[i])
				if nil != err {
					stepErrChan <- err
					runtime.Goexit()
				}
			}
		}
	}

	// Indicate initialization step is done
	stepErrChan <- nil

	// Await signal to proceed with measured operations step
	_ = <-doNextStepChan

	// Do measured operations
	if measureRehash {
		err = llrbMap.Rehash()
		if nil != err {
			stepErrChan <- err
			runtime.Goexit()
		}
	} else {
		for i = 0; i < keysPerThread; i++ {
			switch {
			case measurePut:
				err = llrbMap.Put(keys[i], threadIndex)
			case measureGet:
				value, err = llrbMap.Get(keys[i])
				if (nil == err) && (threadIndex != (*value).(uint64)) {
					err = fmt.Errorf("Get(%v) returned %v", keys[i], *value)
				}
			case measureErase:
				err = llrbMap.Erase(keys[i])
			case measureRetrieve:
				_, ok, err = llrbMap.Retrieve(keys[i])
				if (nil == err) && !ok {
					err = fmt.Errorf("Retrieve(%v) found nothing", keys[i])
				}
			}
			if nil != err {
				stepErrChan <- err
				runtime.Goexit()
			}
		}
	}

	// Indicate measured operations step is done
	stepErrChan <- nil

	// Await signal to proceed with validation step
	_ = <-doNextStepChan

	err = llrbMap.Validate()
	if nil != err {
		stepErrChan <- err
		runtime.Goexit()
	}

	switch {
	case measureErase:
		numAlive = 0
	case measureRehash:
		numAlive = int(keysPerThread / 2)
	default:
		numAlive = int(keysPerThread)
	}
	if numAlive != llrbMap.Size() {
		err = fmt.Errorf("thread %v map Size() == %v, expected %v", threadIndex, llrbMap.Size(), numAlive)
		stepErrChan <- err
		runtime.Goexit()
	}

	logger.Tracef("thread %v map NumNodes() == %v Height() == %v", threadIndex, llrbMap.NumNodes(), llrbMap.Height())

	// Indicate validation step is done
	stepErrChan <- nil
}
