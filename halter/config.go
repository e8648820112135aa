// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package halter

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/NVIDIA/llrbmap/conf"
	"github.com/NVIDIA/llrbmap/logger"
)

type globalsStruct struct {
	sync.Mutex
	armedTriggers         map[uint32]uint32 // key: haltLabel; value: haltAfterCount (remaining)
	numArmed              uint32            // len(armedTriggers)
	triggerNamesToNumbers map[string]uint32
	triggerNumbersToNames map[uint32]string
}

var globals globalsStruct

func init() {
	globals.armedTriggers = make(map[uint32]uint32)
	globals.numArmed = 0
	globals.triggerNamesToNumbers = make(map[string]uint32)
	globals.triggerNumbersToNames = make(map[uint32]string)
	for i, s := range HaltLabelStrings {
		globals.triggerNamesToNumbers[s] = uint32(i)
		globals.triggerNumbersToNames[uint32(i)] = s
	}
}

// Up disarms every trigger then arms those listed in Halter.Arm
//
// Each Halter.Arm value takes the form <label>:<haltAfterCount>. A missing
// Halter.Arm option (or a nil confMap) simply leaves all triggers disarmed.
func Up(confMap conf.ConfMap) (err error) {
	var (
		armStrings     []string
		haltAfterCount uint64
	)

	DisarmAll()

	if nil == confMap {
		err = nil
		return
	}

	armStrings, err = confMap.FetchOptionValueStringSlice("Halter", "Arm")
	if nil != err {
		err = nil
		return
	}

	for _, armString := range armStrings {
		colonIndex := strings.LastIndex(armString, ":")
		if 0 > colonIndex {
			err = fmt.Errorf("halter.Up(): Halter.Arm value \"%v\" missing \":<haltAfterCount>\"", armString)
			return
		}
		haltAfterCount, err = strconv.ParseUint(armString[colonIndex+1:], 10, 32)
		if nil != err {
			err = fmt.Errorf("halter.Up(): Halter.Arm value \"%v\" has bad haltAfterCount: %v", armString, err)
			return
		}
		err = Arm(armString[:colonIndex], uint32(haltAfterCount))
		if nil != err {
			logger.TracefWithError(err, "halter.Up(): Halter.Arm value \"%v\" rejected", armString)
			return
		}
		logger.Tracef("halter.Up(): armed %v after %v trigger(s)", armString[:colonIndex], haltAfterCount)
	}

	err = nil
	return
}

// Down disarms every trigger
func Down() (err error) {
	DisarmAll()
	err = nil
	return
}
