// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package halter provides labelled fault injection points.
//
// A trigger is armed with a countdown. Each call to Trigger() on an armed
// label decrements it and, on reaching zero, the trigger disarms itself and
// Trigger() returns a non-nil error that the caller treats as a failure of
// the operation being attempted.
package halter

import (
	"fmt"
	"sort"
)

// Note 1: Following const block and HaltLabelStrings should be kept in sync
// Note 2: HaltLabelStrings should be easily parseable as URL components

const (
	apiTestHaltLabel1 = iota
	apiTestHaltLabel2
	LLRBMapNewNode
)

var (
	HaltLabelStrings = []string{
		"halter.testHaltLabel1",
		"halter.testHaltLabel2",
		"llrbmap.newNode",
	}
)

// Arm sets up a failure on the haltAfterCount'd call to Trigger()
func Arm(haltLabelString string, haltAfterCount uint32) (err error) {
	globals.Lock()
	defer globals.Unlock()

	haltLabel, ok := globals.triggerNamesToNumbers[haltLabelString]
	if !ok {
		err = fmt.Errorf("halter.Arm(haltLabelString='%v',) - label unknown", haltLabelString)
		return
	}
	if 0 == haltAfterCount {
		err = fmt.Errorf("halter.Arm(haltLabel==%v,) called with haltAfterCount==0", haltLabelString)
		return
	}

	globals.armedTriggers[haltLabel] = haltAfterCount
	globals.numArmed = uint32(len(globals.armedTriggers))

	err = nil
	return
}

// Disarm removes a previously armed trigger via a call to Arm()
func Disarm(haltLabelString string) (err error) {
	globals.Lock()
	defer globals.Unlock()

	haltLabel, ok := globals.triggerNamesToNumbers[haltLabelString]
	if !ok {
		err = fmt.Errorf("halter.Disarm(haltLabelString='%v') - label unknown", haltLabelString)
		return
	}

	delete(globals.armedTriggers, haltLabel)
	globals.numArmed = uint32(len(globals.armedTriggers))

	err = nil
	return
}

// DisarmAll removes every armed trigger
func DisarmAll() {
	globals.Lock()
	globals.armedTriggers = make(map[uint32]uint32)
	globals.numArmed = 0
	globals.Unlock()
}

// Trigger decrements the haltAfterCount if armed and, should it reach 0,
// disarms the label and returns an error
func Trigger(haltLabel uint32) (err error) {
	globals.Lock()
	if 0 == globals.numArmed {
		globals.Unlock()
		err = nil
		return
	}
	numTriggersRemaining, armed := globals.armedTriggers[haltLabel]
	if !armed {
		globals.Unlock()
		err = nil
		return
	}
	numTriggersRemaining--
	if 0 == numTriggersRemaining {
		delete(globals.armedTriggers, haltLabel)
		globals.numArmed = uint32(len(globals.armedTriggers))
		globals.Unlock()
		err = fmt.Errorf("halter.Trigger(haltLabelString==%v) triggered HALT", globals.triggerNumbersToNames[haltLabel])
		return
	}
	globals.armedTriggers[haltLabel] = numTriggersRemaining
	globals.Unlock()
	err = nil
	return
}

// Dump returns a map of currently armed triggers and their remaining trigger count
func Dump() (armedTriggers map[string]uint32) {
	globals.Lock()
	armedTriggers = make(map[string]uint32)
	for k, v := range globals.armedTriggers {
		armedTriggers[globals.triggerNumbersToNames[k]] = v
	}
	globals.Unlock()
	return
}

// List returns a sorted slice of available triggers
func List() (availableTriggers []string) {
	availableTriggers = make([]string, 0, len(globals.triggerNumbersToNames))
	for k := range globals.triggerNamesToNumbers {
		availableTriggers = append(availableTriggers, k)
	}
	sort.Strings(availableTriggers)
	return
}
