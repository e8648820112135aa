// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package stats accumulates named operation counters and, if configured,
// periodically sends the increments to a local statsd as counters.
package stats

// Names of the counters maintained by package llrbmap
var (
	LLRBMapNewNodeOps           = "llrbmap.newnode.operations"
	LLRBMapNewNodeFailureOps    = "llrbmap.newnode.failure.operations"
	LLRBMapReviveOps            = "llrbmap.revive.operations"
	LLRBMapEraseOps             = "llrbmap.erase.operations"
	LLRBMapRotateLeftOps        = "llrbmap.rotateleft.operations"
	LLRBMapRotateRightOps       = "llrbmap.rotateright.operations"
	LLRBMapColorFlipOps         = "llrbmap.colorflip.operations"
	LLRBMapRehashOps            = "llrbmap.rehash.operations"
	LLRBMapRehashReclaimedNodes = "llrbmap.rehash.reclaimed.nodes"
)

// Dump returns a map of all accumulated stats since process start (or the
// last Reset()).
//
//   Key   is a string containing the name of the stat
//   Value is the accumulation of all increments for the stat
func Dump() (statMap map[string]uint64) {
	statMap = dump()
	return
}

// Reset discards all accumulated stats
func Reset() {
	reset()
}

// IncrementOperations increments statName by one
func IncrementOperations(statName *string) {
	incrementSomething(statName, 1)
}

// IncrementOperationsBy increments statName by incBy
func IncrementOperationsBy(statName *string, incBy uint64) {
	incrementSomething(statName, incBy)
}
