// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package llrbmap

import (
	"github.com/NVIDIA/llrbmap/blunder"
	"github.com/NVIDIA/llrbmap/conf"
	"github.com/NVIDIA/llrbmap/logger"
)

// NewLLRBMapFromConfMap returns an empty LLRBMap configured from the
// [sectionName] options of confMap:
//
//   MaxNodes           - maximum number of nodes (alive or dead) held (default 0, unlimited)
//   ValidateOnMutation - Validate() after every mutating call (default false)
func NewLLRBMapFromConfMap(confMap conf.ConfMap, sectionName string, compare Compare, callbacks DumpCallbacks) (llrbMap LLRBMap, err error) {
	var (
		maxNodes           uint64
		validateOnMutation bool
	)

	maxNodes, err = confMap.FetchOptionValueUint64(sectionName, "MaxNodes")
	if nil != err {
		if nil != confMap.VerifyOptionIsMissing(sectionName, "MaxNodes") {
			err = blunder.AddError(err, blunder.BadConfigError)
			return
		}
		maxNodes = 0
	}

	validateOnMutation, err = confMap.FetchOptionValueBool(sectionName, "ValidateOnMutation")
	if nil != err {
		if nil != confMap.VerifyOptionIsMissing(sectionName, "ValidateOnMutation") {
			err = blunder.AddError(err, blunder.BadConfigError)
			return
		}
		validateOnMutation = false
	}

	tree := newLLRBMap(compare, callbacks)
	tree.maxNodes = maxNodes
	tree.validateOnMutation = validateOnMutation

	logger.Infof("llrbmap [%v] MaxNodes: %v ValidateOnMutation: %v", sectionName, maxNodes, validateOnMutation)

	llrbMap = tree
	err = nil

	return
}
