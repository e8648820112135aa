// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package llrbmap

import (
	"github.com/NVIDIA/llrbmap/blunder"
)

// Validate checks key order, the LLRB coloring rules, equal black height on
// every path, and that the node accounting used by MaxNodes is accurate.
// Dead nodes are held to exactly the same rules as alive ones.
func (tree *llrbMapStruct) Validate() (err error) {
	if nil == tree.root {
		if 0 != tree.nodesAllocated {
			err = blunder.NewError(blunder.InvariantViolationError, "empty tree has nodesAllocated == %v", tree.nodesAllocated)
			return
		}
		err = nil
		return
	}

	if isRed(tree.root) {
		err = blunder.NewError(blunder.InvariantViolationError, "root (Key == %v) is RED", tree.root.key)
		return
	}

	_, err = tree.validate(tree.root, nil, nil)
	if nil != err {
		return
	}

	numNodes := tree.root.numNodes()
	if uint64(numNodes) != tree.nodesAllocated {
		err = blunder.NewError(blunder.InvariantViolationError, "tree holds %v node(s) but nodesAllocated == %v", numNodes, tree.nodesAllocated)
		return
	}

	err = nil
	return
}

// validate checks the subtree rooted at node, whose keys must all fall strictly
// between lowerNode.key and upperNode.key (a nil bound is unbounded), and
// returns its black height.
func (tree *llrbMapStruct) validate(node *llrbMapNodeStruct, lowerNode *llrbMapNodeStruct, upperNode *llrbMapNodeStruct) (blackHeight int, err error) {
	var compareResult int

	if nil == node {
		blackHeight = 0
		err = nil
		return
	}

	if nil != lowerNode {
		compareResult, err = tree.Compare(lowerNode.key, node.key)
		if nil != err {
			err = blunder.AddError(err, blunder.CompareError)
			return
		}
		if 0 <= compareResult {
			err = blunder.NewError(blunder.InvariantViolationError, "node.Key == %v not above left bound %v", node.key, lowerNode.key)
			return
		}
	}

	if nil != upperNode {
		compareResult, err = tree.Compare(node.key, upperNode.key)
		if nil != err {
			err = blunder.AddError(err, blunder.CompareError)
			return
		}
		if 0 <= compareResult {
			err = blunder.NewError(blunder.InvariantViolationError, "node.Key == %v not below right bound %v", node.key, upperNode.key)
			return
		}
	}

	if isRed(node.right) {
		err = blunder.NewError(blunder.InvariantViolationError, "node.Key == %v has a RED right child", node.key)
		return
	}

	if isRed(node) && isRed(node.left) {
		err = blunder.NewError(blunder.InvariantViolationError, "node.Key == %v and its left child are both RED", node.key)
		return
	}

	leftBlackHeight, err := tree.validate(node.left, lowerNode, node)
	if nil != err {
		return
	}

	rightBlackHeight, err := tree.validate(node.right, node, upperNode)
	if nil != err {
		return
	}

	if leftBlackHeight != rightBlackHeight {
		err = blunder.NewError(blunder.InvariantViolationError, "node.Key == %v has left black height %v but right black height %v", node.key, leftBlackHeight, rightBlackHeight)
		return
	}

	blackHeight = leftBlackHeight
	if isBlack(node) {
		blackHeight++
	}

	err = nil
	return
}
