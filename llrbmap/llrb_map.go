// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package llrbmap

// Left-Leaning Red-Black (LLRB) described here:
//
//   http://www.cs.princeton.edu/~rs/talks/LLRB/08Penn.pdf
//   http://www.cs.princeton.edu/~rs/talks/LLRB/LLRB.pdf
//   http://www.cs.princeton.edu/~rs/talks/LLRB/Java/RedBlackBST.java
//
// As in sortedmap, the coloring maps a 2-3 Tree so no node is ever left with
// two red children. Unlike sortedmap, nodes are never physically deleted: an
// erased node simply has .alive cleared and keeps its place (and color).

import (
	"fmt"

	"github.com/NVIDIA/llrbmap/blunder"
	"github.com/NVIDIA/llrbmap/halter"
	"github.com/NVIDIA/llrbmap/logger"
	"github.com/NVIDIA/llrbmap/stats"
)

const (
	RED   = true
	BLACK = false
)

type llrbMapNodeStruct struct {
	key   Key
	value Value
	left  *llrbMapNodeStruct // Pointer to Left Child (or nil)
	right *llrbMapNodeStruct // Pointer to Right Child (or nil)
	color bool               // Color of parent link
	alive bool               // Cleared by Erase(); set again by Get()/Put()
}

type llrbMapStruct struct {
	Compare
	DumpCallbacks
	root               *llrbMapNodeStruct
	maxNodes           uint64 // 0 means unlimited
	nodesAllocated     uint64 // Nodes currently linked into (or being linked into) root
	generation         uint64 // Bumped on every structural change; see Iterator
	validateOnMutation bool
}

type defaultDumpCallbacksStruct struct{}

func (dumpCallbacks *defaultDumpCallbacksStruct) DumpKey(key Key) (keyAsString string, err error) {
	keyAsString = fmt.Sprintf("%v", key)
	err = nil
	return
}

func (dumpCallbacks *defaultDumpCallbacksStruct) DumpValue(value Value) (valueAsString string, err error) {
	valueAsString = fmt.Sprintf("%v", value)
	err = nil
	return
}

func newLLRBMap(compare Compare, callbacks DumpCallbacks) (tree *llrbMapStruct) {
	if nil == compare {
		compare = CompareAscending
	}
	if nil == callbacks {
		callbacks = &defaultDumpCallbacksStruct{}
	}

	tree = &llrbMapStruct{
		Compare:            compare,
		DumpCallbacks:      callbacks,
		root:               nil,
		maxNodes:           0,
		nodesAllocated:     0,
		generation:         0,
		validateOnMutation: false,
	}

	return
}

// newShadow returns an empty tree sharing tree's configuration, used to
// build a replacement tree that is only adopted if it completes
func (tree *llrbMapStruct) newShadow() (shadow *llrbMapStruct) {
	shadow = &llrbMapStruct{
		Compare:            tree.Compare,
		DumpCallbacks:      tree.DumpCallbacks,
		root:               nil,
		maxNodes:           tree.maxNodes,
		nodesAllocated:     0,
		generation:         0,
		validateOnMutation: false,
	}

	return
}

// Node interface

func (node *llrbMapNodeStruct) Key() Key {
	return node.key
}

func (node *llrbMapNodeStruct) Value() Value {
	return node.value
}

func (node *llrbMapNodeStruct) Left() Node {
	if nil == node.left {
		return nil
	}
	return node.left
}

func (node *llrbMapNodeStruct) Right() Node {
	if nil == node.right {
		return nil
	}
	return node.right
}

func (node *llrbMapNodeStruct) IsRed() bool {
	return (RED == node.color)
}

func (node *llrbMapNodeStruct) IsAlive() bool {
	return node.alive
}

// API functions (see api.go)

func (tree *llrbMapStruct) Get(key Key) (value *Value, err error) {
	nodesAllocatedBefore := tree.nodesAllocated

	updatedRoot, location, err := tree.get(tree.root, key)
	if nil != err {
		return
	}

	tree.root = updatedRoot
	tree.root.color = BLACK

	if nodesAllocatedBefore != tree.nodesAllocated {
		tree.generation++
	}

	value = &location.value

	err = tree.validateIfRequested("Get")

	return
}

func (tree *llrbMapStruct) Put(key Key, value Value) (err error) {
	location, err := tree.Get(key)
	if nil != err {
		return
	}

	*location = value

	err = nil
	return
}

func (tree *llrbMapStruct) Erase(key Key) (err error) {
	node, err := tree.find(key)
	if nil != err {
		return
	}

	if (nil != node) && node.alive {
		node.alive = false
		stats.IncrementOperations(&stats.LLRBMapEraseOps)
	}

	err = tree.validateIfRequested("Erase")

	return
}

func (tree *llrbMapStruct) Includes(key Key) (iterator Iterator, err error) {
	var (
		compareResult int
		node          *llrbMapNodeStruct
		stack         []*llrbMapNodeStruct
	)

	node = tree.root

	for nil != node {
		stack = append(stack, node)

		compareResult, err = tree.Compare(key, node.key)
		if nil != err {
			err = blunder.AddError(err, blunder.CompareError)
			return
		}

		switch {
		case compareResult < 0: // key < node.key
			node = node.left
		case compareResult > 0: // key > node.key
			node = node.right
		default: // compareResult == 0 (key == node.key)
			if node.alive {
				iterator = &inorderIteratorStruct{tree: tree, generation: tree.generation, stack: stack}
			} else {
				iterator = tree.End()
			}
			err = nil
			return
		}
	}

	iterator = tree.End()
	err = nil

	return
}

func (tree *llrbMapStruct) Retrieve(key Key) (value Value, ok bool, err error) {
	iterator, err := tree.Includes(key)
	if nil != err {
		return
	}

	_, value, ok = iterator.Entry()

	err = nil
	return
}

func (tree *llrbMapStruct) Clear() {
	if logger.TraceEnabled() {
		logger.Tracef("llrbmap.Clear() releasing %v node(s)", tree.nodesAllocated)
	}

	tree.clear()
	tree.generation++

	err := tree.validateIfRequested("Clear")
	if nil != err {
		logger.ErrorfWithError(err, "llrbmap.Clear() left an invalid tree")
	}
}

func (tree *llrbMapStruct) Rehash() (err error) {
	var (
		iterator Iterator
		key      Key
		shadow   *llrbMapStruct
		value    Value
	)

	ctx := logger.TraceEnter("nodes:", tree.nodesAllocated)
	defer func() { ctx.TraceExitErr("nodes:", err, tree.nodesAllocated) }()

	shadow = tree.newShadow()

	for iterator = tree.Begin(); !iterator.Done(); iterator.Next() {
		key, value, _ = iterator.Entry()

		err = shadow.insert(key, value)
		if nil != err {
			logger.ErrorfWithError(err, "llrbmap.Rehash() aborted after %v of %v alive node(s)", shadow.nodesAllocated, tree.Size())
			shadow.clear()
			return
		}
	}

	stats.IncrementOperations(&stats.LLRBMapRehashOps)
	stats.IncrementOperationsBy(&stats.LLRBMapRehashReclaimedNodes, tree.nodesAllocated-shadow.nodesAllocated)

	tree.clear()

	tree.root = shadow.root
	tree.nodesAllocated = shadow.nodesAllocated
	tree.generation++

	err = tree.validateIfRequested("Rehash")

	return
}

func (tree *llrbMapStruct) Empty() bool {
	return (nil == tree.root)
}

func (tree *llrbMapStruct) Size() int {
	return tree.root.size()
}

func (tree *llrbMapStruct) NumNodes() int {
	return tree.root.numNodes()
}

func (tree *llrbMapStruct) Height() int {
	return tree.root.height()
}

func (tree *llrbMapStruct) Clone() (clone LLRBMap, err error) {
	ctx := logger.TraceEnter("nodes:", tree.nodesAllocated)
	defer func() { ctx.TraceExitErr("", err) }()

	shadow := tree.newShadow()
	shadow.validateOnMutation = tree.validateOnMutation

	shadow.root, err = shadow.clone(tree.root)
	if nil != err {
		return
	}

	clone = shadow
	err = nil

	return
}

func (tree *llrbMapStruct) Assign(from LLRBMap) (err error) {
	fromTree, ok := from.(*llrbMapStruct)
	if !ok {
		err = blunder.NewError(blunder.ForeignMapError, "llrbmap.Assign() from %T not supported", from)
		return
	}

	if fromTree == tree {
		err = nil
		return
	}

	shadow := tree.newShadow()

	shadow.root, err = shadow.clone(fromTree.root)
	if nil != err {
		return
	}

	tree.clear()

	tree.Compare = fromTree.Compare
	tree.DumpCallbacks = fromTree.DumpCallbacks
	tree.root = shadow.root
	tree.nodesAllocated = shadow.nodesAllocated
	tree.generation++

	err = tree.validateIfRequested("Assign")

	return
}

func (tree *llrbMapStruct) Root() Node {
	if nil == tree.root {
		return nil
	}
	return tree.root
}

func (tree *llrbMapStruct) SetValidateOnMutation(validateOnMutation bool) {
	tree.validateOnMutation = validateOnMutation
}

// insert is Put() for a tree no Iterator can yet reference
func (tree *llrbMapStruct) insert(key Key, value Value) (err error) {
	updatedRoot, location, err := tree.get(tree.root, key)
	if nil != err {
		return
	}

	tree.root = updatedRoot
	tree.root.color = BLACK

	location.value = value

	err = nil
	return
}

func (tree *llrbMapStruct) find(key Key) (node *llrbMapNodeStruct, err error) {
	var compareResult int

	node = tree.root

	for nil != node {
		compareResult, err = tree.Compare(key, node.key)
		if nil != err {
			node = nil
			err = blunder.AddError(err, blunder.CompareError)
			return
		}

		switch {
		case compareResult < 0: // key < node.key
			node = node.left
		case compareResult > 0: // key > node.key
			node = node.right
		default: // compareResult == 0 (key == node.key)
			err = nil
			return
		}
	}

	err = nil
	return
}

func (tree *llrbMapStruct) clear() {
	release(tree.root)
	tree.root = nil
	tree.nodesAllocated = 0
}

func (tree *llrbMapStruct) validateIfRequested(operation string) (err error) {
	if !tree.validateOnMutation {
		err = nil
		return
	}

	err = tree.Validate()
	if nil != err {
		logger.ErrorfWithError(err, "llrbmap.%v() left an invalid tree", operation)
	}

	return
}

// Recursive functions

// get descends to key, creating a red alive node at the bottom of the tree if
// key is absent, and repairs the LLRB invariants on the way back up.
//
// On error, no parent link has been changed: newNexusNode is returned as
// oldNexusNode and the caller must not relink it.
func (tree *llrbMapStruct) get(oldNexusNode *llrbMapNodeStruct, key Key) (newNexusNode *llrbMapNodeStruct, location *llrbMapNodeStruct, err error) {
	if nil == oldNexusNode {
		newNexusNode, err = tree.newNode(key, nil)
		if nil != err {
			return
		}

		location = newNexusNode
		err = nil

		return
	}

	newNexusNode = oldNexusNode

	compareResult, compareErr := tree.Compare(key, newNexusNode.key)
	if nil != compareErr {
		err = blunder.AddError(compareErr, blunder.CompareError)
		return
	}

	switch {
	case compareResult < 0: // key < newNexusNode.key
		updatedNewNexusNodeLeft, leftLocation, getErr := tree.get(newNexusNode.left, key)
		if nil != getErr {
			err = getErr
			return
		}
		newNexusNode.left = updatedNewNexusNodeLeft
		location = leftLocation
	case compareResult > 0: // key > newNexusNode.key
		updatedNewNexusNodeRight, rightLocation, getErr := tree.get(newNexusNode.right, key)
		if nil != getErr {
			err = getErr
			return
		}
		newNexusNode.right = updatedNewNexusNodeRight
		location = rightLocation
	default: // compareResult == 0 (key == newNexusNode.key)
		location = newNexusNode
		if !location.alive {
			location.alive = true
			stats.IncrementOperations(&stats.LLRBMapReviveOps)
		}
	}

	newNexusNode, err = tree.fixUp(newNexusNode)

	return
}

func (node *llrbMapNodeStruct) size() int {
	if nil == node {
		return 0
	}

	size := node.left.size() + node.right.size()
	if node.alive {
		size++
	}

	return size
}

func (node *llrbMapNodeStruct) numNodes() int {
	if nil == node {
		return 0
	}

	return 1 + node.left.numNodes() + node.right.numNodes()
}

func (node *llrbMapNodeStruct) height() int {
	if nil == node {
		return -1
	}

	leftHeight := node.left.height()
	rightHeight := node.right.height()

	if leftHeight < rightHeight {
		return 1 + rightHeight
	}

	return 1 + leftHeight
}

// clone returns a deep copy of node (and its descendants) allocated from tree.
//
// On error, every node clone allocated has been released again.
func (tree *llrbMapStruct) clone(node *llrbMapNodeStruct) (newNode *llrbMapNodeStruct, err error) {
	if nil == node {
		newNode = nil
		err = nil
		return
	}

	newNode, err = tree.newNode(node.key, node.value)
	if nil != err {
		return
	}

	newNode.color = node.color
	newNode.alive = node.alive

	newNode.left, err = tree.clone(node.left)
	if nil == err {
		newNode.right, err = tree.clone(node.right)
	}
	if nil != err {
		tree.nodesAllocated -= uint64(newNode.numNodes())
		release(newNode)
		newNode = nil
	}

	return
}

// release unlinks every node below node, deepest first
func release(node *llrbMapNodeStruct) {
	if nil == node {
		return
	}

	if nil != node.left {
		release(node.left)
		node.left = nil
	}
	if nil != node.right {
		release(node.right)
		node.right = nil
	}

	node.key = nil
	node.value = nil
}

// Helper functions

// newNode returns a red alive node not yet linked into the tree or, if the
// node budget is exhausted or the llrbmap.newNode trigger fires, an
// OutOfMemoryError.
func (tree *llrbMapStruct) newNode(key Key, value Value) (node *llrbMapNodeStruct, err error) {
	if (0 != tree.maxNodes) && (tree.nodesAllocated >= tree.maxNodes) {
		err = blunder.NewError(blunder.NodeBudgetError, "llrbmap: node budget (MaxNodes == %v) exhausted", tree.maxNodes)
		stats.IncrementOperations(&stats.LLRBMapNewNodeFailureOps)
		logger.ErrorfWithError(err, "llrbmap node allocation failure")
		return
	}

	err = halter.Trigger(halter.LLRBMapNewNode)
	if nil != err {
		err = blunder.AddError(err, blunder.OutOfMemoryError)
		stats.IncrementOperations(&stats.LLRBMapNewNodeFailureOps)
		logger.ErrorfWithError(err, "llrbmap node allocation failure")
		return
	}

	node = &llrbMapNodeStruct{key: key, value: value, left: nil, right: nil, color: RED, alive: true}
	tree.nodesAllocated++

	stats.IncrementOperations(&stats.LLRBMapNewNodeOps)

	err = nil
	return
}

func isRed(node *llrbMapNodeStruct) bool {
	if nil == node {
		return false
	}

	return (RED == node.color)
}

func isBlack(node *llrbMapNodeStruct) bool {
	if nil == node {
		return true
	}

	return (BLACK == node.color)
}

// colorFlip splits a (temporary) 4-node, pushing its red link up to the parent
func colorFlip(node *llrbMapNodeStruct) {
	node.color = RED
	node.left.color = BLACK
	node.right.color = BLACK

	stats.IncrementOperations(&stats.LLRBMapColorFlipOps)
}

func (tree *llrbMapStruct) rotateLeft(oldParentNode *llrbMapNodeStruct) (newParentNode *llrbMapNodeStruct, err error) {
	newParentNode = oldParentNode

	if (nil == oldParentNode) || isBlack(oldParentNode.right) {
		err = blunder.NewError(blunder.InvariantViolationError, "llrbmap.rotateLeft() called without a red right child")
		logger.ErrorfWithError(err, "llrbmap LLRB invariant violation")
		return
	}

	// Adjust children fields

	newParentNode = oldParentNode.right
	oldParentNode.right = newParentNode.left
	newParentNode.left = oldParentNode

	// Adjust color field

	newParentNode.color = oldParentNode.color
	oldParentNode.color = RED

	stats.IncrementOperations(&stats.LLRBMapRotateLeftOps)

	err = nil
	return
}

func (tree *llrbMapStruct) rotateRight(oldParentNode *llrbMapNodeStruct) (newParentNode *llrbMapNodeStruct, err error) {
	newParentNode = oldParentNode

	if (nil == oldParentNode) || isBlack(oldParentNode.left) {
		err = blunder.NewError(blunder.InvariantViolationError, "llrbmap.rotateRight() called without a red left child")
		logger.ErrorfWithError(err, "llrbmap LLRB invariant violation")
		return
	}

	// Adjust children fields

	newParentNode = oldParentNode.left
	oldParentNode.left = newParentNode.right
	newParentNode.right = oldParentNode

	// Adjust color field

	newParentNode.color = oldParentNode.color
	oldParentNode.color = RED

	stats.IncrementOperations(&stats.LLRBMapRotateRightOps)

	err = nil
	return
}

func (tree *llrbMapStruct) fixUp(oldNexusNode *llrbMapNodeStruct) (newNexusNode *llrbMapNodeStruct, err error) {
	newNexusNode = oldNexusNode

	if isRed(newNexusNode.right) && !isRed(newNexusNode.left) {
		newNexusNode, err = tree.rotateLeft(newNexusNode)
		if nil != err {
			return
		}
	}
	if isRed(newNexusNode.left) && isRed(newNexusNode.left.left) {
		newNexusNode, err = tree.rotateRight(newNexusNode)
		if nil != err {
			return
		}
	}
	if isRed(newNexusNode.left) && isRed(newNexusNode.right) {
		colorFlip(newNexusNode)
	}

	err = nil
	return
}
