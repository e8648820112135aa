// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package llrbmap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NVIDIA/llrbmap/blunder"
	"github.com/NVIDIA/llrbmap/halter"
)

func TestRotationRequiresRedChild(t *testing.T) {
	assert := assert.New(t)

	tree := newLLRBMap(nil, nil)

	blackRight := &llrbMapNodeStruct{key: 2, color: BLACK, alive: true}
	parent := &llrbMapNodeStruct{key: 1, right: blackRight, color: BLACK, alive: true}

	newParent, err := tree.rotateLeft(parent)
	assert.True(blunder.Is(err, blunder.InvariantViolationError))
	assert.Equal(parent, newParent)
	assert.Equal(blackRight, parent.right)
	assert.Equal(BLACK, parent.color)

	newParent, err = tree.rotateRight(parent)
	assert.True(blunder.Is(err, blunder.InvariantViolationError))
	assert.Equal(parent, newParent)
	assert.Nil(parent.left)

	newParent, err = tree.rotateLeft(nil)
	assert.True(blunder.Is(err, blunder.InvariantViolationError))
	assert.Nil(newParent)

	// With a red child, rotation hands the parent's color to the new parent
	blackRight.color = RED
	newParent, err = tree.rotateLeft(parent)
	assert.Nil(err)
	assert.Equal(blackRight, newParent)
	assert.Equal(parent, newParent.left)
	assert.Nil(parent.right)
	assert.Equal(BLACK, newParent.color)
	assert.Equal(RED, parent.color)

	newParent, err = tree.rotateRight(newParent)
	assert.Nil(err)
	assert.Equal(parent, newParent)
	assert.Equal(blackRight, newParent.right)
	assert.Equal(BLACK, newParent.color)
	assert.Equal(RED, blackRight.color)
}

func TestValidateDetectsCorruption(t *testing.T) {
	assert := assert.New(t)
	context := newTestContext(t)

	context.putKeys(1, 2, 3, 4, 5, 6, 7)
	context.validate()

	tree := context.llrbMap.(*llrbMapStruct)

	tree.root.right.color = RED
	err := tree.Validate()
	assert.True(blunder.Is(err, blunder.InvariantViolationError))
	tree.root.right.color = BLACK
	context.validate()

	tree.root.color = RED
	err = tree.Validate()
	assert.True(blunder.Is(err, blunder.InvariantViolationError))
	tree.root.color = BLACK

	tree.root.left.left.color = RED
	err = tree.Validate()
	assert.True(blunder.Is(err, blunder.InvariantViolationError), "unequal black height")
	tree.root.left.left.color = BLACK

	tree.root.left.key, tree.root.right.key = tree.root.right.key, tree.root.left.key
	err = tree.Validate()
	assert.True(blunder.Is(err, blunder.InvariantViolationError), "key order")
	tree.root.left.key, tree.root.right.key = tree.root.right.key, tree.root.left.key
	context.validate()

	tree.nodesAllocated++
	err = tree.Validate()
	assert.True(blunder.Is(err, blunder.InvariantViolationError), "node accounting")
	tree.nodesAllocated--
	context.validate()
}

func TestGetAllocationFailure(t *testing.T) {
	assert := assert.New(t)
	context := newTestContext(t)

	defer func() { _ = halter.Down() }()

	context.putKeys(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	context.eraseKeys(5)

	structuralFingerprint, err := context.llrbMap.StructuralFingerprint()
	assert.Nil(err)

	err = halter.Arm("llrbmap.newNode", 1)
	assert.Nil(err)

	// Revival and lookup of existing keys never allocate
	err = context.llrbMap.Put(5, "five")
	assert.Nil(err)
	_, err = context.llrbMap.Get(7)
	assert.Nil(err)

	err = context.llrbMap.Put(11, "11")
	assert.True(blunder.Is(err, blunder.OutOfMemoryError))
	_, _, err = context.llrbMap.Retrieve(11)
	assert.Nil(err)
	assert.Equal(10, context.llrbMap.NumNodes())
	assert.Equal(10, context.llrbMap.Size())
	context.validate()

	context.eraseKeys(5)
	structuralFingerprintAfter, err := context.llrbMap.StructuralFingerprint()
	assert.Nil(err)
	assert.Equal(structuralFingerprint, structuralFingerprintAfter)

	// The trigger disarmed itself on firing
	err = context.llrbMap.Put(11, "11")
	assert.Nil(err)
	assert.Equal(11, context.llrbMap.NumNodes())
	context.validate()
}

func TestCloneAllocationFailure(t *testing.T) {
	assert := assert.New(t)
	context := newTestContext(t)

	defer func() { _ = halter.Down() }()

	context.putKeys(1, 2, 3, 4, 5, 6, 7)
	context.eraseKeys(2)

	err := halter.Arm("llrbmap.newNode", 5)
	assert.Nil(err)

	clone, err := context.llrbMap.Clone()
	assert.True(blunder.Is(err, blunder.OutOfMemoryError))
	assert.Nil(clone)
	assert.Equal(7, context.llrbMap.NumNodes())
	assert.Equal(6, context.llrbMap.Size())
	context.validate()

	otherContext := newTestContext(t)
	otherContext.putKeys(100, 200)

	err = halter.Arm("llrbmap.newNode", 3)
	assert.Nil(err)

	err = otherContext.llrbMap.Assign(context.llrbMap)
	assert.True(blunder.Is(err, blunder.OutOfMemoryError))
	assert.Equal([]int{100, 200}, inorderKeys(otherContext.llrbMap))
	otherContext.validate()
}

func TestRehashAllocationFailure(t *testing.T) {
	assert := assert.New(t)
	context := newTestContext(t)

	defer func() { _ = halter.Down() }()

	context.putKeys(1, 2, 3, 4, 5, 6, 7, 8)
	context.eraseKeys(1, 8)

	structuralFingerprint, err := context.llrbMap.StructuralFingerprint()
	assert.Nil(err)

	iterator := context.llrbMap.Begin()

	err = halter.Arm("llrbmap.newNode", 4)
	assert.Nil(err)

	err = context.llrbMap.Rehash()
	assert.True(blunder.Is(err, blunder.OutOfMemoryError))

	structuralFingerprintAfter, err := context.llrbMap.StructuralFingerprint()
	assert.Nil(err)
	assert.Equal(structuralFingerprint, structuralFingerprintAfter)
	assert.Equal(8, context.llrbMap.NumNodes())
	assert.Equal(6, context.llrbMap.Size())
	assert.False(iterator.Done())
	context.validate()

	err = context.llrbMap.Rehash()
	assert.Nil(err)
	assert.Equal(6, context.llrbMap.NumNodes())
	assert.Equal([]int{2, 3, 4, 5, 6, 7}, inorderKeys(context.llrbMap))
	context.validate()
}

func TestNodeBudget(t *testing.T) {
	assert := assert.New(t)
	context := newTestContext(t)

	tree := context.llrbMap.(*llrbMapStruct)
	tree.maxNodes = 3

	context.putKeys(1, 2, 3)

	err := context.llrbMap.Put(4, "4")
	assert.True(blunder.Is(err, blunder.NodeBudgetError))

	// Tombstones still count against the budget until reclaimed
	context.eraseKeys(1)
	err = context.llrbMap.Put(4, "4")
	assert.True(blunder.Is(err, blunder.OutOfMemoryError))
	context.validate()

	err = context.llrbMap.Rehash()
	assert.Nil(err)
	assert.Equal(2, context.llrbMap.NumNodes())

	err = context.llrbMap.Put(4, "4")
	assert.Nil(err)
	assert.Equal([]int{2, 3, 4}, inorderKeys(context.llrbMap))
	context.validate()

	clone, err := context.llrbMap.Clone()
	assert.Nil(err)
	err = clone.Put(5, "5")
	assert.True(blunder.Is(err, blunder.OutOfMemoryError))

	context.llrbMap.Clear()
	context.putKeys(7, 8, 9)
	assert.Equal(3, context.llrbMap.Size())
	context.validate()
}

func TestRetrieveMissIsLogarithmic(t *testing.T) {
	assert := assert.New(t)

	numCompares := 0
	countingCompare := func(key1 Key, key2 Key) (result int, err error) {
		numCompares++
		result, err = CompareAscending(key1, key2)
		return
	}

	tree := newLLRBMap(countingCompare, nil)
	for key := 0; key < 4096; key++ {
		err := tree.Put(key, key)
		assert.Nil(err)
	}

	numCompares = 0
	_, ok, err := tree.Retrieve(-1)
	assert.Nil(err)
	assert.False(ok)
	assert.True(numCompares <= tree.Height()+1, "Retrieve(-1) made %v compares", numCompares)

	err = tree.Erase(2048)
	assert.Nil(err)
	numCompares = 0
	iterator, err := tree.Includes(2048)
	assert.Nil(err)
	assert.True(iterator.Done())
	assert.True(numCompares <= tree.Height()+1, "Includes(2048) made %v compares", numCompares)

	// Neither an end Iterator nor a positioned one sizes its stack by walking the tree
	assert.Equal(0, cap(tree.End().(*inorderIteratorStruct).stack))
	assert.Nil(tree.newInorderIterator().stack)
}

func BenchmarkRetrieveMiss(b *testing.B) {
	tree := newLLRBMap(nil, nil)
	for key := 0; key < 1<<16; key++ {
		_ = tree.Put(key, key)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _, _ = tree.Retrieve(-1)
	}
}
