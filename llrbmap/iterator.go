// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package llrbmap

import (
	"container/list"

	"github.com/NVIDIA/llrbmap/blunder"
)

// inorderIteratorStruct holds the descent path from the root to the current
// node (at the top). An empty stack is "end".
type inorderIteratorStruct struct {
	tree       *llrbMapStruct
	generation uint64
	stack      []*llrbMapNodeStruct
}

type levelorderIteratorStruct struct {
	tree       *llrbMapStruct
	generation uint64
	queue      *list.List // of *llrbMapNodeStruct; front is current
}

func (tree *llrbMapStruct) Begin() Iterator {
	iterator := tree.newInorderIterator()

	if nil != tree.root {
		iterator.pushLeftSpine(tree.root)
		if !iterator.top().alive {
			_ = iterator.Next()
		}
	}

	return iterator
}

func (tree *llrbMapStruct) Last() Iterator {
	iterator := tree.newInorderIterator()

	if nil != tree.root {
		iterator.pushRightSpine(tree.root)
		if !iterator.top().alive {
			_ = iterator.Prev()
		}
	}

	return iterator
}

func (tree *llrbMapStruct) End() Iterator {
	return tree.newInorderIterator()
}

func (tree *llrbMapStruct) LevelorderBegin() LevelorderIterator {
	iterator := &levelorderIteratorStruct{
		tree:       tree,
		generation: tree.generation,
		queue:      list.New(),
	}

	if nil != tree.root {
		iterator.queue.PushBack(tree.root)
	}

	return iterator
}

func (tree *llrbMapStruct) newInorderIterator() (iterator *inorderIteratorStruct) {
	iterator = &inorderIteratorStruct{
		tree:       tree,
		generation: tree.generation,
		stack:      nil,
	}
	return
}

// Iterator interface

func (iterator *inorderIteratorStruct) Done() bool {
	return (0 == len(iterator.stack)) || iterator.stale()
}

func (iterator *inorderIteratorStruct) Entry() (key Key, value Value, ok bool) {
	if iterator.Done() {
		ok = false
		return
	}

	node := iterator.top()

	if !node.alive {
		// Erased since this Iterator was positioned
		ok = false
		return
	}

	key = node.key
	value = node.value
	ok = true

	return
}

func (iterator *inorderIteratorStruct) SetValue(value Value) (err error) {
	if iterator.stale() {
		err = blunder.NewError(blunder.CorruptIteratorError, "llrbmap.Iterator.SetValue() on an Iterator invalidated by a structural change")
		return
	}
	if 0 == len(iterator.stack) {
		err = blunder.NewError(blunder.NotFoundError, "llrbmap.Iterator.SetValue() on an end Iterator")
		return
	}
	if !iterator.top().alive {
		err = blunder.NewError(blunder.NotFoundError, "llrbmap.Iterator.SetValue() on an erased entry")
		return
	}

	iterator.top().value = value

	err = nil
	return
}

func (iterator *inorderIteratorStruct) Next() (ok bool) {
	if iterator.Done() {
		ok = false
		return
	}

	for {
		iterator.stepForward()
		if 0 == len(iterator.stack) {
			ok = false
			return
		}
		if iterator.top().alive {
			ok = true
			return
		}
	}
}

func (iterator *inorderIteratorStruct) Prev() (ok bool) {
	if iterator.Done() {
		ok = false
		return
	}

	for {
		iterator.stepBackward()
		if 0 == len(iterator.stack) {
			ok = false
			return
		}
		if iterator.top().alive {
			ok = true
			return
		}
	}
}

func (iterator *inorderIteratorStruct) Equal(other Iterator) bool {
	otherIterator, ok := other.(*inorderIteratorStruct)
	if !ok {
		return false
	}

	if iterator.Done() || otherIterator.Done() {
		return iterator.Done() && otherIterator.Done()
	}

	return (iterator.tree == otherIterator.tree) && (iterator.top() == otherIterator.top())
}

func (iterator *inorderIteratorStruct) stale() bool {
	return (iterator.generation != iterator.tree.generation)
}

func (iterator *inorderIteratorStruct) top() *llrbMapNodeStruct {
	return iterator.stack[len(iterator.stack)-1]
}

func (iterator *inorderIteratorStruct) pop() (node *llrbMapNodeStruct) {
	node = iterator.top()
	iterator.stack = iterator.stack[:len(iterator.stack)-1]
	return
}

func (iterator *inorderIteratorStruct) pushLeftSpine(node *llrbMapNodeStruct) {
	for nil != node {
		iterator.stack = append(iterator.stack, node)
		node = node.left
	}
}

func (iterator *inorderIteratorStruct) pushRightSpine(node *llrbMapNodeStruct) {
	for nil != node {
		iterator.stack = append(iterator.stack, node)
		node = node.right
	}
}

// stepForward moves to the in-order successor, alive or not
func (iterator *inorderIteratorStruct) stepForward() {
	node := iterator.top()

	if nil != node.right {
		iterator.pushLeftSpine(node.right)
		return
	}

	// Climb until we arrive from a left child
	for {
		child := iterator.pop()
		if 0 == len(iterator.stack) {
			return
		}
		if child == iterator.top().left {
			return
		}
	}
}

// stepBackward moves to the in-order predecessor, alive or not
func (iterator *inorderIteratorStruct) stepBackward() {
	node := iterator.top()

	if nil != node.left {
		iterator.pushRightSpine(node.left)
		return
	}

	// Climb until we arrive from a right child
	for {
		child := iterator.pop()
		if 0 == len(iterator.stack) {
			return
		}
		if child == iterator.top().right {
			return
		}
	}
}

// LevelorderIterator interface

func (iterator *levelorderIteratorStruct) Done() bool {
	return (0 == iterator.queue.Len()) || (iterator.generation != iterator.tree.generation)
}

func (iterator *levelorderIteratorStruct) Node() Node {
	if iterator.Done() {
		return nil
	}

	return iterator.queue.Front().Value.(*llrbMapNodeStruct)
}

func (iterator *levelorderIteratorStruct) Next() (ok bool) {
	if iterator.Done() {
		ok = false
		return
	}

	node := iterator.queue.Remove(iterator.queue.Front()).(*llrbMapNodeStruct)

	if nil != node.left {
		iterator.queue.PushBack(node.left)
	}
	if nil != node.right {
		iterator.queue.PushBack(node.right)
	}

	ok = !iterator.Done()

	return
}
