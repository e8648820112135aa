// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package llrbmap provides a sorted key to value map built on a Left-Leaning
// Red-Black (LLRB) tree.
//
// Erase never removes a node. It marks the node dead (a tombstone) so that the
// tree's shape, and with it the red-black balance, is left untouched. Dead
// nodes are skipped by lookups and in-order iteration, are revived by a
// subsequent Get or Put of the same key, and are physically reclaimed only by
// Rehash or Clear.
//
// An LLRBMap is not safe for concurrent use. Callers sharing one across
// goroutines must serialize every call (including iterator use) themselves.
package llrbmap

import (
	"io"

	"github.com/NVIDIA/sortedmap"
)

type Key = sortedmap.Key
type Value = sortedmap.Value

// Compare returns <0 if key1 < key2, 0 if key1 == key2, >0 if key1 > key2.
type Compare = sortedmap.Compare

// DumpCallbacks renders keys and values for Dump, DumpLevels, and the Fingerprint methods.
type DumpCallbacks = sortedmap.DumpCallbacks

// Node is the read-only view of a tree node offered to iterators and dump routines.
//
// Left() and Right() return a nil Node (not a nil pointer wrapped in a Node)
// when the child is absent.
type Node interface {
	Key() Key
	Value() Value
	Left() Node
	Right() Node
	IsRed() bool
	IsAlive() bool
}

// Iterator walks the alive entries of an LLRBMap in key order.
//
// An Iterator positioned past either end is at "end" and reports Done() == true.
// Next() and Prev() on an end Iterator are no-ops returning false. Any
// structural change to the map (Get or Put of a new key, Rehash, Clear, or
// Assign) invalidates outstanding Iterators, which thereafter report Done().
type Iterator interface {
	Done() bool
	Entry() (key Key, value Value, ok bool)
	SetValue(value Value) (err error)
	Next() (ok bool)
	Prev() (ok bool)
	Equal(other Iterator) bool
}

// LevelorderIterator walks every node of an LLRBMap, dead ones included, breadth-first.
type LevelorderIterator interface {
	Done() bool
	Node() Node
	Next() (ok bool)
}

type LLRBMap interface {
	// Get returns a pointer to the value stored for key. A missing key is
	// inserted with a nil value; a dead key is revived with its prior value.
	// An existing value is never overwritten.
	Get(key Key) (value *Value, err error)
	Put(key Key, value Value) (err error)
	Erase(key Key) (err error)
	Includes(key Key) (iterator Iterator, err error)
	Retrieve(key Key) (value Value, ok bool, err error)
	Clear()
	Rehash() (err error)

	Empty() bool
	Size() int
	NumNodes() int
	Height() int

	Clone() (clone LLRBMap, err error)
	Assign(from LLRBMap) (err error)

	Begin() Iterator
	Last() Iterator
	End() Iterator
	LevelorderBegin() LevelorderIterator
	Root() Node

	Validate() (err error)
	SetValidateOnMutation(validateOnMutation bool)

	Dump() (err error)
	DumpBW(w io.Writer) (err error)
	DumpLevels(w io.Writer, keyWidth int, fill byte) (err error)
	Fingerprint() (fingerprint uint64, err error)
	StructuralFingerprint() (fingerprint uint64, err error)
}

// NewLLRBMap returns an empty LLRBMap ordered by compare (CompareAscending if nil).
//
// If callbacks is nil, keys and values are rendered with fmt's %v verb.
func NewLLRBMap(compare Compare, callbacks DumpCallbacks) (llrbMap LLRBMap) {
	llrbMap = newLLRBMap(compare, callbacks)
	return
}
