// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package llrbmap

import (
	"bytes"

	"github.com/creachadair/cityhash"
)

// Fingerprint hashes the alive key:value pairs in key order as rendered by
// DumpKey and DumpValue. Maps holding equal content fingerprint equally
// regardless of shape or tombstones.
func (tree *llrbMapStruct) Fingerprint() (fingerprint uint64, err error) {
	var (
		buf           bytes.Buffer
		iterator      Iterator
		key           Key
		keyAsString   string
		value         Value
		valueAsString string
	)

	for iterator = tree.Begin(); !iterator.Done(); iterator.Next() {
		key, value, _ = iterator.Entry()

		keyAsString, err = tree.DumpKey(key)
		if nil != err {
			return
		}
		valueAsString, err = tree.DumpValue(value)
		if nil != err {
			return
		}

		buf.WriteString(keyAsString)
		buf.WriteByte(':')
		buf.WriteString(valueAsString)
		buf.WriteByte('\n')
	}

	fingerprint = cityhash.Hash64(buf.Bytes())
	err = nil

	return
}

// StructuralFingerprint hashes a pre-order walk of every node (key, color,
// and liveness) including absent children, so it distinguishes shape as
// well as content.
func (tree *llrbMapStruct) StructuralFingerprint() (fingerprint uint64, err error) {
	var buf bytes.Buffer

	err = tree.appendStructure(&buf, tree.root)
	if nil != err {
		return
	}

	fingerprint = cityhash.Hash64(buf.Bytes())
	err = nil

	return
}

func (tree *llrbMapStruct) appendStructure(buf *bytes.Buffer, node *llrbMapNodeStruct) (err error) {
	if nil == node {
		buf.WriteByte('-')
		err = nil
		return
	}

	keyAsString, err := tree.DumpKey(node.key)
	if nil != err {
		return
	}

	buf.WriteByte('(')
	buf.WriteByte(bwChar(node))
	buf.WriteString(keyAsString)
	buf.WriteByte(' ')

	err = tree.appendStructure(buf, node.left)
	if nil != err {
		return
	}
	err = tree.appendStructure(buf, node.right)
	if nil != err {
		return
	}

	buf.WriteByte(')')

	err = nil
	return
}
