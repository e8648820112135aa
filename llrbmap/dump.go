// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package llrbmap

import (
	"bufio"
	"container/list"
	"fmt"
	"io"
	"strings"
)

func (tree *llrbMapStruct) Dump() (err error) {
	err = tree.dumpInFlatForm(tree.root)
	if nil != err {
		err = fmt.Errorf("dumpInFlatForm() failed: %v\n", err)
		fmt.Printf("\n%v\n", err)
		return
	}

	err = tree.dumpInTreeForm()
	if nil != err {
		err = fmt.Errorf("dumpInTreeForm() failed: %v\n", err)
		fmt.Printf("\n%v\n", err)
		return
	}

	err = nil
	return
}

func (tree *llrbMapStruct) dumpInFlatForm(node *llrbMapNodeStruct) (err error) {
	if nil == node {
		err = nil
		return
	}

	nodeLeftKey := "nil"
	if nil != node.left {
		nodeLeftKey, err = tree.DumpKey(node.left.key)
		if nil != err {
			return
		}
	}

	nodeRightKey := "nil"
	if nil != node.right {
		nodeRightKey, err = tree.DumpKey(node.right.key)
		if nil != err {
			return
		}
	}

	var colorString string
	if RED == node.color {
		colorString = "RED"
	} else { // BLACK == node.color
		colorString = "BLACK"
	}

	var livenessString string
	if node.alive {
		livenessString = "ALIVE"
	} else {
		livenessString = "DEAD"
	}

	nodeThisKey, err := tree.DumpKey(node.key)
	if nil != err {
		return
	}

	nodeThisValue, err := tree.DumpValue(node.value)
	if nil != err {
		return
	}

	fmt.Printf("%v %v Node Key == %v Node.Value == %v Node.left.Key == %v Node.right.Key == %v\n", colorString, livenessString, nodeThisKey, nodeThisValue, nodeLeftKey, nodeRightKey)

	err = tree.dumpInFlatForm(node.left)
	if nil != err {
		return
	}

	err = tree.dumpInFlatForm(node.right)
	if nil != err {
		return
	}

	err = nil
	return
}

func (tree *llrbMapStruct) dumpInTreeForm() (err error) {
	if nil == tree.root {
		err = nil
		return
	}

	if nil != tree.root.right {
		err = tree.dumpInTreeFormNode(tree.root.right, true, "")
		if nil != err {
			return
		}
	}

	rootKey, err := tree.DumpKey(tree.root.key)
	if nil != err {
		return
	}

	fmt.Printf("%v\n", rootKey)

	if nil != tree.root.left {
		err = tree.dumpInTreeFormNode(tree.root.left, false, "")
		if nil != err {
			return
		}
	}

	err = nil
	return
}

func (tree *llrbMapStruct) dumpInTreeFormNode(node *llrbMapNodeStruct, isRight bool, indent string) (err error) {
	var indentAppendage string
	var nextIndent string

	if nil != node.right {
		if isRight {
			indentAppendage = "        "
		} else {
			indentAppendage = " |      "
		}
		nextIndent = strings.Join([]string{indent, indentAppendage}, "")
		err = tree.dumpInTreeFormNode(node.right, true, nextIndent)
		if nil != err {
			return
		}
	}

	fmt.Printf("%v", indent)
	if isRight {
		fmt.Printf(" /")
	} else {
		fmt.Printf(" \\")
	}

	nodeKey, err := tree.DumpKey(node.key)
	if nil != err {
		return
	}

	if node.alive {
		fmt.Printf("----- %v\n", nodeKey)
	} else {
		fmt.Printf("----- (%v)\n", nodeKey)
	}

	if nil != node.left {
		if isRight {
			indentAppendage = " |      "
		} else {
			indentAppendage = "        "
		}
		nextIndent = strings.Join([]string{indent, indentAppendage}, "")
		err = tree.dumpInTreeFormNode(node.left, false, nextIndent)
		if nil != err {
			return
		}
	}

	err = nil
	return
}

// The level dumps below only use the Node interface.
//
// Each output line is one level of the tree. In the "filled" forms every
// level is a full 2^level positions wide with absent nodes drawn as the fill
// character, so a node's children sit at positions 2i and 2i+1 of the next
// line. Within a queue, a nil Node marks an absent position.

// bwChar renders color and liveness as one character: B/b black alive/dead, R/r red alive/dead
func bwChar(node Node) byte {
	switch {
	case node.IsRed() && node.IsAlive():
		return 'R'
	case node.IsRed():
		return 'r'
	case node.IsAlive():
		return 'B'
	default:
		return 'b'
	}
}

// DumpBW writes the shape of the tree, one level per line, using bwChar for
// each node and '-' for each absent position.
func (tree *llrbMapStruct) DumpBW(w io.Writer) (err error) {
	err = dumpFilledLevels(w, tree.Root(), func(bw *bufio.Writer, node Node) (err error) {
		if nil == node {
			err = bw.WriteByte('-')
		} else {
			err = bw.WriteByte(bwChar(node))
		}
		return
	}, " ")

	return
}

// DumpLevels writes the keys of the tree, one level per line, each right
// justified in keyWidth columns. If fill is 0, only present nodes are written.
// Otherwise absent positions are written as fill.
func (tree *llrbMapStruct) DumpLevels(w io.Writer, keyWidth int, fill byte) (err error) {
	var (
		columnPrefix string
		linePrefix   string
	)

	if 1 < keyWidth {
		columnPrefix = " "
		linePrefix = ""
	} else {
		columnPrefix = ""
		linePrefix = " "
	}

	writeKey := func(bw *bufio.Writer, node Node) (err error) {
		var keyAsString string

		if nil == node {
			_, err = fmt.Fprintf(bw, "%s%*c", columnPrefix, keyWidth, fill)
			return
		}

		keyAsString, err = tree.DumpKey(node.Key())
		if nil != err {
			return
		}

		_, err = fmt.Fprintf(bw, "%s%*s", columnPrefix, keyWidth, keyAsString)

		return
	}

	if 0 == fill {
		err = dumpCompactLevels(w, tree.Root(), writeKey, linePrefix)
	} else {
		err = dumpFilledLevels(w, tree.Root(), writeKey, linePrefix)
	}

	return
}

func dumpFilledLevels(w io.Writer, root Node, writeNode func(bw *bufio.Writer, node Node) error, linePrefix string) (err error) {
	var (
		currLayerSize int
		layerWidth    int
		nextLayerSize int
		node          Node
	)

	if nil == root {
		err = nil
		return
	}

	bw := bufio.NewWriter(w)
	queue := list.New()

	queue.PushBack(root)
	currLayerSize = 1
	layerWidth = 1

	for 0 < currLayerSize {
		nextLayerSize = 0

		_, err = bw.WriteString(linePrefix)
		if nil != err {
			return
		}

		for i := 0; i < layerWidth; i++ {
			node, _ = queue.Remove(queue.Front()).(Node)

			err = writeNode(bw, node)
			if nil != err {
				return
			}

			if nil == node {
				queue.PushBack(nil)
				queue.PushBack(nil)
				continue
			}

			if nil != node.Left() {
				queue.PushBack(node.Left())
				nextLayerSize++
			} else {
				queue.PushBack(nil)
			}
			if nil != node.Right() {
				queue.PushBack(node.Right())
				nextLayerSize++
			} else {
				queue.PushBack(nil)
			}
		}

		err = bw.WriteByte('\n')
		if nil != err {
			return
		}

		currLayerSize = nextLayerSize
		layerWidth *= 2
	}

	err = bw.Flush()

	return
}

func dumpCompactLevels(w io.Writer, root Node, writeNode func(bw *bufio.Writer, node Node) error, linePrefix string) (err error) {
	var (
		currLayerSize int
		nextLayerSize int
		node          Node
	)

	if nil == root {
		err = nil
		return
	}

	bw := bufio.NewWriter(w)
	queue := list.New()

	queue.PushBack(root)
	currLayerSize = 1

	for 0 < currLayerSize {
		nextLayerSize = 0

		_, err = bw.WriteString(linePrefix)
		if nil != err {
			return
		}

		for i := 0; i < currLayerSize; i++ {
			node = queue.Remove(queue.Front()).(Node)

			err = writeNode(bw, node)
			if nil != err {
				return
			}

			if nil != node.Left() {
				queue.PushBack(node.Left())
				nextLayerSize++
			}
			if nil != node.Right() {
				queue.PushBack(node.Right())
				nextLayerSize++
			}
		}

		err = bw.WriteByte('\n')
		if nil != err {
			return
		}

		currLayerSize = nextLayerSize
	}

	err = bw.Flush()

	return
}
