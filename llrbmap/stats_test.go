// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package llrbmap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NVIDIA/llrbmap/stats"
)

func TestStats(t *testing.T) {
	assert := assert.New(t)
	context := newTestContext(t)

	stats.Reset()

	context.putKeys(1, 2, 3)

	statMap := stats.Dump()
	assert.Equal(uint64(3), statMap[stats.LLRBMapNewNodeOps])
	assert.Equal(uint64(1), statMap[stats.LLRBMapRotateLeftOps])
	assert.Equal(uint64(0), statMap[stats.LLRBMapRotateRightOps])
	assert.Equal(uint64(1), statMap[stats.LLRBMapColorFlipOps])

	// Only the first Erase() of a key kills it
	context.eraseKeys(2, 2, 4)
	assert.Equal(uint64(1), stats.Dump()[stats.LLRBMapEraseOps])

	context.putKeys(2)
	assert.Equal(uint64(1), stats.Dump()[stats.LLRBMapReviveOps])
	assert.Equal(uint64(3), stats.Dump()[stats.LLRBMapNewNodeOps])

	context.eraseKeys(3)
	err := context.llrbMap.Rehash()
	assert.Nil(err)

	statMap = stats.Dump()
	assert.Equal(uint64(1), statMap[stats.LLRBMapRehashOps])
	assert.Equal(uint64(1), statMap[stats.LLRBMapRehashReclaimedNodes])
	assert.Equal(uint64(5), statMap[stats.LLRBMapNewNodeOps])
	assert.Equal(uint64(2), statMap[stats.LLRBMapRotateLeftOps])

	tree := context.llrbMap.(*llrbMapStruct)
	tree.maxNodes = 2
	err = context.llrbMap.Put(9, "9")
	assert.NotNil(err)
	assert.Equal(uint64(1), stats.Dump()[stats.LLRBMapNewNodeFailureOps])
}
