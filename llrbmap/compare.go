// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package llrbmap

import (
	"github.com/NVIDIA/sortedmap"

	"github.com/NVIDIA/llrbmap/blunder"
)

// CompareAscending orders keys of the types sortedmap provides a Compare for
// (int, uint16, uint32, uint64, string, and []byte) in ascending order. Both
// keys must be of the same type.
func CompareAscending(key1 Key, key2 Key) (result int, err error) {
	switch key1.(type) {
	case int:
		result, err = sortedmap.CompareInt(key1, key2)
	case uint16:
		result, err = sortedmap.CompareUint16(key1, key2)
	case uint32:
		result, err = sortedmap.CompareUint32(key1, key2)
	case uint64:
		result, err = sortedmap.CompareUint64(key1, key2)
	case string:
		result, err = sortedmap.CompareString(key1, key2)
	case []byte:
		result, err = sortedmap.CompareByteSlice(key1, key2)
	default:
		err = blunder.NewError(blunder.CompareError, "llrbmap.CompareAscending() does not support key type %T", key1)
	}

	return
}
