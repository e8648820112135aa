// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

package blunder

import "strconv"

func (err MapError) String() string {
	switch err {
	case SuccessError:
		return "SuccessError"
	case NotFoundError:
		return "NotFoundError"
	case OutOfMemoryError:
		return "OutOfMemoryError"
	case InvalidArgError:
		return "InvalidArgError"
	case NotSupportedError:
		return "NotSupportedError"
	case InvariantViolationError:
		return "InvariantViolationError"
	case CorruptIteratorError:
		return "CorruptIteratorError"
	default:
		return "MapError(" + strconv.Itoa(int(err)) + ")"
	}
}
