// Copyright 2023 RelationalAI, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package horizontal

import (
	"github.com/apache/arrow/go/v7/arrow"
	"github.com/pkg/errors"
)

// Error kinds. Every error returned by an operation wraps one of these, use
// errors.Is to test the kind.
var (
	// Columns that must share a data type do not.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// Malformed input: empty table, unsupported type, index out of bounds.
	ErrCompute = errors.New("compute error")
)

func schemaMismatch(op string) error {
	return errors.Wrapf(ErrSchemaMismatch,
		"%s: all input columns must have the same data type", op)
}

func computeErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrCompute, format, args...)
}

func emptyTable(op string) error {
	return computeErrorf("%s requires at least one input column", op)
}

func unsupportedType(op string, dt arrow.DataType) error {
	return computeErrorf("%s: unsupported dtype: %s", op, typeName(dt))
}

func wrongColumnType(op string, cnum int, want string, got arrow.DataType) error {
	return computeErrorf("%s: input %d is not a %s column, got: %s",
		op, cnum, want, typeName(got))
}

func typeName(dt arrow.DataType) string {
	if dt == nil {
		return "unknown"
	}
	return dt.Name()
}
