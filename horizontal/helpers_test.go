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
	"testing"

	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
	"github.com/apache/arrow/go/v7/arrow/memory"
	"github.com/stretchr/testify/require"
)

// Test fixtures build arrays from []any, where nil is null.

func newMem(t *testing.T) *memory.CheckedAllocator {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	t.Cleanup(func() { mem.AssertSize(t, 0) })
	return mem
}

func float64s(mem memory.Allocator, items ...any) arrow.Array {
	b := array.NewFloat64Builder(mem)
	defer b.Release()
	for _, item := range items {
		if item == nil {
			b.AppendNull()
			continue
		}
		b.Append(item.(float64))
	}
	return b.NewArray()
}

func float32s(mem memory.Allocator, items ...any) arrow.Array {
	b := array.NewFloat32Builder(mem)
	defer b.Release()
	for _, item := range items {
		if item == nil {
			b.AppendNull()
			continue
		}
		b.Append(item.(float32))
	}
	return b.NewArray()
}

func int32s(mem memory.Allocator, items ...any) arrow.Array {
	b := array.NewInt32Builder(mem)
	defer b.Release()
	for _, item := range items {
		if item == nil {
			b.AppendNull()
			continue
		}
		b.Append(int32(item.(int)))
	}
	return b.NewArray()
}

func int64s(mem memory.Allocator, items ...any) arrow.Array {
	b := array.NewInt64Builder(mem)
	defer b.Release()
	for _, item := range items {
		if item == nil {
			b.AppendNull()
			continue
		}
		b.Append(int64(item.(int)))
	}
	return b.NewArray()
}

func uint32s(mem memory.Allocator, items ...any) arrow.Array {
	b := array.NewUint32Builder(mem)
	defer b.Release()
	for _, item := range items {
		if item == nil {
			b.AppendNull()
			continue
		}
		b.Append(uint32(item.(int)))
	}
	return b.NewArray()
}

func uint64s(mem memory.Allocator, items ...any) arrow.Array {
	b := array.NewUint64Builder(mem)
	defer b.Release()
	for _, item := range items {
		if item == nil {
			b.AppendNull()
			continue
		}
		b.Append(uint64(item.(int)))
	}
	return b.NewArray()
}

func bools(mem memory.Allocator, items ...any) arrow.Array {
	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	for _, item := range items {
		if item == nil {
			b.AppendNull()
			continue
		}
		b.Append(item.(bool))
	}
	return b.NewArray()
}

func strs(mem memory.Allocator, items ...any) arrow.Array {
	b := array.NewStringBuilder(mem)
	defer b.Release()
	for _, item := range items {
		if item == nil {
			b.AppendNull()
			continue
		}
		b.Append(item.(string))
	}
	return b.NewArray()
}

func nulls(n int) arrow.Array {
	return array.NewNull(n)
}

// Builds a table over the given arrays and releases them when the test ends.
func newTable(t *testing.T, arrays ...arrow.Array) *Table {
	t.Cleanup(func() { releaseArrays(arrays) })
	result, err := FromArrays(arrays...)
	require.Nil(t, err)
	return result
}

func newCol(t *testing.T, name string, a arrow.Array) Column {
	t.Cleanup(a.Release)
	return NewColumn(name, a)
}

// Returns the values of an index array, nil for null.
func indices(a *array.Uint32) []any {
	result := make([]any, a.Len())
	for i := range result {
		if !a.IsNull(i) {
			result[i] = a.Value(i)
		}
	}
	return result
}

func strValues(a *array.String) []any {
	result := make([]any, a.Len())
	for i := range result {
		if !a.IsNull(i) {
			result[i] = a.Value(i)
		}
	}
	return result
}

func mask(a *array.Boolean) []bool {
	result := make([]bool, a.Len())
	for i := range result {
		result[i] = !a.IsNull(i) && a.Value(i)
	}
	return result
}

// Returns the rows of a list array as nested slices.
func lists(a *array.List) [][]any {
	result := make([][]any, a.Len())
	for i := range result {
		row := arrayValue(a, i).([]any)
		if row == nil {
			row = []any{}
		}
		result[i] = row
	}
	return result
}

// Expected index values; ints become uint32, nil stays null.
func want(items ...any) []any {
	result := make([]any, len(items))
	for i, item := range items {
		if n, ok := item.(int); ok {
			result[i] = uint32(n)
		}
	}
	return result
}
