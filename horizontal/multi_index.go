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

// Resolution of per-row integer indices into a shared string dictionary.

import (
	"github.com/apache/arrow/go/v7/arrow/array"
)

type indexTypes interface {
	int32 | int64 | uint32
}

// Gathers lookup[index[r]] for every row. Indices are bounds checked before
// they are narrowed to the uint32 gather index, so a 64 bit value can never
// alias a valid position.
func gather[T indexTypes](index DataColumn[T], lookup DataColumn[string], o *options) (*array.String, error) {
	n := int64(lookup.NumRows())
	bldr := array.NewStringBuilder(o.mem)
	defer bldr.Release()
	bldr.Reserve(index.NumRows())
	for rnum := 0; rnum < index.NumRows(); rnum++ {
		if index.IsNull(rnum) {
			bldr.AppendNull()
			continue
		}
		v := index.Item(rnum)
		if v < 0 || int64(v) >= n {
			return nil, computeErrorf(
				"multi_index: index out of bounds: %d (lookup length %d)", v, n)
		}
		i := int(uint32(v))
		if lookup.IsNull(i) {
			bldr.AppendNull()
			continue
		}
		bldr.Append(lookup.Item(i))
	}
	return bldr.NewStringArray(), nil
}

// MultiIndex resolves each row of index, a zero based position in lookup,
// to the string stored there. Null indices resolve to null. Any index
// outside lookup fails the whole call.
func MultiIndex(index, lookup Column, opts ...Option) (*array.String, error) {
	dict, ok := asData[string](lookup)
	if !ok {
		return nil, wrongColumnType("multi_index", 1, "string", lookup.Type())
	}
	o := newOptions(opts)
	switch ic := index.(type) {
	case DataColumn[uint32]:
		return gather(ic, dict, o)
	case DataColumn[int32]:
		return gather(ic, dict, o)
	case DataColumn[int64]:
		return gather(ic, dict, o)
	}
	return nil, computeErrorf("multi_index: unsupported index dtype: %s",
		typeName(index.Type()))
}

// MultiIndexTable applies MultiIndex to every column of t against the same
// lookup column, returning one result per column. On failure nothing is
// returned.
func MultiIndexTable(t *Table, lookup Column, opts ...Option) ([]*array.String, error) {
	result := make([]*array.String, 0, t.NumCols())
	for _, c := range t.Columns() {
		out, err := MultiIndex(c, lookup, opts...)
		if err != nil {
			for _, r := range result {
				r.Release()
			}
			return nil, err
		}
		result = append(result, out)
	}
	return result, nil
}
