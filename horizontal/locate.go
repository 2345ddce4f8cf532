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

// Null and boolean locators.

import (
	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
)

// Returns the index of the first null column at the given row, or -1.
func firstNull(cols []Column, rnum int) int {
	for cnum, c := range cols {
		if c.IsNull(rnum) {
			return cnum
		}
	}
	return -1
}

// ArgFirstNull returns, for each row, the index of the first column whose
// value is null, or null if no column is. Columns may be of any type.
func ArgFirstNull(t *Table, opts ...Option) (*array.Uint32, error) {
	if t.NumCols() == 0 {
		return nil, emptyTable("arg_first_null")
	}
	cols := t.Columns()
	return scanIndices(t.NumRows(), newOptions(opts), func(rnum int) int {
		return firstNull(cols, rnum)
	}), nil
}

// truthColumn reports the truthiness of one column's values. Null is false.
type truthColumn interface {
	truth(rnum int) bool
}

type boolTruth struct {
	DataColumn[bool]
}

func (c boolTruth) truth(rnum int) bool {
	return !c.IsNull(rnum) && c.Item(rnum)
}

// Numeric values are true when nonzero. NaN is nonzero.
type numericTruth[T NumericTypes] struct {
	DataColumn[T]
}

func (c numericTruth[T]) truth(rnum int) bool {
	return !c.IsNull(rnum) && c.Item(rnum) != 0
}

type falseTruth struct{}

func (falseTruth) truth(int) bool {
	return false
}

// Returns a truthiness accessor for the given column, coercing numeric
// columns to boolean.
func newTruthColumn(op string, cnum int, c Column) (truthColumn, error) {
	switch dc := c.(type) {
	case DataColumn[bool]:
		return boolTruth{dc}, nil
	case DataColumn[float64]:
		return numericTruth[float64]{dc}, nil
	case DataColumn[float32]:
		return numericTruth[float32]{dc}, nil
	case DataColumn[int64]:
		return numericTruth[int64]{dc}, nil
	case DataColumn[int32]:
		return numericTruth[int32]{dc}, nil
	case DataColumn[uint64]:
		return numericTruth[uint64]{dc}, nil
	case DataColumn[uint32]:
		return numericTruth[uint32]{dc}, nil
	}
	if c.Type().ID() == arrow.NULL {
		return falseTruth{}, nil
	}
	return nil, wrongColumnType(op, cnum, "boolean-coercible", c.Type())
}

func truthColumns(op string, t *Table) ([]truthColumn, error) {
	if t.NumCols() == 0 {
		return nil, emptyTable(op)
	}
	result := make([]truthColumn, t.NumCols())
	for i, c := range t.Columns() {
		tc, err := newTruthColumn(op, i, c)
		if err != nil {
			return nil, err
		}
		result[i] = tc
	}
	return result, nil
}

// ArgFirstTrue returns, for each row, the index of the first column holding
// a true value, or null if there is none. Numeric columns are coerced,
// nonzero is true. Nulls are false.
func ArgFirstTrue(t *Table, opts ...Option) (*array.Uint32, error) {
	cols, err := truthColumns("arg_first_true", t)
	if err != nil {
		return nil, err
	}
	return scanIndices(t.NumRows(), newOptions(opts), func(rnum int) int {
		for cnum, c := range cols {
			if c.truth(rnum) {
				return cnum
			}
		}
		return -1
	}), nil
}

// ArgTrue returns, for each row, the ordered list of indices of all columns
// holding a true value. Rows without one produce an empty list, not null.
func ArgTrue(t *Table, opts ...Option) (*array.List, error) {
	cols, err := truthColumns("arg_true", t)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	nrows := t.NumRows()
	bldr := array.NewListBuilder(o.mem, arrow.PrimitiveTypes.Int32)
	defer bldr.Release()
	bldr.Reserve(nrows)
	values := bldr.ValueBuilder().(*array.Int32Builder)
	for rnum := 0; rnum < nrows; rnum++ {
		bldr.Append(true)
		for cnum, c := range cols {
			if c.truth(rnum) {
				values.Append(int32(cnum))
			}
		}
	}
	return bldr.NewListArray(), nil
}
