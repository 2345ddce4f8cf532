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

// Row-wise arg max / arg min across same-typed numeric columns, and the
// column-wise is max / is min masks.
//
// Nulls are skipped. Comparison is strict, so among equal extrema the
// leftmost (or, for masks, the first) position wins. NaN is not null but
// never wins a comparison, so a row holding only NaN and nulls has no
// extremum.

import (
	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
)

type extremum int

const (
	maximum extremum = iota
	minimum
)

func (e extremum) String() string {
	if e == maximum {
		return "arg_max"
	}
	return "arg_min"
}

// Tracks the best value offered so far and its position.
type best[T NumericTypes] struct {
	mode  extremum
	pos   int
	value T
}

func newBest[T NumericTypes](mode extremum) best[T] {
	return best[T]{mode: mode, pos: -1}
}

func (b *best[T]) offer(pos int, v T) {
	if v != v { // NaN
		return
	}
	if b.pos >= 0 {
		if b.mode == maximum && !(v > b.value) {
			return
		}
		if b.mode == minimum && !(v < b.value) {
			return
		}
	}
	b.pos, b.value = pos, v
}

// Returns typed accessors for every column of the table.
func typedColumns[T NumericTypes](op string, t *Table) ([]DataColumn[T], error) {
	result := make([]DataColumn[T], t.NumCols())
	for i, c := range t.Columns() {
		dc, ok := asData[T](c)
		if !ok {
			return nil, unsupportedType(op, c.Type())
		}
		result[i] = dc
	}
	return result, nil
}

func scanExtreme[T NumericTypes](t *Table, mode extremum, o *options) (*array.Uint32, error) {
	cols, err := typedColumns[T](mode.String(), t)
	if err != nil {
		return nil, err
	}
	return scanIndices(t.NumRows(), o, func(rnum int) int {
		b := newBest[T](mode)
		for cnum, c := range cols {
			if !c.IsNull(rnum) {
				b.offer(cnum, c.Item(rnum))
			}
		}
		return b.pos
	}), nil
}

func argExtreme(t *Table, mode extremum, o *options) (*array.Uint32, error) {
	op := mode.String()
	dt, err := t.commonType(op)
	if err != nil {
		return nil, err
	}
	switch dt.ID() {
	case arrow.FLOAT64:
		return scanExtreme[float64](t, mode, o)
	case arrow.FLOAT32:
		return scanExtreme[float32](t, mode, o)
	case arrow.INT64:
		return scanExtreme[int64](t, mode, o)
	case arrow.INT32:
		return scanExtreme[int32](t, mode, o)
	case arrow.UINT64:
		return scanExtreme[uint64](t, mode, o)
	case arrow.UINT32:
		return scanExtreme[uint32](t, mode, o)
	}
	return nil, unsupportedType(op, dt)
}

// ArgMax returns, for each row, the index of the column holding the largest
// non-null value, or null if there is none.
func ArgMax(t *Table, opts ...Option) (*array.Uint32, error) {
	return argExtreme(t, maximum, newOptions(opts))
}

// ArgMin returns, for each row, the index of the column holding the
// smallest non-null value, or null if there is none.
func ArgMin(t *Table, opts ...Option) (*array.Uint32, error) {
	return argExtreme(t, minimum, newOptions(opts))
}

// Maps an index column through names. Null stays null, an index outside
// names maps to "".
func indexNames(idx *array.Uint32, names []string, o *options) *array.String {
	bldr := array.NewStringBuilder(o.mem)
	defer bldr.Release()
	bldr.Reserve(idx.Len())
	for rnum := 0; rnum < idx.Len(); rnum++ {
		if idx.IsNull(rnum) {
			bldr.AppendNull()
			continue
		}
		name := ""
		if i := int(idx.Value(rnum)); i < len(names) {
			name = names[i]
		}
		bldr.Append(name)
	}
	return bldr.NewStringArray()
}

func argExtremeColName(t *Table, names []string, mode extremum, o *options) (*array.String, error) {
	idx, err := argExtreme(t, mode, o)
	if err != nil {
		return nil, err
	}
	defer idx.Release()
	if names == nil {
		names = t.Names()
	}
	return indexNames(idx, names, o), nil
}

// ArgMaxColName is ArgMax with each index replaced by the corresponding
// entry of names. A nil names uses the table's column names.
func ArgMaxColName(t *Table, names []string, opts ...Option) (*array.String, error) {
	return argExtremeColName(t, names, maximum, newOptions(opts))
}

// ArgMinColName is ArgMin with each index replaced by the corresponding
// entry of names. A nil names uses the table's column names.
func ArgMinColName(t *Table, names []string, opts ...Option) (*array.String, error) {
	return argExtremeColName(t, names, minimum, newOptions(opts))
}

// Returns the position of the first extreme value in the column, or -1.
func columnExtreme[T NumericTypes](c DataColumn[T], mode extremum) int {
	b := newBest[T](mode)
	for rnum := 0; rnum < c.NumRows(); rnum++ {
		if !c.IsNull(rnum) {
			b.offer(rnum, c.Item(rnum))
		}
	}
	return b.pos
}

func extremePosition(op string, c Column, mode extremum) (int, error) {
	switch dc := c.(type) {
	case DataColumn[float64]:
		return columnExtreme(dc, mode), nil
	case DataColumn[float32]:
		return columnExtreme(dc, mode), nil
	case DataColumn[int64]:
		return columnExtreme(dc, mode), nil
	case DataColumn[int32]:
		return columnExtreme(dc, mode), nil
	case DataColumn[uint64]:
		return columnExtreme(dc, mode), nil
	case DataColumn[uint32]:
		return columnExtreme(dc, mode), nil
	}
	if c.Type().ID() == arrow.NULL {
		return -1, nil
	}
	return -1, unsupportedType(op, c.Type())
}

func isExtreme(op string, c Column, mode extremum, o *options) (*array.Boolean, error) {
	pos, err := extremePosition(op, c, mode)
	if err != nil {
		return nil, err
	}
	nrows := c.NumRows()
	mask := make([]bool, nrows)
	if pos >= 0 {
		mask[pos] = true
	}
	bldr := array.NewBooleanBuilder(o.mem)
	defer bldr.Release()
	bldr.AppendValues(mask, nil)
	return bldr.NewBooleanArray(), nil
}

// IsMax returns a mask that is true only at the first position of the
// column's largest non-null value. The mask is all false if the column has
// no such value.
func IsMax(c Column, opts ...Option) (*array.Boolean, error) {
	return isExtreme("is_max", c, maximum, newOptions(opts))
}

// IsMin returns a mask that is true only at the first position of the
// column's smallest non-null value.
func IsMin(c Column, opts ...Option) (*array.Boolean, error) {
	return isExtreme("is_min", c, minimum, newOptions(opts))
}
