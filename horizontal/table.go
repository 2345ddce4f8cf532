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
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v7/arrow"
)

// Signature is the sequence of column data types of a table.
type Signature []arrow.DataType

func (s Signature) String() string {
	names := make([]string, len(s))
	for i, dt := range s {
		names[i] = typeName(dt)
	}
	return strings.Join(names, "*")
}

// Table is an ordered sequence of columns that all have the same number of
// rows. Columns need not share a type unless an operation requires it.
type Table struct {
	cols   []Column
	nrows  int
	record arrow.Record // nil unless built from a record
}

// NewTable returns a table over the given columns, failing if the columns
// differ in length.
func NewTable(cols ...Column) (*Table, error) {
	nrows := 0
	if len(cols) > 0 {
		nrows = cols[0].NumRows()
	}
	for i, c := range cols {
		if c.NumRows() != nrows {
			return nil, computeErrorf(
				"column %d (%s) has %d rows, expected %d",
				i, c.Name(), c.NumRows(), nrows)
		}
	}
	return &Table{cols: cols, nrows: nrows}, nil
}

// FromArrays returns a table over the given arrays, naming the columns
// column_0, column_1, ...
func FromArrays(arrays ...arrow.Array) (*Table, error) {
	cols := make([]Column, len(arrays))
	for i, a := range arrays {
		cols[i] = NewColumn(fmt.Sprintf("column_%d", i), a)
	}
	return NewTable(cols...)
}

// FromRecord returns a table over the columns of the given record, using the
// schema field names as column names. The table does not retain the record.
func FromRecord(record arrow.Record) *Table {
	schema := record.Schema()
	ncols := int(record.NumCols())
	cols := make([]Column, ncols)
	for i := 0; i < ncols; i++ {
		cols[i] = NewColumn(schema.Field(i).Name, record.Column(i))
	}
	return &Table{cols: cols, nrows: int(record.NumRows()), record: record}
}

func (t *Table) Column(cnum int) Column {
	return t.cols[cnum]
}

func (t *Table) Columns() []Column {
	return t.cols
}

// Lookup returns the first column with the given name.
func (t *Table) Lookup(name string) (Column, bool) {
	for _, c := range t.cols {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Names returns the column names in column order.
func (t *Table) Names() []string {
	result := make([]string, len(t.cols))
	for i, c := range t.cols {
		result[i] = c.Name()
	}
	return result
}

func (t *Table) NumCols() int {
	return len(t.cols)
}

func (t *Table) NumRows() int {
	return t.nrows
}

// Record returns the record the table was built from, if any.
func (t *Table) Record() arrow.Record {
	return t.record
}

func (t *Table) GetRow(rnum int, out []any) {
	for cnum, c := range t.cols {
		out[cnum] = c.Value(rnum)
	}
}

// Row materializes the values at the given row index, nil for nulls.
func (t *Table) Row(rnum int) []any {
	result := make([]any, len(t.cols))
	t.GetRow(rnum, result)
	return result
}

// Select returns a table over the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]Column, len(names))
	for i, name := range names {
		c, ok := t.Lookup(name)
		if !ok {
			return nil, computeErrorf("column '%s' not found", name)
		}
		cols[i] = c
	}
	return &Table{cols: cols, nrows: t.nrows, record: t.record}, nil
}

// Returns the type signature describing the table.
func (t *Table) Signature() Signature {
	result := make(Signature, len(t.cols))
	for i, c := range t.cols {
		result[i] = c.Type()
	}
	return result
}

func (t *Table) Strings(rnum int) []string {
	row := make([]string, len(t.cols))
	for cnum, c := range t.cols {
		row[cnum] = c.String(rnum)
	}
	return row
}

func (t *Table) String(rnum int) string {
	return "(" + strings.Join(t.Strings(rnum), ", ") + ")"
}

// Returns the common data type of all columns, or a schema mismatch error.
func (t *Table) commonType(op string) (arrow.DataType, error) {
	if len(t.cols) == 0 {
		return nil, emptyTable(op)
	}
	dt := t.cols[0].Type()
	for _, c := range t.cols[1:] {
		if !arrow.TypeEqual(c.Type(), dt) {
			return nil, schemaMismatch(op)
		}
	}
	return dt, nil
}
