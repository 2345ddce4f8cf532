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

// Read-only column accessors over Apache Arrow arrays.
//
// A Column never owns or mutates its array, it borrows it for the duration
// of a call. Columns are cheap to construct, all accessors are O(1).

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
	"github.com/apache/arrow/go/v7/arrow/float16"
)

type intTypes interface {
	int32 | int64 | uint32 | uint64
}

type floatTypes interface {
	float32 | float64
}

// NumericTypes are the element types accepted by the extremum scanner.
type NumericTypes interface {
	intTypes | floatTypes
}

// PrimitiveTypes are the element types a Column may hold.
type PrimitiveTypes interface {
	bool | NumericTypes | string
}

// Column provides access to a single column of data.
type Column interface {
	Array() arrow.Array
	IsNull(int) bool
	Name() string
	NumRows() int
	String(int) string
	Type() arrow.DataType
	Value(int) any // nil if null
}

// DataColumn is a Column with a typed accessor. Item does not check
// validity, callers test IsNull first.
type DataColumn[T PrimitiveTypes] interface {
	Column
	Item(int) T
}

type baseColumn struct {
	name string
	data arrow.Array
}

func (c baseColumn) Array() arrow.Array {
	return c.data
}

func (c baseColumn) IsNull(rnum int) bool {
	return c.data.IsNull(rnum)
}

func (c baseColumn) Name() string {
	return c.name
}

func (c baseColumn) NumRows() int {
	return c.data.Len()
}

func (c baseColumn) Type() arrow.DataType {
	return c.data.DataType()
}

// Represents a column of fixed width numeric values.
type primitiveColumn[T NumericTypes] struct {
	baseColumn
	values []T
}

func newPrimitiveColumn[T NumericTypes](name string, a arrow.Array, v []T) DataColumn[T] {
	return primitiveColumn[T]{baseColumn{name, a}, v}
}

func (c primitiveColumn[T]) Item(rnum int) T {
	return c.values[rnum]
}

func (c primitiveColumn[T]) String(rnum int) string {
	if c.data.IsNull(rnum) {
		return null
	}
	return fmt.Sprintf("%v", c.values[rnum])
}

func (c primitiveColumn[T]) Value(rnum int) any {
	if c.data.IsNull(rnum) {
		return nil
	}
	return c.values[rnum]
}

// The `array.Boolean` type is bit packed and has no `Values` accessor.
type boolColumn struct {
	baseColumn
	values *array.Boolean
}

func newBoolColumn(name string, a *array.Boolean) DataColumn[bool] {
	return boolColumn{baseColumn{name, a}, a}
}

func (c boolColumn) Item(rnum int) bool {
	return c.values.Value(rnum)
}

func (c boolColumn) String(rnum int) string {
	if c.data.IsNull(rnum) {
		return null
	}
	return strconv.FormatBool(c.values.Value(rnum))
}

func (c boolColumn) Value(rnum int) any {
	if c.data.IsNull(rnum) {
		return nil
	}
	return c.values.Value(rnum)
}

type stringColumn struct {
	baseColumn
	values *array.String
}

func newStringColumn(name string, a *array.String) DataColumn[string] {
	return stringColumn{baseColumn{name, a}, a}
}

func (c stringColumn) Item(rnum int) string {
	return c.values.Value(rnum)
}

func (c stringColumn) String(rnum int) string {
	if c.data.IsNull(rnum) {
		return null
	}
	return c.values.Value(rnum)
}

func (c stringColumn) Value(rnum int) any {
	if c.data.IsNull(rnum) {
		return nil
	}
	return c.values.Value(rnum)
}

// A column of arrow type `null`, every row is null.
type nullColumn struct {
	baseColumn
}

func (c nullColumn) IsNull(int) bool {
	return true
}

func (c nullColumn) String(int) string {
	return null
}

func (c nullColumn) Value(int) any {
	return nil
}

// Represents a column whose element type the engine does not interpret.
// Only its validity is available, which is all the null locator needs.
type unknownColumn struct {
	baseColumn
}

func (c unknownColumn) String(rnum int) string {
	if c.data.IsNull(rnum) {
		return null
	}
	return unknown
}

func (c unknownColumn) Value(rnum int) any {
	if c.data.IsNull(rnum) {
		return nil
	}
	return unknown
}

const (
	null    = "null"
	unknown = "unknown"
)

// NewColumn returns a column accessor for the given arrow array.
func NewColumn(name string, a arrow.Array) Column {
	switch aa := a.(type) {
	case *array.Boolean:
		return newBoolColumn(name, aa)
	case *array.Float16:
		return float16Column{baseColumn{name, aa}, aa.Values()}
	case *array.Float32:
		return newPrimitiveColumn(name, a, aa.Float32Values())
	case *array.Float64:
		return newPrimitiveColumn(name, a, aa.Float64Values())
	case *array.Int32:
		return newPrimitiveColumn(name, a, aa.Int32Values())
	case *array.Int64:
		return newPrimitiveColumn(name, a, aa.Int64Values())
	case *array.Uint32:
		return newPrimitiveColumn(name, a, aa.Uint32Values())
	case *array.Uint64:
		return newPrimitiveColumn(name, a, aa.Uint64Values())
	case *array.String:
		return newStringColumn(name, aa)
	case *array.Null:
		return nullColumn{baseColumn{name, aa}}
	}
	return unknownColumn{baseColumn{name, a}}
}

// Half precision floats are displayed but not scanned; the extremum scanner
// rejects them like any other unsupported type.
type float16Column struct {
	baseColumn
	values []float16.Num
}

func (c float16Column) String(rnum int) string {
	if c.data.IsNull(rnum) {
		return null
	}
	return c.values[rnum].String()
}

func (c float16Column) Value(rnum int) any {
	if c.data.IsNull(rnum) {
		return nil
	}
	return c.values[rnum].Float32()
}

// Returns the typed accessor for the given column, or false if the
// column's element type is not T.
func asData[T PrimitiveTypes](c Column) (DataColumn[T], bool) {
	dc, ok := c.(DataColumn[T])
	return dc, ok
}
