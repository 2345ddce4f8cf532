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
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
)

func makeIndent(indent int) string {
	return strings.Repeat(" ", indent)
}

// Encode the given item as JSON to the given writer.
func Encode(w io.Writer, item interface{}, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", makeIndent(indent))
	return enc.Encode(item)
}

type Showable interface {
	Show(w io.Writer)
}

// Result is a named output column of an operation.
type Result struct {
	Name string
	Data arrow.Array
}

func (r *Result) Release() {
	r.Data.Release()
}

func (r *Result) NumRows() int {
	return r.Data.Len()
}

// Value returns the value at the given row, nil for null. List rows are
// returned as []any.
func (r *Result) Value(rnum int) any {
	return arrayValue(r.Data, rnum)
}

// Values returns every row value, see Value.
func (r *Result) Values() []any {
	result := make([]any, r.Data.Len())
	for rnum := range result {
		result[rnum] = r.Value(rnum)
	}
	return result
}

func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{r.Name: r.Values()})
}

func (r *Result) Show(w io.Writer) {
	fmt.Fprintf(w, "# %s (%s)\n", r.Name, r.Data.DataType())
	for rnum := 0; rnum < r.Data.Len(); rnum++ {
		fmt.Fprintln(w, displayString(r.Value(rnum)))
	}
}

// Results is the output of an operation that produces several columns.
type Results []*Result

func (rs Results) Release() {
	for _, r := range rs {
		r.Release()
	}
}

func (rs Results) Show(w io.Writer) {
	for i, r := range rs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		r.Show(w)
	}
}

func (rs Results) MarshalJSON() ([]byte, error) {
	result := make(map[string]any, len(rs))
	for _, r := range rs {
		result[r.Name] = r.Values()
	}
	return json.Marshal(result)
}

func arrayValue(a arrow.Array, rnum int) any {
	if a.IsNull(rnum) {
		return nil
	}
	if l, ok := a.(*array.List); ok {
		offsets := l.Offsets()
		values := l.ListValues()
		beg, end := int(offsets[rnum]), int(offsets[rnum+1])
		result := make([]any, 0, end-beg)
		for i := beg; i < end; i++ {
			result = append(result, arrayValue(values, i))
		}
		return result
	}
	return NewColumn("", a).Value(rnum)
}

// Returns a "showable" string for the given value.
func displayString(v interface{}) string {
	switch vv := v.(type) {
	case nil:
		return null
	case bool:
		return strconv.FormatBool(vv)
	case string:
		return fmt.Sprintf("\"%s\"", vv)
	case []any:
		items := make([]string, len(vv))
		for i, item := range vv {
			items[i] = displayString(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	}
	return fmt.Sprintf("%v", v)
}

// ShowTable prints the table one row per line, preceded by its signature.
func ShowTable(w io.Writer, t *Table) {
	fmt.Fprintf(w, "# (%s)\n", t.Signature())
	for rnum := 0; rnum < t.NumRows(); rnum++ {
		row := t.Row(rnum)
		for i, item := range row {
			if i > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprint(w, displayString(item))
		}
		fmt.Fprintln(w)
	}
}
