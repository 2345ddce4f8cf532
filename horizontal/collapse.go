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

// Collation of string columns into one list per row.

import (
	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
)

// Policy selects how nulls are handled while collapsing a row.
type Policy int

const (
	// Append every non-null value, skipping nulls.
	CollectAll Policy = iota

	// Append values until the first null, ignore the rest of the row.
	StopOnFirstNull
)

// PolicyFromFlag maps the `stop_on_first_null` option to a policy.
func PolicyFromFlag(stopOnFirstNull bool) Policy {
	if stopOnFirstNull {
		return StopOnFirstNull
	}
	return CollectAll
}

func (p Policy) String() string {
	switch p {
	case CollectAll:
		return "collect-all"
	case StopOnFirstNull:
		return "stop-on-first-null"
	}
	return "unknown"
}

func stringColumns(op string, t *Table) ([]DataColumn[string], error) {
	if t.NumCols() == 0 {
		return nil, emptyTable(op)
	}
	result := make([]DataColumn[string], t.NumCols())
	for i, c := range t.Columns() {
		sc, ok := asData[string](c)
		if !ok {
			return nil, wrongColumnType(op, i, "string", c.Type())
		}
		result[i] = sc
	}
	return result, nil
}

// Builds a list<string> column one row at a time.
type stringListBuilder struct {
	list   *array.ListBuilder
	values *array.StringBuilder
}

func newStringListBuilder(o *options, nrows int) *stringListBuilder {
	list := array.NewListBuilder(o.mem, arrow.BinaryTypes.String)
	list.Reserve(nrows)
	return &stringListBuilder{list, list.ValueBuilder().(*array.StringBuilder)}
}

func (b *stringListBuilder) startRow() {
	b.list.Append(true)
}

func (b *stringListBuilder) append(v string) {
	b.values.Append(v)
}

func (b *stringListBuilder) finish() *array.List {
	defer b.list.Release()
	return b.list.NewListArray()
}

// Visits every cell left to right, applying the policy as it goes.
func collapseScan(cols []DataColumn[string], nrows int, policy Policy, o *options) *array.List {
	b := newStringListBuilder(o, nrows)
	for rnum := 0; rnum < nrows; rnum++ {
		b.startRow()
		for _, c := range cols {
			if c.IsNull(rnum) {
				if policy == StopOnFirstNull {
					break
				}
				continue
			}
			b.append(c.Item(rnum))
		}
	}
	return b.finish()
}

// Returns, for each row, the number of leading non-null cells, that is the
// index of the first null column or len(cols) if there is none. Columns
// without nulls cannot end a prefix and are not inspected.
func validPrefixes(cols []DataColumn[string], nrows int) []int {
	bounds := make([]int, nrows)
	for rnum := range bounds {
		bounds[rnum] = len(cols)
	}
	for cnum := len(cols) - 1; cnum >= 0; cnum-- {
		c := cols[cnum]
		if c.Array().NullN() == 0 {
			continue
		}
		for rnum := 0; rnum < nrows; rnum++ {
			if c.IsNull(rnum) {
				bounds[rnum] = cnum // scanning right to left leaves the leftmost
			}
		}
	}
	return bounds
}

// Two pass stop-on-first-null: locate each row's valid prefix, then copy it
// without further validity checks.
func collapsePrefix(cols []DataColumn[string], nrows int, o *options) *array.List {
	bounds := validPrefixes(cols, nrows)
	b := newStringListBuilder(o, nrows)
	for rnum, bound := range bounds {
		b.startRow()
		for _, c := range cols[:bound] {
			b.append(c.Item(rnum))
		}
	}
	return b.finish()
}

// CollapseColumns collapses the string columns of t into one list per row,
// in column order, handling nulls according to policy. Values are neither
// deduplicated nor reordered, empty strings are kept.
func CollapseColumns(t *Table, policy Policy, opts ...Option) (*array.List, error) {
	const op = "collapse_columns"
	cols, err := stringColumns(op, t)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)
	switch policy {
	case CollectAll:
		return collapseScan(cols, t.NumRows(), policy, o), nil
	case StopOnFirstNull:
		return collapsePrefix(cols, t.NumRows(), o), nil
	}
	return nil, computeErrorf("%s: unknown null policy %d", op, int(policy))
}
