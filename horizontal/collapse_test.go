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
	"math/rand"
	"testing"

	"github.com/apache/arrow/go/v7/arrow"
	"github.com/stretchr/testify/require"
)

func TestCollapseCollectAll(t *testing.T) {
	mem := newMem(t)
	tbl := newTable(t,
		strs(mem, "a", nil, "d"),
		strs(mem, nil, nil, "e"),
		strs(mem, "c", nil, "f"))

	result, err := CollapseColumns(tbl, CollectAll, WithAllocator(mem))
	require.Nil(t, err)
	defer result.Release()
	require.Equal(t, 0, result.NullN())
	require.Equal(t, [][]any{
		{"a", "c"},
		{},
		{"d", "e", "f"},
	}, lists(result))
}

func TestCollapseStopOnFirstNull(t *testing.T) {
	mem := newMem(t)
	tbl := newTable(t,
		strs(mem, "a", nil, "d", "g"),
		strs(mem, nil, "b", "e", "h"),
		strs(mem, "c", "c", "f", nil))

	result, err := CollapseColumns(tbl, StopOnFirstNull, WithAllocator(mem))
	require.Nil(t, err)
	defer result.Release()
	require.Equal(t, [][]any{
		{"a"},
		{},
		{"d", "e", "f"},
		{"g", "h"},
	}, lists(result))
}

func TestCollapseErrors(t *testing.T) {
	mem := newMem(t)

	empty, err := FromArrays()
	require.Nil(t, err)
	_, err = CollapseColumns(empty, CollectAll, WithAllocator(mem))
	require.ErrorIs(t, err, ErrCompute)

	mixed := newTable(t, strs(mem, "a"), int32s(mem, 1))
	_, err = CollapseColumns(mixed, StopOnFirstNull, WithAllocator(mem))
	require.ErrorIs(t, err, ErrCompute)
	require.Contains(t, err.Error(), "input 1 is not a string column, got: int32")

	text := newTable(t, strs(mem, "a"))
	_, err = CollapseColumns(text, Policy(7), WithAllocator(mem))
	require.ErrorIs(t, err, ErrCompute)
}

func TestPolicy(t *testing.T) {
	require.Equal(t, CollectAll, PolicyFromFlag(false))
	require.Equal(t, StopOnFirstNull, PolicyFromFlag(true))
	require.Equal(t, "collect-all", CollectAll.String())
	require.Equal(t, "stop-on-first-null", StopOnFirstNull.String())
}

// The boundary scan used for stop-on-first-null must agree with a plain
// row by row scan.
func TestCollapsePrefixMatchesScan(t *testing.T) {
	mem := newMem(t)
	rng := rand.New(rand.NewSource(7))
	const nrows, ncols = 300, 6
	arrays := make([]arrow.Array, ncols)
	for cnum := range arrays {
		items := make([]any, nrows)
		for rnum := range items {
			// Leave some columns free of nulls.
			if cnum%3 != 2 && rng.Intn(4) == 0 {
				continue
			}
			items[rnum] = fmt.Sprintf("%d.%d", rnum, cnum)
		}
		arrays[cnum] = strs(mem, items...)
	}
	tbl := newTable(t, arrays...)
	cols, err := stringColumns("collapse_columns", tbl)
	require.Nil(t, err)

	o := newOptions([]Option{WithAllocator(mem)})
	scanned := collapseScan(cols, nrows, StopOnFirstNull, o)
	defer scanned.Release()
	prefixed := collapsePrefix(cols, nrows, o)
	defer prefixed.Release()
	require.Equal(t, lists(scanned), lists(prefixed))
}
