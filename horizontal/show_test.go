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
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultShow(t *testing.T) {
	mem := newMem(t)
	tbl := newTable(t,
		strs(mem, "a", nil),
		strs(mem, "c", "d"))
	list, err := CollapseColumns(tbl, CollectAll, WithAllocator(mem))
	require.Nil(t, err)
	r := &Result{Name: "collapse_columns", Data: list}
	defer r.Release()

	var buf bytes.Buffer
	r.Show(&buf)
	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "# collapse_columns (list<"))
	require.Equal(t, []string{`["a", "c"]`, `["d"]`, ""}, lines[1:])

	data, err := json.Marshal(r)
	require.Nil(t, err)
	require.JSONEq(t, `{"collapse_columns": [["a", "c"], ["d"]]}`, string(data))
}

func TestResultsJSON(t *testing.T) {
	mem := newMem(t)
	tbl := newTable(t,
		int32s(mem, 1, nil),
		int32s(mem, 2, nil))
	idx, err := ArgMax(tbl, WithAllocator(mem))
	require.Nil(t, err)
	flags, err := IsMax(tbl.Column(0), WithAllocator(mem))
	require.Nil(t, err)
	results := Results{{Name: "arg_max", Data: idx}, {Name: "is_max", Data: flags}}
	defer results.Release()

	var buf bytes.Buffer
	require.Nil(t, Encode(&buf, results, 2))
	require.JSONEq(t, `{"arg_max": [1, null], "is_max": [true, false]}`, buf.String())

	buf.Reset()
	results.Show(&buf)
	require.Equal(t, "# arg_max (uint32)\n1\nnull\n\n# is_max (bool)\ntrue\nfalse\n", buf.String())
}

func TestShowTable(t *testing.T) {
	mem := newMem(t)
	tbl := newTable(t,
		float64s(mem, 1.5, nil),
		strs(mem, "x", "y"))

	var buf bytes.Buffer
	ShowTable(&buf, tbl)
	require.Equal(t, "# (float64*utf8)\n1.5, \"x\"\nnull, \"y\"\n", buf.String())
}
