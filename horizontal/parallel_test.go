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
	"math/rand"
	"sync"
	"testing"

	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
	"github.com/stretchr/testify/require"
)

func TestForEachRange(t *testing.T) {
	for _, test := range []struct {
		nrows, concurrency int
	}{
		{0, 4},
		{10, 4},
		{minRowsPerTask * 3, 8},
		{minRowsPerTask*5 + 17, 4},
	} {
		var mu sync.Mutex
		seen := make([]int, test.nrows)
		forEachRange(test.nrows, test.concurrency, func(lo, hi int) {
			mu.Lock()
			defer mu.Unlock()
			for i := lo; i < hi; i++ {
				seen[i]++
			}
		})
		for i, n := range seen {
			require.Equal(t, 1, n, "row %d of %d", i, test.nrows)
		}
	}
}

// Results must not depend on how many goroutines scan the rows.
func TestConcurrentScansMatch(t *testing.T) {
	mem := newMem(t)
	rng := rand.New(rand.NewSource(3))
	nrows := minRowsPerTask*4 + 123
	arrays := make([]arrow.Array, 4)
	for i := range arrays {
		arrays[i] = randomFloats(rng, mem, nrows)
	}
	tbl := newTable(t, arrays...)

	scans := map[string]func(*Table, ...Option) (*array.Uint32, error){
		"arg_max":        ArgMax,
		"arg_min":        ArgMin,
		"arg_first_null": ArgFirstNull,
		"arg_first_true": ArgFirstTrue,
	}
	for name, scan := range scans {
		serial, err := scan(tbl, WithAllocator(mem))
		require.Nil(t, err, name)
		parallel, err := scan(tbl, WithAllocator(mem), WithConcurrency(4))
		require.Nil(t, err, name)
		require.Equal(t, indices(serial), indices(parallel), name)
		serial.Release()
		parallel.Release()
	}
}
