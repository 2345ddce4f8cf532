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
	"github.com/apache/arrow/go/v7/arrow/array"
	"golang.org/x/sync/errgroup"
)

// Row ranges smaller than this are not worth a goroutine.
const minRowsPerTask = 4096

// Splits [0, nrows) into contiguous ranges and calls fn on each. Ranges are
// disjoint so fn may write its rows of a shared output slice without
// locking. Each row is still visited by exactly one call.
func forEachRange(nrows, concurrency int, fn func(lo, hi int)) {
	ntasks := concurrency
	if limit := nrows / minRowsPerTask; ntasks > limit {
		ntasks = limit
	}
	if ntasks < 2 {
		fn(0, nrows)
		return
	}
	step := (nrows + ntasks - 1) / ntasks
	var g errgroup.Group
	for lo := 0; lo < nrows; lo += step {
		lo, hi := lo, lo+step
		if hi > nrows {
			hi = nrows
		}
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	g.Wait() // tasks never fail
}

// A dense buffer of optional column indices, one slot per row, filled by a
// row scan and converted to an arrow array once complete.
type indexBuffer struct {
	values []uint32
	valid  []bool
}

func newIndexBuffer(nrows int) *indexBuffer {
	return &indexBuffer{make([]uint32, nrows), make([]bool, nrows)}
}

func (b *indexBuffer) set(rnum int, cnum int) {
	b.values[rnum] = uint32(cnum)
	b.valid[rnum] = true
}

func (b *indexBuffer) newArray(o *options) *array.Uint32 {
	bldr := array.NewUint32Builder(o.mem)
	defer bldr.Release()
	bldr.AppendValues(b.values, b.valid)
	return bldr.NewUint32Array()
}

// Runs a per-row index scan over nrows rows and returns the resulting
// optional index column. scan returns the selected column index for a row,
// or -1 for none.
func scanIndices(nrows int, o *options, scan func(rnum int) int) *array.Uint32 {
	buf := newIndexBuffer(nrows)
	forEachRange(nrows, o.concurrency, func(lo, hi int) {
		for rnum := lo; rnum < hi; rnum++ {
			if cnum := scan(rnum); cnum >= 0 {
				buf.set(rnum, cnum)
			}
		}
	})
	return buf.newArray(o)
}
