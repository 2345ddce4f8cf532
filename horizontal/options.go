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
	"github.com/apache/arrow/go/v7/arrow/memory"
)

// Option configures how an operation allocates and schedules its work.
// Options never change the result of an operation.
type Option func(*options)

type options struct {
	mem         memory.Allocator
	concurrency int
}

// WithAllocator sets the allocator used for output buffers.
func WithAllocator(mem memory.Allocator) Option {
	return func(o *options) {
		if mem != nil {
			o.mem = mem
		}
	}
}

// WithConcurrency splits the row range of scalar scans across up to n
// goroutines. Values below 2 scan sequentially.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

func newOptions(opts []Option) *options {
	o := &options{mem: memory.DefaultAllocator, concurrency: 1}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
