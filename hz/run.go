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

package main

// Command implementations that do not depend on cobra state.

import (
	"encoding/json"
	"io"
	"os"
	"path"
	"strings"

	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
	"github.com/apache/arrow/go/v7/arrow/memory"
	"github.com/pkg/errors"

	"hz/horizontal"
)

type inputOptions struct {
	schema     *arrow.Schema
	delim      rune
	header     bool
	nullValues []string
}

func isCSV(fname string) bool {
	switch strings.ToLower(path.Ext(fname)) {
	case ".csv", ".tsv", ".txt":
		return true
	}
	return false
}

// Reads the named file as CSV or as an Arrow IPC stream, depending on its
// extension.
func readRecord(fname string, opts *inputOptions, mem memory.Allocator) (arrow.Record, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeRecord(f, isCSV(fname), opts, mem)
}

func decodeRecord(r io.Reader, csv bool, opts *inputOptions, mem memory.Allocator) (arrow.Record, error) {
	if !csv {
		return horizontal.ReadIPC(r, mem)
	}
	if opts.schema == nil {
		return nil, errors.New("csv input requires --schema or a config schema")
	}
	return horizontal.ReadCSV(r, horizontal.CSVOptions{
		Schema:     opts.schema,
		Delimiter:  opts.delim,
		Header:     opts.header,
		NullValues: opts.nullValues,
	}, mem)
}

// Returns a table over the named columns, or t itself if none are named.
func selectColumns(t *horizontal.Table, columns []string) (*horizontal.Table, error) {
	if len(columns) == 0 {
		return t, nil
	}
	return t.Select(columns...)
}

// Returns a table over every column of t except the named one.
func withoutColumn(t *horizontal.Table, name string) (*horizontal.Table, error) {
	var names []string
	for _, n := range t.Names() {
		if n != name {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return nil, errors.Errorf("no index columns besides '%s'", name)
	}
	return t.Select(names...)
}

// Splits a lookup source of the form [file:]column. The column part is
// everything after the last colon.
func splitLookup(source string) (string, string) {
	if i := strings.LastIndex(source, ":"); i >= 0 {
		return source[:i], source[i+1:]
	}
	return "", source
}

func lookupSchema(column string) *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: column, Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)
}

// Wraps an operation's output array as a named result.
func newResult[A arrow.Array](name string) func(A, error) (*horizontal.Result, error) {
	return func(data A, err error) (*horizontal.Result, error) {
		if err != nil {
			return nil, err
		}
		return &horizontal.Result{Name: name, Data: data}, nil
	}
}

func argExtreme(t *horizontal.Table, mode string, colname bool, names []string, opts ...horizontal.Option) (*horizontal.Result, error) {
	if len(names) == 0 {
		names = nil
	}
	switch {
	case mode == "max" && colname:
		return newResult[*array.String]("arg_max")(horizontal.ArgMaxColName(t, names, opts...))
	case mode == "max":
		return newResult[*array.Uint32]("arg_max")(horizontal.ArgMax(t, opts...))
	case mode == "min" && colname:
		return newResult[*array.String]("arg_min")(horizontal.ArgMinColName(t, names, opts...))
	case mode == "min":
		return newResult[*array.Uint32]("arg_min")(horizontal.ArgMin(t, opts...))
	}
	return nil, errors.Errorf("unknown mode '%s'", mode)
}

func isExtreme(c horizontal.Column, mode string, opts ...horizontal.Option) (*horizontal.Result, error) {
	name := "is_" + mode + "_" + c.Name()
	switch mode {
	case "max":
		return newResult[*array.Boolean](name)(horizontal.IsMax(c, opts...))
	case "min":
		return newResult[*array.Boolean](name)(horizontal.IsMin(c, opts...))
	}
	return nil, errors.Errorf("unknown mode '%s'", mode)
}

// Resolves every column of t against lookup, one result per column named
// after its index column.
func multiIndexTable(t *horizontal.Table, lookup horizontal.Column, opts ...horizontal.Option) (horizontal.Results, error) {
	arrays, err := horizontal.MultiIndexTable(t, lookup, opts...)
	if err != nil {
		return nil, err
	}
	result := make(horizontal.Results, len(arrays))
	for i, a := range arrays {
		result[i] = &horizontal.Result{Name: t.Column(i).Name(), Data: a}
	}
	return result, nil
}

// A table as read from the input, shown row by row.
type tableView struct {
	t *horizontal.Table
}

func (v tableView) Show(w io.Writer) {
	horizontal.ShowTable(w, v.t)
}

func (v tableView) MarshalJSON() ([]byte, error) {
	rows := make([][]any, v.t.NumRows())
	for rnum := range rows {
		rows[rnum] = v.t.Row(rnum)
	}
	return json.Marshal(map[string]any{
		"columns": v.t.Names(),
		"rows":    rows,
	})
}
