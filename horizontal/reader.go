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

// Reading and writing tables for hosts that do not already hold arrow data.
// The operations themselves never do I/O.

import (
	"io"
	"strings"

	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
	"github.com/apache/arrow/go/v7/arrow/csv"
	"github.com/apache/arrow/go/v7/arrow/ipc"
	"github.com/apache/arrow/go/v7/arrow/memory"
	"github.com/pkg/errors"
)

var dataTypes = map[string]arrow.DataType{
	"bool":    arrow.FixedWidthTypes.Boolean,
	"float32": arrow.PrimitiveTypes.Float32,
	"float64": arrow.PrimitiveTypes.Float64,
	"int32":   arrow.PrimitiveTypes.Int32,
	"int64":   arrow.PrimitiveTypes.Int64,
	"string":  arrow.BinaryTypes.String,
	"uint32":  arrow.PrimitiveTypes.Uint32,
	"uint64":  arrow.PrimitiveTypes.Uint64,
}

// ParseSchema parses a schema definition of the form "name:type,..." where
// type is one of bool, float32, float64, int32, int64, string, uint32 or
// uint64. All fields are nullable.
func ParseSchema(source string) (*arrow.Schema, error) {
	var fields []arrow.Field
	for _, item := range strings.Split(source, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, ":", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("bad schema field '%s', expected name:type", item)
		}
		name, tname := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		dt, ok := dataTypes[tname]
		if !ok {
			return nil, errors.Errorf("unknown type '%s' for field '%s'", tname, name)
		}
		fields = append(fields, arrow.Field{Name: name, Type: dt, Nullable: true})
	}
	if len(fields) == 0 {
		return nil, errors.New("empty schema")
	}
	return arrow.NewSchema(fields, nil), nil
}

// Combines a sequence of records into one. The inputs are released.
func concatRecords(schema *arrow.Schema, records []arrow.Record, mem memory.Allocator) (arrow.Record, error) {
	defer func() {
		for _, r := range records {
			r.Release()
		}
	}()
	switch len(records) {
	case 0:
		cols := make([]arrow.Array, len(schema.Fields()))
		for i, f := range schema.Fields() {
			b := array.NewBuilder(mem, f.Type)
			cols[i] = b.NewArray()
			b.Release()
		}
		defer releaseArrays(cols)
		return array.NewRecord(schema, cols, 0), nil
	case 1:
		records[0].Retain()
		return records[0], nil
	}
	ncols := len(schema.Fields())
	cols := make([]arrow.Array, 0, ncols)
	defer func() { releaseArrays(cols) }()
	nrows := int64(0)
	for _, r := range records {
		nrows += r.NumRows()
	}
	for cnum := 0; cnum < ncols; cnum++ {
		parts := make([]arrow.Array, len(records))
		for i, r := range records {
			parts[i] = r.Column(cnum)
		}
		col, err := array.Concatenate(parts, mem)
		if err != nil {
			return nil, errors.Wrapf(err, "concatenating column '%s'", schema.Field(cnum).Name)
		}
		cols = append(cols, col)
	}
	return array.NewRecord(schema, cols, nrows), nil
}

func releaseArrays(arrays []arrow.Array) {
	for _, a := range arrays {
		a.Release()
	}
}

// ReadIPC reads an Arrow IPC stream and returns its batches as a single
// record. The caller must release the record.
func ReadIPC(r io.Reader, mem memory.Allocator) (arrow.Record, error) {
	rdr, err := ipc.NewReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return nil, errors.Wrap(err, "error reading arrow stream")
	}
	defer rdr.Release()
	var records []arrow.Record
	for rdr.Next() {
		record := rdr.Record()
		record.Retain()
		records = append(records, record)
	}
	if err := rdr.Err(); err != nil && err != io.EOF {
		for _, r := range records {
			r.Release()
		}
		return nil, errors.Wrap(err, "error reading arrow stream")
	}
	return concatRecords(rdr.Schema(), records, mem)
}

// CSVOptions describes the layout of a CSV input.
type CSVOptions struct {
	Schema     *arrow.Schema
	Delimiter  rune     // default ','
	Header     bool     // first line holds column names
	NullValues []string // cells read as null, in every column
}

// ReadCSV reads CSV data with the given layout and returns it as a single
// record. The caller must release the record.
func ReadCSV(r io.Reader, opts CSVOptions, mem memory.Allocator) (arrow.Record, error) {
	if opts.Schema == nil {
		return nil, errors.New("csv input requires a schema")
	}
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}
	rdr := csv.NewReader(r, opts.Schema,
		csv.WithAllocator(mem),
		csv.WithComma(delim),
		csv.WithHeader(opts.Header),
		csv.WithNullReader(true, opts.NullValues...),
		csv.WithChunk(-1))
	defer rdr.Release()
	var records []arrow.Record
	for rdr.Next() {
		record := rdr.Record()
		record.Retain()
		records = append(records, record)
	}
	if err := rdr.Err(); err != nil && err != io.EOF {
		for _, r := range records {
			r.Release()
		}
		return nil, errors.Wrap(err, "error reading csv")
	}
	return concatRecords(opts.Schema, records, mem)
}

// WriteIPC writes the results as a single record batch to an Arrow IPC
// stream, one field per result.
func WriteIPC(w io.Writer, results Results, mem memory.Allocator) error {
	if len(results) == 0 {
		return errors.New("nothing to write")
	}
	fields := make([]arrow.Field, len(results))
	cols := make([]arrow.Array, len(results))
	for i, r := range results {
		fields[i] = arrow.Field{Name: r.Name, Type: r.Data.DataType(), Nullable: true}
		cols[i] = r.Data
	}
	schema := arrow.NewSchema(fields, nil)
	record := array.NewRecord(schema, cols, int64(results[0].NumRows()))
	defer record.Release()
	wtr := ipc.NewWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err := wtr.Write(record); err != nil {
		wtr.Close()
		return errors.Wrap(err, "error writing arrow stream")
	}
	return wtr.Close()
}
