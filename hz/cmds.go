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

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/apache/arrow/go/v7/arrow"
	"github.com/apache/arrow/go/v7/arrow/array"
	"github.com/apache/arrow/go/v7/arrow/memory"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"hz/horizontal"
	"hz/internal/logger"
)

var exit = os.Exit

func fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	logger.Sync()
	exit(1)
}

func baseSansExt(fname string) string {
	base := filepath.Base(fname)
	return strings.TrimSuffix(base, path.Ext(base))
}

func rtrimEol(value string) string {
	return strings.TrimRight(value, "\r\n")
}

// Represents the state used when processing a command.
type Action struct {
	cmd    *cobra.Command
	quiet  bool
	cfg    *horizontal.Config
	mem    memory.Allocator
	out    io.Writer
	record arrow.Record // input, released on exit
	start  time.Time
}

func newAction(cmd *cobra.Command) *Action {
	result := &Action{
		cmd:   cmd,
		mem:   memory.NewGoAllocator(),
		out:   os.Stdout,
		start: time.Now()}
	result.quiet = result.getBool("quiet")
	logger.SetVerbose(result.getBool("verbose"))
	return result
}

func (a *Action) getBool(name string) bool {
	result, _ := a.cmd.Flags().GetBool(name)
	return result
}

func (a *Action) getInt(name string) int {
	result, _ := a.cmd.Flags().GetInt(name)
	return result
}

func (a *Action) getString(name string) string {
	result, _ := a.cmd.Flags().GetString(name)
	return result
}

func (a *Action) getStringArray(name string) []string {
	result, _ := a.cmd.Flags().GetStringArray(name)
	return result
}

// Config returns the profile settings, overridden by command line flags.
func (a *Action) Config() *horizontal.Config {
	if a.cfg == nil {
		a.cfg = a.loadConfig()
	}
	return a.cfg
}

func (a *Action) loadConfig() *horizontal.Config {
	cfg := horizontal.DefaultConfig()
	fname := a.getString("config")
	profile := a.getString("profile")
	var err error
	if fname == horizontal.DefaultConfigFile && profile == horizontal.DefaultConfigProfile {
		err = horizontal.LoadConfig(&cfg)
	} else {
		err = horizontal.LoadConfigFile(fname, profile, &cfg)
	}
	if err != nil {
		logger.Debug("config not loaded", "file", fname, "profile", profile, "error", err)
	}
	if v := a.getString("format"); v != "" {
		cfg.Format = v
	}
	if v := a.getInt("concurrency"); v > 0 {
		cfg.Concurrency = v
	}
	if a.cmd.Flags().Changed("stop-on-first-null") {
		cfg.StopOnFirstNull = a.getBool("stop-on-first-null")
	}
	if a.cmd.Flags().Changed("is-null-sentinel") {
		cfg.StopOnFirstNull = a.getBool("is-null-sentinel")
	}
	if v := a.getString("schema"); v != "" {
		cfg.Schema = v
	}
	if v := a.getString("delim"); v != "" {
		cfg.Delimiter = v
	}
	return &cfg
}

// Options passed to every engine operation.
func (a *Action) options() []horizontal.Option {
	return []horizontal.Option{
		horizontal.WithAllocator(a.mem),
		horizontal.WithConcurrency(a.Config().Concurrency),
	}
}

// Returns the input layout described by the config and command flags.
func (a *Action) inputOptions() (*inputOptions, error) {
	cfg := a.Config()
	result := &inputOptions{header: !a.getBool("no-header")}
	if cfg.Schema != "" {
		schema, err := horizontal.ParseSchema(cfg.Schema)
		if err != nil {
			return nil, err
		}
		result.schema = schema
	}
	if cfg.Delimiter != "" {
		result.delim = []rune(cfg.Delimiter)[0]
	}
	result.nullValues = cfg.NullValues
	return result, nil
}

// Reads the named input file and selects the given columns, all columns if
// none are given. The input record is kept until the action exits.
func (a *Action) loadTable(fname string, columns []string) (*horizontal.Table, error) {
	opts, err := a.inputOptions()
	if err != nil {
		return nil, err
	}
	record, err := readRecord(fname, opts, a.mem)
	if err != nil {
		return nil, err
	}
	a.record = record
	t := horizontal.FromRecord(record)
	if t.NumRows() > 0 {
		logger.Debug("loaded table", "file", fname,
			"rows", t.NumRows(), "columns", t.NumCols(), "first", t.String(0))
	}
	return selectColumns(t, columns)
}

func isNil(v interface{}) bool {
	switch vv := v.(type) {
	case nil:
		return true
	case *horizontal.Result:
		return vv == nil
	case horizontal.Results:
		return vv == nil
	case tableView:
		return vv.t == nil
	}
	return false
}

func (a *Action) showValue(v interface{}) {
	if isNil(v) {
		return
	}
	switch a.Config().Format {
	case "pretty":
		if s, ok := v.(horizontal.Showable); ok {
			s.Show(a.out)
			return
		}
	case "json":
		break // default
	}
	horizontal.Encode(a.out, v, 2)
}

// Writes the result to the --output file, if one was given.
func (a *Action) writeValue(v interface{}) error {
	fname := a.getString("output")
	if fname == "" || isNil(v) {
		return nil
	}
	var results horizontal.Results
	switch vv := v.(type) {
	case *horizontal.Result:
		results = horizontal.Results{vv}
	case horizontal.Results:
		results = vv
	default:
		return errors.Errorf("cannot write %T to '%s'", v, fname)
	}
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := horizontal.WriteIPC(f, results, a.mem); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *Action) Append(format string, args ...interface{}) *Action {
	if a.quiet {
		return a
	}
	fmt.Printf(format, args...)
	return a
}

// Show the action banner message.
func (a *Action) Start(format string, args ...interface{}) *Action {
	if a.quiet {
		return a
	}
	var msg string
	msg = fmt.Sprintf(format, args...)
	msg = fmt.Sprintf("%s .. ", msg)
	fmt.Print(msg)
	return a
}

func (a *Action) release(result interface{}) {
	switch vv := result.(type) {
	case *horizontal.Result:
		if vv != nil {
			vv.Release()
		}
	case horizontal.Results:
		vv.Release()
	}
	if a.record != nil {
		a.record.Release()
		a.record = nil
	}
}

// Update the action banner and exit.
func (a *Action) Exit(result interface{}, err error) {
	delta := time.Since(a.start).Seconds()
	if err == nil {
		err = a.writeValue(result)
	}
	if err != nil {
		a.release(result)
		a.Append("(%.1fs)\n%s\n", delta, rtrimEol(err.Error()))
		logger.Error(err.Error(), "command", a.cmd.Name())
		logger.Sync()
		exit(1)
		return
	}
	a.Append("Ok (%.1fs)\n", delta)
	a.showValue(result)
	a.release(result)
	logger.Debug("done", "command", a.cmd.Name(), "seconds", delta)
	logger.Sync()
	exit(0)
}

//
// Extrema
//

func runArgExtreme(cmd *cobra.Command, args []string, mode string) {
	action := newAction(cmd)
	fname := args[0]
	t, err := action.loadTable(fname, args[1:])
	if err != nil {
		action.Exit(nil, err)
		return
	}
	action.Start("Arg %s '%s' (%d columns)", mode, baseSansExt(fname), t.NumCols())
	result, err := argExtreme(t, mode, action.getBool("colname"),
		action.getStringArray("name"), action.options()...)
	action.Exit(result, err)
}

func argMax(cmd *cobra.Command, args []string) {
	runArgExtreme(cmd, args, "max")
}

func argMin(cmd *cobra.Command, args []string) {
	runArgExtreme(cmd, args, "min")
}

func runIsExtreme(cmd *cobra.Command, args []string, mode string) {
	action := newAction(cmd)
	fname, column := args[0], args[1]
	t, err := action.loadTable(fname, []string{column})
	if err != nil {
		action.Exit(nil, err)
		return
	}
	action.Start("Is %s '%s' (%s)", mode, baseSansExt(fname), column)
	result, err := isExtreme(t.Column(0), mode, action.options()...)
	action.Exit(result, err)
}

func isMax(cmd *cobra.Command, args []string) {
	runIsExtreme(cmd, args, "max")
}

func isMin(cmd *cobra.Command, args []string) {
	runIsExtreme(cmd, args, "min")
}

//
// Locators
//

func argFirstNull(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	fname := args[0]
	t, err := action.loadTable(fname, args[1:])
	if err != nil {
		action.Exit(nil, err)
		return
	}
	action.Start("Arg first null '%s' (%d columns)", baseSansExt(fname), t.NumCols())
	result, err := newResult[*array.Uint32]("arg_first_null")(
		horizontal.ArgFirstNull(t, action.options()...))
	action.Exit(result, err)
}

func argFirstTrue(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	fname := args[0]
	t, err := action.loadTable(fname, args[1:])
	if err != nil {
		action.Exit(nil, err)
		return
	}
	action.Start("Arg first true '%s' (%d columns)", baseSansExt(fname), t.NumCols())
	result, err := newResult[*array.Uint32]("arg_first_true")(
		horizontal.ArgFirstTrue(t, action.options()...))
	action.Exit(result, err)
}

func argTrue(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	fname := args[0]
	t, err := action.loadTable(fname, args[1:])
	if err != nil {
		action.Exit(nil, err)
		return
	}
	action.Start("Arg true '%s' (%d columns)", baseSansExt(fname), t.NumCols())
	result, err := newResult[*array.List]("arg_true")(
		horizontal.ArgTrue(t, action.options()...))
	action.Exit(result, err)
}

//
// Collation
//

func collapseColumns(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	fname := args[0]
	t, err := action.loadTable(fname, args[1:])
	if err != nil {
		action.Exit(nil, err)
		return
	}
	policy := action.Config().Policy()
	action.Start("Collapse columns '%s' (%d columns, %s)", baseSansExt(fname), t.NumCols(), policy)
	result, err := newResult[*array.List]("collapse_columns")(
		horizontal.CollapseColumns(t, policy, action.options()...))
	action.Exit(result, err)
}

//
// Labels
//

func multiIndex(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	fname := args[0]
	t, err := action.loadTable(fname, args[1:])
	if err != nil {
		action.Exit(nil, err)
		return
	}
	source := action.getString("lookup")
	lookup, release, err := action.loadLookup(source)
	if err != nil {
		action.Exit(nil, err)
		return
	}
	if lname, column := splitLookup(source); lname == "" && len(args) == 1 {
		// the lookup column is not an index column
		t, err = withoutColumn(t, column)
		if err != nil {
			release()
			action.Exit(nil, err)
			return
		}
	}
	action.Start("Multi index '%s' (%d columns)", baseSansExt(fname), t.NumCols())
	result, err := multiIndexTable(t, lookup, action.options()...)
	release()
	action.Exit(result, err)
}

// Resolves the --lookup flag, either file:column or a column of the input.
func (a *Action) loadLookup(source string) (horizontal.Column, func(), error) {
	fname, column := splitLookup(source)
	if fname == "" {
		if a.record == nil {
			return nil, nil, errors.New("no input table")
		}
		t, err := selectColumns(horizontal.FromRecord(a.record), []string{column})
		if err != nil {
			return nil, nil, err
		}
		return t.Column(0), func() {}, nil
	}
	opts, err := a.inputOptions()
	if err != nil {
		return nil, nil, err
	}
	opts.schema = lookupSchema(column) // csv lookups hold a single column
	record, err := readRecord(fname, opts, a.mem)
	if err != nil {
		return nil, nil, err
	}
	t, err := selectColumns(horizontal.FromRecord(record), []string{column})
	if err != nil {
		record.Release()
		return nil, nil, err
	}
	released := false
	return t.Column(0), func() {
		if !released {
			record.Release()
			released = true
		}
	}, nil
}

//
// Misc
//

func showTable(cmd *cobra.Command, args []string) {
	action := newAction(cmd)
	fname := args[0]
	t, err := action.loadTable(fname, args[1:])
	if err != nil {
		action.Exit(nil, err)
		return
	}
	action.Start("Show '%s' (%d rows)", baseSansExt(fname), t.NumRows())
	action.Exit(tableView{t}, nil)
}
