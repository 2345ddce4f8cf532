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
	"github.com/spf13/cobra"

	"hz/horizontal"
)

// Flags shared by every command that scans a table.
func addTableFlags(cmd *cobra.Command) {
	cmd.Flags().String("schema", "", "csv schema definition, name:type,... (default: config schema)")
	cmd.Flags().String("delim", "", "csv field delimiter (default: ',')")
	cmd.Flags().Bool("no-header", false, "csv input has no header row")
	cmd.Flags().StringP("output", "o", "", "write the result to an arrow stream file")
}

func addCommands(root *cobra.Command) {
	// Extrema
	cmd := &cobra.Command{
		Use:   "arg-max file [column...]",
		Short: "Index of the column holding each row's largest value",
		Args:  cobra.MinimumNArgs(1),
		Run:   argMax}
	cmd.Flags().Bool("colname", false, "output column names instead of indices")
	cmd.Flags().StringArray("name", nil, "column names used with --colname (default: input names)")
	addTableFlags(cmd)
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "arg-min file [column...]",
		Short: "Index of the column holding each row's smallest value",
		Args:  cobra.MinimumNArgs(1),
		Run:   argMin}
	cmd.Flags().Bool("colname", false, "output column names instead of indices")
	cmd.Flags().StringArray("name", nil, "column names used with --colname (default: input names)")
	addTableFlags(cmd)
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "is-max file column",
		Short: "Mask marking the first occurrence of the column's largest value",
		Args:  cobra.ExactArgs(2),
		Run:   isMax}
	addTableFlags(cmd)
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "is-min file column",
		Short: "Mask marking the first occurrence of the column's smallest value",
		Args:  cobra.ExactArgs(2),
		Run:   isMin}
	addTableFlags(cmd)
	root.AddCommand(cmd)

	// Locators
	cmd = &cobra.Command{
		Use:   "arg-first-null file [column...]",
		Short: "Index of each row's first null column",
		Args:  cobra.MinimumNArgs(1),
		Run:   argFirstNull}
	addTableFlags(cmd)
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "arg-first-true file [column...]",
		Short: "Index of each row's first true column",
		Args:  cobra.MinimumNArgs(1),
		Run:   argFirstTrue}
	addTableFlags(cmd)
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "arg-true file [column...]",
		Short: "Indices of all true columns of each row",
		Args:  cobra.MinimumNArgs(1),
		Run:   argTrue}
	addTableFlags(cmd)
	root.AddCommand(cmd)

	// Collation
	cmd = &cobra.Command{
		Use:   "collapse-columns file [column...]",
		Short: "Collapse string columns into one list per row",
		Args:  cobra.MinimumNArgs(1),
		Run:   collapseColumns}
	cmd.Flags().Bool("stop-on-first-null", false, "stop collecting a row at its first null (default: config)")
	cmd.Flags().Bool("is-null-sentinel", false, "alias for --stop-on-first-null")
	addTableFlags(cmd)
	root.AddCommand(cmd)

	// Labels
	cmd = &cobra.Command{
		Use:   "multi-index file [column...]",
		Short: "Resolve index columns against a string lookup column",
		Args:  cobra.MinimumNArgs(1),
		Run:   multiIndex}
	cmd.Flags().StringP("lookup", "l", "", "lookup column as file:column, or column of the input (required)")
	cmd.MarkFlagRequired("lookup")
	addTableFlags(cmd)
	root.AddCommand(cmd)

	// Misc
	cmd = &cobra.Command{
		Use:   "show file [column...]",
		Short: "Print the table as read",
		Args:  cobra.MinimumNArgs(1),
		Run:   showTable}
	addTableFlags(cmd)
	root.AddCommand(cmd)
}

func newRootCmd() *cobra.Command {
	var root = &cobra.Command{Use: "hz"}
	root.PersistentFlags().String("config", horizontal.DefaultConfigFile, "config file")
	root.PersistentFlags().String("profile", horizontal.DefaultConfigProfile, "config profile")
	root.PersistentFlags().BoolP("quiet", "q", false, "silence status output")
	root.PersistentFlags().String("format", "", "format results, 'json' or 'pretty' (default: config)")
	root.PersistentFlags().Int("concurrency", 0, "goroutines per scan (default: config)")
	root.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	addCommands(root)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal("%s", err.Error())
	}
}
