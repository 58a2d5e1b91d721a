// Copyright 2025 walteh LLC
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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/walteh/datesort/cmd/datesort/commands"
	"github.com/walteh/datesort/cmd/datesort/opts"
	"github.com/walteh/datesort/pkg/hash"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &opts.RootOpts{Stdout: stdout}

	rootCmd := &cobra.Command{
		Use:   "datesort",
		Short: "Sort files into dated folders, copying each distinct content once",
		Long: `datesort walks a source tree, groups files by content hash and copies the
oldest file of every group into <destination>/YYYY/Mon, named after its
modification time. Content already present in the destination is never copied
again, and every source file gets a line in the report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(o.Debug, stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	addRootFlags(rootCmd.PersistentFlags(), o)

	rootCmd.AddCommand(
		commands.NewRunCmd(o),
		commands.NewDupesCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

func addRootFlags(flags *pflag.FlagSet, o *opts.RootOpts) {
	flags.StringVarP(&o.ConfigFile, "config", "c", "", "config file path (default: datesort.{hcl,yaml,yml,json} in the working directory)")
	flags.BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	flags.StringVar(&o.Source, "source", "", "directory to organize")
	flags.StringVar(&o.Destination, "destination", "", "directory receiving the dated layout")
	flags.StringVar(&o.Pattern, "pattern", "", "case-insensitive regular expression files must match")
	flags.StringVar(&o.Report, "report", "", "report path (.xlsx, .csv, .jsonl or .jsonl.zst)")
	flags.StringVar(&o.Hash, "hash", "", fmt.Sprintf("content hash %v", hash.Algorithms))
}

func setupLogging(debug bool, w io.Writer) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
	log := zerolog.New(w).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), FormatVersion())
		},
	}
}
