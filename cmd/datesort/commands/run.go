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

package commands

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/datesort/cmd/datesort/opts"
	"github.com/walteh/datesort/pkg/log"
	"github.com/walteh/datesort/pkg/operation"
	"github.com/walteh/datesort/pkg/outcome"
	"github.com/walteh/datesort/pkg/report"
	"gitlab.com/tozd/go/errors"
)

func NewRunCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Copy new content from the source into the dated destination layout",
		Long: `Run organizes the source tree into the destination. It will:
1. Hash every matching source file and every file already in the destination
2. Copy the oldest file of each new content into <destination>/YYYY/Mon
3. Record every source file as Copied, AlreadyExists, DuplicateFile or Error
4. Write the report (default: <destination>/File_organization_<nanos>.xlsx)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.NewString()
			ctx := zerolog.Ctx(cmd.Context()).With().
				Str("command", "run").
				Str("run_id", runID).
				Logger().WithContext(cmd.Context())

			cfg, err := opts.LoadConfig(ctx)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			user := log.New(ctx, opts.Stdout)
			ctx = log.NewContext(ctx, user)
			user.Header("organizing " + cfg.String())

			reportPath := cfg.Report.Path
			if reportPath == "" {
				reportPath = report.DefaultPath(cfg.Destination, time.Now())
			}
			manifest, err := report.Open(reportPath, report.Options{RunID: runID})
			if err != nil {
				return errors.Errorf("opening report: %w", err)
			}

			sinks := outcome.MultiSink{manifest}
			if cfg.Console() {
				sinks = append(sinks, &report.Console{})
			}

			op, err := operation.NewOrganize(operation.Options{
				Config: cfg,
				Sink:   sinks,
				Ignore: []string{reportPath},
			})
			if err != nil {
				sinks.Close()
				return errors.Errorf("creating organize operation: %w", err)
			}

			elapsed, runErr := operation.NewRunner(zerolog.Ctx(ctx), runID).Run(ctx, op)
			closeErr := sinks.Close()

			user.LogNewline()
			if err := user.Table([]string{"Outcome", "Files"}, op.Summary().Rows()); err != nil {
				return errors.Errorf("rendering summary: %w", err)
			}

			if runErr != nil {
				user.Warningf("run aborted, records so far were written to %s", reportPath)
				return runErr
			}
			if closeErr != nil {
				return errors.Errorf("closing report: %w", closeErr)
			}

			user.Successf("done in %s, report written to %s", elapsed.Round(time.Millisecond), reportPath)
			return nil
		},
	}

	return cmd
}
