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
	"gitlab.com/tozd/go/errors"
)

func NewDupesCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dupes",
		Short: "List source files that share the same content",
		Long: `Dupes hashes the source tree and lists every content held by more than one
file. The file marked "keep" is the one run would copy. Nothing is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.NewString()
			ctx := zerolog.Ctx(cmd.Context()).With().
				Str("command", "dupes").
				Str("run_id", runID).
				Logger().WithContext(cmd.Context())

			cfg, err := opts.LoadConfig(ctx)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			user := log.New(ctx, opts.Stdout)
			ctx = log.NewContext(ctx, user)
			user.Header("scanning " + cfg.Source)

			op, err := operation.NewDupes(operation.Options{Config: cfg})
			if err != nil {
				return errors.Errorf("creating dupes operation: %w", err)
			}
			if _, err := operation.NewRunner(zerolog.Ctx(ctx), runID).Run(ctx, op); err != nil {
				return err
			}

			summary := op.Summary()
			if len(op.Sets()) == 0 {
				user.Successf("no duplicates among %d files", summary.Files)
				return nil
			}

			var rows [][]string
			for _, set := range op.Sets() {
				for i, m := range set.Members {
					id, action := "", ""
					if i == 0 {
						id = set.Identity.Short()
					}
					if i == set.Keep {
						action = "keep"
					}
					rows = append(rows, []string{id, m.Path, m.ModifiedAt.Format(time.DateTime), action})
				}
			}
			if err := user.Table([]string{"Identity", "File", "Modified", "Action"}, rows); err != nil {
				return errors.Errorf("rendering duplicates: %w", err)
			}

			user.Infof("%d files, %d distinct contents, %d held more than once",
				summary.Files, summary.Groups, summary.DuplicateGroups)
			return nil
		},
	}

	return cmd
}
