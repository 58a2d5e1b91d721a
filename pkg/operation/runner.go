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

package operation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ⏱️ Runner executes operations and logs their start, duration and failure
type Runner struct {
	logger *zerolog.Logger
	runID  string
	now    func() time.Time
}

func NewRunner(logger *zerolog.Logger, runID string) *Runner {
	return &Runner{
		logger: logger,
		runID:  runID,
		now:    time.Now,
	}
}

// Run executes op and returns how long it took, also on failure.
func (r *Runner) Run(ctx context.Context, op Operation) (time.Duration, error) {
	start := r.now()
	r.logger.Info().
		Str("run_id", r.runID).
		Str("operation", op.Name()).
		Time("start", start).
		Msg("operation started")

	err := op.Execute(ctx)
	elapsed := r.now().Sub(start)

	if err != nil {
		r.logger.Error().
			Err(err).
			Str("run_id", r.runID).
			Str("operation", op.Name()).
			Dur("elapsed", elapsed).
			Msg("operation failed")
		return elapsed, errors.Errorf("executing %s: %w", op.Name(), err)
	}

	r.logger.Info().
		Str("run_id", r.runID).
		Str("operation", op.Name()).
		Dur("elapsed", elapsed).
		Msg("operation finished")
	return elapsed, nil
}
