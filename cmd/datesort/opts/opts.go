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

package opts

import (
	"context"
	"io"
	"os"

	"github.com/walteh/datesort/pkg/config"
)

// DefaultConfigFiles are looked up in the working directory when no
// --config is given.
var DefaultConfigFiles = []string{"datesort.hcl", "datesort.yaml", "datesort.yml", "datesort.json"}

// RootOpts holds the persistent flags shared by every command
type RootOpts struct {
	ConfigFile  string
	Debug       bool
	Source      string
	Destination string
	Pattern     string
	Report      string
	Hash        string

	Stdout io.Writer
}

func (o *RootOpts) overrides() []config.Option {
	var out []config.Option
	if o.Source != "" {
		out = append(out, config.WithSource(o.Source))
	}
	if o.Destination != "" {
		out = append(out, config.WithDestination(o.Destination))
	}
	if o.Pattern != "" {
		out = append(out, config.WithPattern(o.Pattern))
	}
	if o.Report != "" {
		out = append(out, config.WithReportPath(o.Report))
	}
	if o.Hash != "" {
		out = append(out, config.WithHash(o.Hash))
	}
	return out
}

// LoadConfig loads the config file, if any, with the flags applied on top.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	path := o.ConfigFile
	if path == "" {
		path = discover()
	}
	if path == "" {
		return config.New(o.overrides()...)
	}
	return config.Load(ctx, path, o.overrides()...)
}

func discover() string {
	for _, name := range DefaultConfigFiles {
		if info, err := os.Stat(name); err == nil && info.Mode().IsRegular() {
			return name
		}
	}
	return ""
}
