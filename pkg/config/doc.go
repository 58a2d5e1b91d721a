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

/*
Package config loads the settings of a datesort run.

	            +-------------+
	            |   Config    |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|   HCL   |   |  YAML   |   |  JSONC  |
	+---------+   +---------+   +---------+

🔄 Flow:
1. Picks a parser by file extension
2. Decodes the file (unknown fields are rejected)
3. Resolves relative paths against the config file's directory
4. Applies command line overrides
5. Validates and fills defaults

📝 Defaults:
  - destination: the directory holding the config file
  - pattern: empty, matching every file
  - hash: sha256
  - report.console: true

🔍 Example:

	source      = "/home/me/Pictures/import"
	destination = "/srv/photos"
	pattern     = "\\.(jpe?g|heic)$"
	exclude     = [".thumbnails/**"]

	report {
	  path = "/srv/photos/manifest.jsonl.zst"
	}
*/
package config
