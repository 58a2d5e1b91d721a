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
Package operation runs the top level workflows of datesort.

	+-------------+      +-------------+
	|   source    |      | destination |
	|  inventory  |      |   ledger    |
	+------+------+      +------+------+
	       |    (errgroup)      |
	       +---------+----------+
	                 |
	          +------+------+
	          |  reconcile  |
	          +------+------+
	                 |
	          +------+------+
	          |    sinks    |
	          +-------------+

🎯 Operations:
  - Organize: index both trees, copy each distinct content once into
    <destination>/YYYY/Mon and emit one record per source file
  - Dupes: index the source tree only and list contents held by more than
    one file

⏱️ Runner wraps an operation with start, elapsed and failure logging.
Summaries are filled even when an operation aborts, so callers can report
what was done before the failure.
*/
package operation
