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

package reconcile

import "github.com/walteh/datesort/pkg/inventory"

// SelectCanonical returns the index of the member with the earliest
// modification time. Ties go to the member seen first. members must not be
// empty.
func SelectCanonical(members []inventory.SourceFile) int {
	best := 0
	for i := 1; i < len(members); i++ {
		if members[i].ModifiedAt.Before(members[best].ModifiedAt) {
			best = i
		}
	}
	return best
}
