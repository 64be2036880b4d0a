/*
   Copyright 2020 Docker Compose CLI authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package utils

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestRemove(t *testing.T) {
	got := Remove([]string{"a", "b", "c", "b"}, "b")
	assert.DeepEqual(t, got, []string{"a", "c"})
}

func TestFilter(t *testing.T) {
	got := Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	assert.DeepEqual(t, got, []int{2, 4})
}

func TestSet(t *testing.T) {
	s := Set[string]{}
	assert.Equal(t, s.Has("a"), false)
	s.Add("a")
	s.Add("a")
	assert.Equal(t, s.Has("a"), true)
	assert.Equal(t, len(s.Elements()), 1)
}
