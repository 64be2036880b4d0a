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

package compose

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestConfigHashStable(t *testing.T) {
	opts := Options{Image: "redis:6", Ports: []string{"6379"}}
	hash1, err := ConfigHash(opts, "sha256:abc")
	assert.NilError(t, err)
	hash2, err := ConfigHash(opts, "sha256:abc")
	assert.NilError(t, err)
	assert.Equal(t, hash1, hash2)
}

func TestConfigHashSensitiveToOptions(t *testing.T) {
	base, err := ConfigHash(Options{Image: "redis:6"}, "sha256:abc")
	assert.NilError(t, err)
	changed, err := ConfigHash(Options{Image: "redis:7"}, "sha256:abc")
	assert.NilError(t, err)
	assert.Assert(t, base != changed)
}

func TestConfigHashSensitiveToImageID(t *testing.T) {
	opts := Options{Image: "redis:6"}
	base, err := ConfigHash(opts, "sha256:abc")
	assert.NilError(t, err)
	changed, err := ConfigHash(opts, "sha256:def")
	assert.NilError(t, err)
	assert.Assert(t, base != changed)
}

func TestConfigHashIgnoresMapKeyOrder(t *testing.T) {
	a := Options{Image: "redis:6", Labels: map[string]string{"a": "1", "b": "2"}}
	b := Options{Image: "redis:6", Labels: map[string]string{"b": "2", "a": "1"}}
	hashA, err := ConfigHash(a, "sha256:abc")
	assert.NilError(t, err)
	hashB, err := ConfigHash(b, "sha256:abc")
	assert.NilError(t, err)
	assert.Equal(t, hashA, hashB)
}
