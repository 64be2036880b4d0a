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

// Config Fingerprint (spec.md §4.C), ground on pkg/compose/hash.go's
// ServiceHash (teacher) and service.py's config_hash/config_dict.
package compose

import (
	"encoding/json"

	"github.com/opencontainers/go-digest"
)

// configDict is the canonical payload the fingerprint is computed over.
// encoding/json sorts map keys lexicographically and emits no insignificant
// whitespace; Options is carried as a decoded map so its keys are sorted
// too, and the two fields are declared in the sorted order of their names.
type configDict struct {
	ImageID string                 `json:"image_id"`
	Options map[string]interface{} `json:"options"`
}

// ConfigHash computes the service's configuration fingerprint: a SHA-256
// digest of its options plus the runtime-reported image id (spec.md §4.C).
// Callers should cache the image id within a single convergence pass
// (spec.md §9) since it comes from a remote call.
func ConfigHash(options Options, imageID string) (string, error) {
	raw, err := json.Marshal(options)
	if err != nil {
		return "", err
	}
	var optionsMap map[string]interface{}
	if err := json.Unmarshal(raw, &optionsMap); err != nil {
		return "", err
	}
	data, err := json.Marshal(configDict{ImageID: imageID, Options: optionsMap})
	if err != nil {
		return "", err
	}
	return digest.SHA256.FromBytes(data).Encoded(), nil
}
