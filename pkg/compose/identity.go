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

// Identity & Labels (spec.md §4.B): container naming, standard labels, and
// container-number allocation, ground on
// original_source/compose/service.py's build_container_name/labels/
// _next_container_number.
package compose

import (
	"strconv"
	"strings"
	"sync"

	"github.com/csquared/compose/internal/version"
	"github.com/csquared/compose/pkg/api"
)

// Registry resolves Service references by name. It backs the weak
// ServiceRef used by links and the Service arm of Ref, so link/volumes_from graphs don't require
// eager cross-service materialization (spec.md §9).
type Registry struct {
	mu       sync.RWMutex
	services map[string]*Service
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{services: map[string]*Service{}}
}

// Register adds (or replaces) a service under its name.
func (r *Registry) Register(s *Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[s.Name] = s
}

// Lookup finds a service by name.
func (r *Registry) Lookup(name string) (*Service, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.services[name]
	return s, ok
}

// buildContainerName computes "<project>_<service>[_run]_<number>"
// (spec.md §4.B).
func buildContainerName(project, service string, number int, oneOff bool) string {
	bits := []string{project, service}
	if oneOff {
		bits = append(bits, "run")
	}
	bits = append(bits, strconv.Itoa(number))
	return strings.Join(bits, "_")
}

// serviceLabels returns the standard service-scope labels used both as
// create-time labels and as filter selectors (spec.md §4.B).
func serviceLabels(project, service string, oneOff bool) map[string]string {
	oneOffValue := api.OneOffFalse
	if oneOff {
		oneOffValue = api.OneOffTrue
	}
	return map[string]string{
		api.ProjectLabel: project,
		api.ServiceLabel: service,
		api.OneOffLabel:  oneOffValue,
	}
}

// buildContainerLabels composes the final label set for a newly-created
// container: user labels, then standard service labels, then the
// container-number and version stamps (spec.md §4.D step 11).
func buildContainerLabels(userLabels, serviceLbls map[string]string, number int) map[string]string {
	labels := map[string]string{}
	for k, v := range userLabels {
		labels[k] = v
	}
	for k, v := range serviceLbls {
		labels[k] = v
	}
	labels[api.ContainerNumberLabel] = strconv.Itoa(number)
	labels[api.VersionLabel] = version.Version
	return labels
}

// nextContainerNumber returns 1 + the highest existing container-number
// label among matching containers, or 1 if none match (spec.md §4.B).
func nextContainerNumber(existing Containers) int {
	max := 0
	for _, c := range existing {
		if n := c.Number(); n > max {
			max = n
		}
	}
	return max + 1
}

// validName is the spec's [A-Za-z0-9]+ name rule (spec.md §3).
func validName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
