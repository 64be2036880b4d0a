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

// Legacy Detector (spec.md §4.J), ground on
// original_source/compose/service.py's check_for_legacy_containers. Warn
// only: this never adopts or otherwise modifies unlabeled containers
// (spec.md §9 Open Question).
package compose

import (
	"context"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/sirupsen/logrus"

	"github.com/csquared/compose/pkg/utils"
)

// warnLegacyContainers scans every container known to the daemon for ones
// whose name matches this service's pre-label naming convention, and emits
// a one-time warning suggesting the migration CLI.
func (s *Service) warnLegacyContainers(ctx context.Context, stopped, oneOff bool) {
	summaries, err := s.Client.ContainerList(ctx, container.ListOptions{All: stopped})
	if err != nil {
		return
	}

	prefix := s.Project + "_" + s.Name + "_"
	if oneOff {
		prefix += "run_"
	}

	for _, c := range summaries {
		name := strings.TrimPrefix(firstName(c.Names), "/")
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if s.legacyWarned.Has(name) {
			continue
		}
		s.legacyWarned.Add(name)
		logrus.Warnf(
			"Compose found a container named %s without any labels. As of "+
				"compose 1.3.0 containers are identified with labels instead of "+
				"naming convention. If you'd like compose to use this container, "+
				"please run the migration command.", name)
	}
}
