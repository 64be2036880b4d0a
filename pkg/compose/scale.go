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

// Scaler (spec.md §4.I), ground on original_source/compose/service.py's
// scale/remove_stopped.
package compose

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/csquared/compose/pkg/api"
)

const scaleDownStopTimeoutSeconds = 1

// Scale drives the service's running container count to n, respecting
// container-number ordering (spec.md §4.I, §5). It fails with
// ErrCannotBeScaled if the service declares an explicit host port binding.
func (s *Service) Scale(ctx context.Context, n int) error {
	if !s.CanBeScaled() {
		return &api.CannotBeScaledError{Service: s.Name}
	}

	containers, err := s.Containers(ctx, true, false)
	if err != nil {
		return err
	}
	for len(containers) < n {
		c, err := s.CreateContainer(ctx, api.CreateContainerOptions{DoBuild: true})
		if err != nil {
			return err
		}
		containers = append(containers, c)
	}

	running := containers.filter(isRunning)
	stopped := containers.filter(isStopped)
	sort.Slice(running, func(i, j int) bool { return running[i].Number() < running[j].Number() })
	sort.Slice(stopped, func(i, j int) bool { return stopped[i].Number() < stopped[j].Number() })

	timeout := scaleDownStopTimeoutSeconds
	for len(running) > n {
		c := running[len(running)-1]
		running = running[:len(running)-1]
		logrus.Infof("Stopping %s...", c.Name)
		if err := c.Stop(ctx, &timeout); err != nil {
			return err
		}
		stopped = append(stopped, c)
	}

	for len(running) < n {
		c := stopped[0]
		stopped = stopped[1:]
		logrus.Infof("Starting %s...", c.Name)
		if err := c.Start(ctx); err != nil {
			return err
		}
		running = append(running, c)
	}

	return s.RemoveStopped(ctx)
}
