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
	"context"

	"github.com/sirupsen/logrus"

	"github.com/csquared/compose/pkg/api"
)

// CreateContainer creates (but does not start) a container for this
// service, ensuring the image exists first (spec.md §4.D/§4.F,
// create_container).
func (s *Service) CreateContainer(ctx context.Context, opts api.CreateContainerOptions) (Container, error) {
	if err := s.EnsureImageExists(ctx, opts.DoBuild, opts.InsecureRegistry); err != nil {
		return Container{}, err
	}

	number := opts.Number
	if number == 0 {
		existing, err := s.Containers(ctx, true, opts.OneOff)
		if err != nil {
			return Container{}, err
		}
		number = nextContainerNumber(existing)
	}

	var previous *Container
	if opts.PreviousID != "" {
		prev, err := s.inspectContainer(ctx, opts.PreviousID)
		if err != nil {
			return Container{}, err
		}
		previous = &prev
	}

	payload, err := s.assembleCreatePayload(ctx, opts.Override, number, opts.OneOff, previous)
	if err != nil {
		return Container{}, err
	}

	logrus.Infof("Creating %s...", payload.Name)
	resp, err := s.Client.ContainerCreate(ctx, &payload.Config, &payload.Host, payload.Name)
	if err != nil {
		return Container{}, err
	}

	return Container{
		ID:        resp.ID,
		Name:      payload.Name,
		Labels:    payload.Config.Labels,
		IsRunning: false,
		client:    s.Client,
	}, nil
}

// createAndStart creates and starts a single container, the `create`
// convergence-plan action (spec.md §4.H).
func (s *Service) createAndStart(ctx context.Context, opts api.CreateContainerOptions) (Container, error) {
	c, err := s.CreateContainer(ctx, opts)
	if err != nil {
		return Container{}, err
	}
	if err := c.Start(ctx); err != nil {
		return Container{}, err
	}
	return c, nil
}

// inspectContainer fetches a fresh Container handle by id, including its
// image config and volume snapshot, needed by the volume migrator
// (spec.md §4.E).
func (s *Service) inspectContainer(ctx context.Context, id string) (Container, error) {
	inspected, err := s.Client.ContainerInspect(ctx, id)
	if err != nil {
		return Container{}, err
	}
	c := Container{
		ID:        inspected.ID,
		Name:      stripSlash(inspected.Name),
		IsRunning: inspected.State != nil && inspected.State.Running,
		client:    s.Client,
	}
	if inspected.Config != nil {
		c.Labels = inspected.Config.Labels
	}
	c.Volumes = map[string]string{}
	for _, m := range inspected.Mounts {
		if m.Name != "" || m.Destination != "" {
			c.Volumes[m.Destination] = m.Source
		}
	}
	if inspected.Image != "" {
		imgConfig, err := s.Client.ImageInspect(ctx, inspected.Image)
		if err == nil && imgConfig.Config != nil {
			c.ImageConfig.Volumes = imgConfig.Config.Volumes
		}
	}
	return c, nil
}

func stripSlash(name string) string {
	if len(name) > 0 && name[0] == '/' {
		return name[1:]
	}
	return name
}
