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

// _get_links / _get_volumes_from / _get_net (spec.md §4.D), ground on
// original_source/compose/service.py.
package compose

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/csquared/compose/pkg/api"
)

// getLinks resolves the service's `links` and `external_links` into the
// host-config link list "containerName:alias" (spec.md §4.D.links).
func (s *Service) getLinks(ctx context.Context, linkToSelf bool) ([]string, error) {
	var out []string
	for _, link := range s.Links {
		target, ok := link.Service.Resolve()
		if !ok {
			continue
		}
		containers, err := target.Containers(ctx, false, false)
		if err != nil {
			return nil, err
		}
		alias := link.Alias
		if alias == "" {
			alias = target.Name
		}
		for _, c := range containers {
			out = append(out, fmt.Sprintf("%s:%s", c.Name, alias))
			out = append(out, fmt.Sprintf("%s:%s", c.Name, c.Name))
			out = append(out, fmt.Sprintf("%s:%s", c.Name, c.NameWithoutProject()))
		}
	}
	if linkToSelf {
		containers, err := s.Containers(ctx, false, false)
		if err != nil {
			return nil, err
		}
		for _, c := range containers {
			out = append(out, fmt.Sprintf("%s:%s", c.Name, s.Name))
			out = append(out, fmt.Sprintf("%s:%s", c.Name, c.Name))
			out = append(out, fmt.Sprintf("%s:%s", c.Name, c.NameWithoutProject()))
		}
	}
	for _, external := range s.ExternalLinks {
		name, alias := external, external
		if idx := strings.IndexByte(external, ':'); idx >= 0 {
			name, alias = external[:idx], external[idx+1:]
		}
		out = append(out, fmt.Sprintf("%s:%s", name, alias))
	}
	return out, nil
}

// getVolumesFrom resolves `volumes_from` entries into container ids,
// eagerly creating a container for any referenced service that has none
// yet (spec.md §4.D.volumes_from).
func (s *Service) getVolumesFrom(ctx context.Context) ([]string, error) {
	var out []string
	for _, ref := range s.VolumesFrom {
		switch ref.Kind {
		case RefService:
			target, ok := ref.ServiceRef.Resolve()
			if !ok {
				continue
			}
			containers, err := target.Containers(ctx, true, false)
			if err != nil {
				return nil, err
			}
			if len(containers) == 0 {
				created, err := target.CreateContainer(ctx, api.CreateContainerOptions{DoBuild: true})
				if err != nil {
					return nil, err
				}
				out = append(out, created.ID)
				continue
			}
			for _, c := range containers {
				out = append(out, c.ID)
			}
		case RefContainer:
			out = append(out, ref.Container.ID)
		}
	}
	return out, nil
}

// getNet resolves the `net` reference into a network-mode string
// (spec.md §4.D.net).
func (s *Service) getNet(ctx context.Context) (string, error) {
	switch s.Net.Kind {
	case RefNone:
		return "bridge", nil
	case RefString:
		return s.Net.Str, nil
	case RefService:
		target, ok := s.Net.ServiceRef.Resolve()
		if !ok {
			return "", nil
		}
		containers, err := target.Containers(ctx, false, false)
		if err != nil {
			return "", err
		}
		if len(containers) == 0 {
			logrus.Warnf("service %s is trying to reuse the network stack of service %s, which is not running",
				s.Name, target.Name)
			return "", nil
		}
		return "container:" + containers[0].ID, nil
	case RefContainer:
		return "container:" + s.Net.Container.ID, nil
	default:
		return "bridge", nil
	}
}
