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

// Convergence Planner (spec.md §4.G), ground on
// original_source/compose/service.py's convergence_plan/
// _containers_have_diverged.
package compose

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/csquared/compose/pkg/api"
)

// PlanAction tags which ConvergencePlan arm applies.
type PlanAction int

const (
	// PlanCreate means no containers exist yet; create one.
	PlanCreate PlanAction = iota
	// PlanRecreate means containers exist but have diverged (or recreate
	// was forced); stop, rename, recreate, remove each.
	PlanRecreate
	// PlanStart means containers exist, haven't diverged, and some are
	// stopped; start just those.
	PlanStart
	// PlanNoop means containers exist, are up to date, and are all running.
	PlanNoop
)

// ConvergencePlan is the tagged variant {create, recreate, start, noop} x
// list<Container> produced by ConvergencePlan (spec.md §3).
type ConvergencePlan struct {
	Action     PlanAction
	Containers Containers
}

// ConvergencePlan chooses among create/recreate/start/noop for the current
// observed state (spec.md §4.G).
func (s *Service) ConvergencePlan(ctx context.Context, allowRecreate, smartRecreate bool) (ConvergencePlan, error) {
	containers, err := s.Containers(ctx, true, false)
	if err != nil {
		return ConvergencePlan{}, err
	}

	if len(containers) == 0 {
		return ConvergencePlan{Action: PlanCreate}, nil
	}

	if smartRecreate {
		diverged, err := s.containersHaveDiverged(ctx, containers)
		if err != nil {
			return ConvergencePlan{}, err
		}
		if !diverged {
			stopped := containers.filter(isStopped)
			if len(stopped) > 0 {
				return ConvergencePlan{Action: PlanStart, Containers: stopped}, nil
			}
			return ConvergencePlan{Action: PlanNoop, Containers: containers}, nil
		}
	}

	if !allowRecreate {
		return ConvergencePlan{Action: PlanStart, Containers: containers}, nil
	}

	return ConvergencePlan{Action: PlanRecreate, Containers: containers}, nil
}

// RecreatePlan unconditionally plans a recreate of every current container,
// matching the teacher's recreate_plan escape hatch for forced recreation.
func (s *Service) RecreatePlan(ctx context.Context) (ConvergencePlan, error) {
	containers, err := s.Containers(ctx, true, false)
	if err != nil {
		return ConvergencePlan{}, err
	}
	return ConvergencePlan{Action: PlanRecreate, Containers: containers}, nil
}

// containersHaveDiverged compares each container's config-hash label
// against the service's current fingerprint (spec.md §4.C, §4.G).
func (s *Service) containersHaveDiverged(ctx context.Context, containers Containers) (bool, error) {
	imageID, err := s.cachedImageID(ctx)
	if err != nil {
		return false, err
	}
	hash, err := ConfigHash(s.Options, imageID)
	if err != nil {
		return false, err
	}

	diverged := false
	for _, c := range containers {
		got := c.Labels[api.ConfigHashLabel]
		if got != hash {
			logrus.Debugf("%s has diverged: %s != %s", c.Name, got, hash)
			diverged = true
		}
	}
	return diverged, nil
}
