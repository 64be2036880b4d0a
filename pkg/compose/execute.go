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

// Plan Executor (spec.md §4.H), ground on
// original_source/compose/service.py's execute_convergence_plan/
// recreate_container.
package compose

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/csquared/compose/pkg/api"
)

// Converge runs a full convergence pass: plan, then execute (spec.md §4.G/§4.H).
func (s *Service) Converge(ctx context.Context, opts api.ConvergeOptions) (Containers, error) {
	plan, err := s.ConvergencePlan(ctx, opts.AllowRecreate, opts.SmartRecreate)
	if err != nil {
		return nil, err
	}
	return s.ExecuteConvergencePlan(ctx, plan, opts.InsecureRegistry, opts.DoBuild)
}

// ExecuteConvergencePlan applies plan, one action per spec.md §4.H.
func (s *Service) ExecuteConvergencePlan(ctx context.Context, plan ConvergencePlan, insecureRegistry, doBuild bool) (Containers, error) {
	switch plan.Action {
	case PlanCreate:
		c, err := s.createAndStart(ctx, api.CreateContainerOptions{InsecureRegistry: insecureRegistry, DoBuild: doBuild})
		if err != nil {
			return nil, err
		}
		return Containers{c}, nil

	case PlanRecreate:
		out := make(Containers, len(plan.Containers))
		for i, c := range plan.Containers {
			recreated, err := s.recreateContainer(ctx, c, insecureRegistry)
			if err != nil {
				return nil, err
			}
			out[i] = recreated
		}
		return out, nil

	case PlanStart:
		for _, c := range plan.Containers {
			if err := startContainerIfStopped(ctx, c); err != nil {
				return nil, err
			}
		}
		return plan.Containers, nil

	case PlanNoop:
		for _, c := range plan.Containers {
			logrus.Infof("%s is up-to-date", c.Name)
		}
		return plan.Containers, nil

	default:
		return nil, fmt.Errorf("%w: %v", api.ErrInvalidPlanAction, plan.Action)
	}
}

// recreateContainer runs the recreate protocol for one container
// (spec.md §4.H): stop (tolerating "no such process"), rename aside,
// create the replacement (inheriting volumes + number, with affinity to
// the original), start it, then remove the original.
func (s *Service) recreateContainer(ctx context.Context, c Container, insecureRegistry bool) (Container, error) {
	logrus.Infof("Recreating %s...", c.Name)

	if err := c.Stop(ctx, nil); err != nil {
		return Container{}, err
	}

	if err := c.Rename(ctx, c.ShortID()+"_"+c.Name); err != nil {
		return Container{}, err
	}

	newContainer, err := s.CreateContainer(ctx, api.CreateContainerOptions{
		InsecureRegistry: insecureRegistry,
		DoBuild:          false,
		PreviousID:       c.ID,
		Number:           c.Number(),
	})
	if err != nil {
		return Container{}, err
	}

	if err := newContainer.Start(ctx); err != nil {
		return Container{}, err
	}

	if err := c.Remove(ctx); err != nil {
		return Container{}, err
	}

	return newContainer, nil
}
