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

// Package compose implements the Service Convergence Engine (spec.md).
package compose

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/csquared/compose/pkg/api"
	"github.com/csquared/compose/pkg/progress"
	"github.com/csquared/compose/pkg/utils"
)

// Service is a named declaration under a named project (spec.md §3).
type Service struct {
	Name    string
	Project string

	Links         []Link
	ExternalLinks []string
	VolumesFrom   []Ref
	Net           Ref
	Options       Options

	Client   RuntimeClient
	Progress progress.Writer

	imageIDCache string
	legacyWarned utils.Set[string]
}

// NewService validates and constructs a Service, enforcing the invariants
// of spec.md §3: name/project must match [A-Za-z0-9]+, and exactly one of
// image/build must be set.
func NewService(name, project string, client RuntimeClient, options Options) (*Service, error) {
	if !validName(name) {
		return nil, api.NewConfigError(name, fmt.Sprintf(
			"invalid service name %q - only [A-Za-z0-9]+ are allowed", name))
	}
	if !validName(project) {
		return nil, api.NewConfigError(name, fmt.Sprintf(
			"invalid project name %q - only [A-Za-z0-9]+ are allowed", project))
	}
	hasImage := options.Image != ""
	hasBuild := options.Build != ""
	if hasImage && hasBuild {
		return nil, api.NewConfigError(name,
			"has both an image and build path specified; a service can either be built to image or use an existing image, not both")
	}
	if !hasImage && !hasBuild {
		return nil, api.NewConfigError(name,
			"has neither an image nor a build path specified; exactly one must be provided")
	}

	return &Service{
		Name:         name,
		Project:      project,
		Options:      options,
		Client:       client,
		Progress:     progress.NopWriter{},
		legacyWarned: utils.Set[string]{},
	}, nil
}

// Containers returns containers matching this service's labels, including
// stopped ones when stopped is true. Whenever no container matches, the
// Legacy Detector fires (spec.md §4.J).
func (s *Service) Containers(ctx context.Context, stopped, oneOff bool) (Containers, error) {
	labels := serviceLabels(s.Project, s.Name, oneOff)
	summaries, err := s.Client.ContainerList(ctx, listOptionsFor(stopped, labels))
	if err != nil {
		return nil, err
	}
	containers := containersFromList(s.Client, summaries)

	if len(containers) == 0 {
		s.warnLegacyContainers(ctx, stopped, oneOff)
	}

	return containers, nil
}

// GetContainer returns the single active container matching `number`
// (spec.md §9 supplemented feature, get_container).
func (s *Service) GetContainer(ctx context.Context, number int) (Container, error) {
	labels := serviceLabels(s.Project, s.Name, false)
	labels[api.ContainerNumberLabel] = fmt.Sprintf("%d", number)
	summaries, err := s.Client.ContainerList(ctx, listOptionsFor(false, labels))
	if err != nil {
		return Container{}, err
	}
	if len(summaries) == 0 {
		return Container{}, fmt.Errorf("no container found for %s_%d", s.Name, number)
	}
	return containersFromList(s.Client, summaries[:1])[0], nil
}

// Start starts every stopped container of the service.
func (s *Service) Start(ctx context.Context) error {
	containers, err := s.Containers(ctx, true, false)
	if err != nil {
		return err
	}
	for _, c := range containers {
		if err := startContainerIfStopped(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// Stop stops every running container of the service.
func (s *Service) Stop(ctx context.Context, opts api.StopOptions) error {
	containers, err := s.Containers(ctx, false, false)
	if err != nil {
		return err
	}
	for _, c := range containers {
		logrus.Infof("Stopping %s...", c.Name)
		timeout := timeoutPtr(opts.Timeout)
		if err := c.Stop(ctx, timeout); err != nil {
			return err
		}
	}
	return nil
}

// Kill sends a signal to every running container of the service.
func (s *Service) Kill(ctx context.Context, opts api.StopOptions) error {
	containers, err := s.Containers(ctx, false, false)
	if err != nil {
		return err
	}
	for _, c := range containers {
		logrus.Infof("Killing %s...", c.Name)
		if err := c.Kill(ctx, opts.Signal); err != nil {
			return err
		}
	}
	return nil
}

// Restart restarts every running container of the service.
func (s *Service) Restart(ctx context.Context, opts api.StopOptions) error {
	containers, err := s.Containers(ctx, false, false)
	if err != nil {
		return err
	}
	for _, c := range containers {
		logrus.Infof("Restarting %s...", c.Name)
		if err := c.Restart(ctx, timeoutPtr(opts.Timeout)); err != nil {
			return err
		}
	}
	return nil
}

// RemoveStopped removes every non-running container of the service.
func (s *Service) RemoveStopped(ctx context.Context) error {
	containers, err := s.Containers(ctx, true, false)
	if err != nil {
		return err
	}
	for _, c := range containers {
		if c.IsRunning {
			continue
		}
		logrus.Infof("Removing %s...", c.Name)
		if err := c.Remove(ctx); err != nil {
			return err
		}
	}
	return nil
}

// StartOrCreateContainers implements start_or_create_containers: start
// existing containers if any exist, else create and start one
// (spec.md §9 supplemented feature).
func (s *Service) StartOrCreateContainers(ctx context.Context, insecureRegistry, doBuild bool) (Containers, error) {
	containers, err := s.Containers(ctx, true, false)
	if err != nil {
		return nil, err
	}
	if len(containers) == 0 {
		c, err := s.createAndStart(ctx, api.CreateContainerOptions{InsecureRegistry: insecureRegistry, DoBuild: doBuild})
		if err != nil {
			return nil, err
		}
		return Containers{c}, nil
	}
	out := make(Containers, len(containers))
	for i, c := range containers {
		if err := startContainerIfStopped(ctx, c); err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// CanBeScaled reports whether the service is scalable: no declared port
// may carry an explicit host-side binding (spec.md §4.I).
func (s *Service) CanBeScaled() bool {
	for _, p := range s.Options.Ports {
		if strings.Contains(p, ":") {
			return false
		}
	}
	return true
}

// Labels returns the standard service-scope labels for filter selection.
func (s *Service) Labels(oneOff bool) map[string]string {
	return serviceLabels(s.Project, s.Name, oneOff)
}

// GetContainerName computes the canonical name a container with the given
// number would have (spec.md §4.B).
func (s *Service) GetContainerName(number int, oneOff bool) string {
	return buildContainerName(s.Project, s.Name, number, oneOff)
}

// GetDependencyNames returns the names of every service/container this one
// references, for a project-level orchestrator's dependency ordering
// (spec.md §9 supplemented feature); the engine itself never traverses
// the graph.
func (s *Service) GetDependencyNames() []string {
	var names []string
	names = append(names, s.GetLinkedNames()...)
	names = append(names, s.GetVolumesFromNames()...)
	if n := s.GetNetName(); n != "" {
		names = append(names, n)
	}
	return names
}

// GetLinkedNames returns the names of services referenced by `links`.
func (s *Service) GetLinkedNames() []string {
	var names []string
	for _, l := range s.Links {
		names = append(names, l.Service.Name())
	}
	return names
}

// GetVolumesFromNames returns the names of services referenced by
// `volumes_from` (container references are excluded, as they're not a
// named service).
func (s *Service) GetVolumesFromNames() []string {
	var names []string
	for _, ref := range s.VolumesFrom {
		if ref.Kind == RefService {
			names = append(names, ref.ServiceRef.Name())
		}
	}
	return names
}

// GetNetName returns the name of the service `net` refers to, if any.
func (s *Service) GetNetName() string {
	if s.Net.Kind == RefService {
		return s.Net.ServiceRef.Name()
	}
	return ""
}

func startContainerIfStopped(ctx context.Context, c Container) error {
	if c.IsRunning {
		return nil
	}
	logrus.Infof("Starting %s...", c.Name)
	return c.Start(ctx)
}

func timeoutPtr(seconds int) *int {
	if seconds <= 0 {
		return nil
	}
	return &seconds
}
