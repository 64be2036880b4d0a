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

// Package api declares the contract the engine exposes to outer collaborators
// (the CLI, the project-level orchestrator) without pulling in their
// implementations. See spec.md §6.
package api

import "context"

// StopOptions carries the parameters of a stop/kill/restart call.
type StopOptions struct {
	// Timeout is how long to wait for the container to exit gracefully
	// before the runtime is asked to kill it. Zero means "use the
	// runtime's default".
	Timeout int
	// Signal overrides the default signal sent by kill.
	Signal string
}

// ConvergeOptions controls a single convergence pass.
type ConvergeOptions struct {
	AllowRecreate     bool
	SmartRecreate     bool
	InsecureRegistry  bool
	DoBuild           bool
}

// Service is the engine's service-scoped API, consumed by the CLI
// collaborator (spec.md §6). project-level orchestration (dependency
// ordering across services) is not part of this contract.
type Service interface {
	// Containers returns containers matching this service's labels.
	// stopped includes non-running containers; oneOff selects containers
	// created outside normal convergence instead of normal ones.
	Containers(ctx context.Context, stopped bool, oneOff bool) ([]Container, error)

	Start(ctx context.Context) error
	Stop(ctx context.Context, opts StopOptions) error
	Kill(ctx context.Context, opts StopOptions) error
	Restart(ctx context.Context, opts StopOptions) error

	// Scale drives the running container count to n.
	Scale(ctx context.Context, n int) error

	// RemoveStopped removes every non-running container of the service.
	RemoveStopped(ctx context.Context) error

	// CreateContainer creates (but does not start) a single container,
	// pulling or building the image first if necessary.
	CreateContainer(ctx context.Context, opts CreateContainerOptions) (Container, error)

	// Converge reconciles observed containers with the declared service.
	Converge(ctx context.Context, opts ConvergeOptions) ([]Container, error)

	Pull(ctx context.Context, insecureRegistry bool) error
	Build(ctx context.Context, noCache bool) (string, error)
}

// CreateContainerOptions mirrors the override_options/one_off/previous_container
// parameters of the original `create_container` call (spec.md §4.D, §4.H).
type CreateContainerOptions struct {
	OneOff           bool
	InsecureRegistry bool
	DoBuild          bool
	PreviousID       string
	Number           int
	Override         map[string]interface{}
}

// Container is the opaque handle to a runtime container exposed across the
// engine boundary (spec.md §3).
type Container struct {
	ID                string
	ShortID           string
	Name              string
	NameWithoutProject string
	Number            int
	IsRunning         bool
	Labels            map[string]string
}
