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
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/csquared/compose/pkg/api"
	"github.com/csquared/compose/pkg/utils"
)

// Container is an opaque handle to a runtime container (spec.md §3). It
// caches the data discovered at list/inspect time; callers that need a
// fresher view should re-fetch it.
type Container struct {
	ID        string
	Name      string
	IsRunning bool
	Labels    map[string]string

	// ImageConfig holds the inspected image's container-config defaults,
	// used by the volume migrator to discover image-declared volumes
	// (spec.md §4.E).
	ImageConfig container.Config

	// Volumes is a snapshot of internal-path -> host-path bindings as
	// reported by the runtime at inspect time.
	Volumes map[string]string

	client RuntimeClient
}

// ShortID returns the first 12 characters of the container id.
func (c Container) ShortID() string {
	if len(c.ID) <= 12 {
		return c.ID
	}
	return c.ID[:12]
}

// Number returns the replica index parsed from the container-number label.
// It returns 0 if the label is absent or malformed.
func (c Container) Number() int {
	n, err := strconv.Atoi(c.Labels[api.ContainerNumberLabel])
	if err != nil {
		return 0
	}
	return n
}

// NameWithoutProject strips the leading "<project>_" from the container
// name, matching the teacher's get_container_name/name_without_project.
func (c Container) NameWithoutProject() string {
	project := c.Labels[api.ProjectLabel]
	prefix := project + "_"
	if project != "" && strings.HasPrefix(c.Name, prefix) {
		return strings.TrimPrefix(c.Name, prefix)
	}
	return c.Name
}

// Stop stops the container, tolerating the daemon's "no such process" error
// (already stopped) the way the recreate protocol requires (spec.md §4.H).
func (c Container) Stop(ctx context.Context, timeoutSeconds *int) error {
	err := c.client.ContainerStop(ctx, c.ID, timeoutSeconds)
	if err != nil && isNoSuchProcess(err) {
		logrus.Debugf("%s was already stopped", c.Name)
		return nil
	}
	return err
}

// Start asks the runtime to start the container. It does not check whether
// the container is already running; startContainerIfStopped does.
func (c Container) Start(ctx context.Context) error {
	return c.client.ContainerStart(ctx, c.ID)
}

// Kill sends signal (or the runtime default) to the container.
func (c Container) Kill(ctx context.Context, signal string) error {
	return c.client.ContainerKill(ctx, c.ID, signal)
}

// Restart restarts the container.
func (c Container) Restart(ctx context.Context, timeoutSeconds *int) error {
	return c.client.ContainerRestart(ctx, c.ID, timeoutSeconds)
}

// Rename renames the container, used by the recreate protocol to free up
// the canonical name for the replacement (spec.md §4.H).
func (c Container) Rename(ctx context.Context, newName string) error {
	return c.client.ContainerRename(ctx, c.ID, newName)
}

// Remove removes the container.
func (c Container) Remove(ctx context.Context) error {
	return c.client.ContainerRemove(ctx, c.ID, container.RemoveOptions{})
}

// isNoSuchProcess matches the daemon's "no such process" stop error, the
// one runtime error the recreate protocol recovers from (spec.md §4.H, §7).
// It matches on the error text only; the HTTP status is not checked.
func isNoSuchProcess(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(errors.Cause(err).Error()), "no such process")
}

// containersFromList converts runtime container summaries into Container
// handles, reading the standard labels off each one.
func containersFromList(client RuntimeClient, summaries []container.Summary) Containers {
	out := make(Containers, 0, len(summaries))
	for _, s := range summaries {
		name := strings.TrimPrefix(firstName(s.Names), "/")
		out = append(out, Container{
			ID:        s.ID,
			Name:      name,
			IsRunning: s.State == "running",
			Labels:    s.Labels,
			client:    client,
		})
	}
	return out
}

func firstName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// Containers is a collection of Container with the ordering and filtering
// helpers the planner and scaler need.
type Containers []Container

func (cs Containers) filter(pred func(Container) bool) Containers {
	return Containers(utils.Filter([]Container(cs), pred))
}

func isRunning(c Container) bool { return c.IsRunning }
func isStopped(c Container) bool { return !c.IsRunning }
