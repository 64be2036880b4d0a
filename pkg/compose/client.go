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
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
)

// RuntimeClient is the subset of the runtime's HTTP API the engine consumes
// (spec.md §6). Its methods are modeled on those of
// *github.com/docker/docker/client.Client but with simplified signatures,
// so that client does not satisfy it directly; tests provide a fake.
type RuntimeClient interface {
	ContainerList(ctx context.Context, opts container.ListOptions) ([]container.Summary, error)
	ContainerInspect(ctx context.Context, id string) (container.InspectResponse, error)
	ContainerCreate(ctx context.Context, cfg *container.Config, host *container.HostConfig, name string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, id string) error
	ContainerStop(ctx context.Context, id string, timeoutSeconds *int) error
	ContainerKill(ctx context.Context, id, signal string) error
	ContainerRestart(ctx context.Context, id string, timeoutSeconds *int) error
	ContainerRename(ctx context.Context, id, newName string) error
	ContainerRemove(ctx context.Context, id string, opts container.RemoveOptions) error

	ImageInspect(ctx context.Context, refOrID string) (image.InspectResponse, error)
	ImageBuild(ctx context.Context, opts BuildRequest) (io.ReadCloser, error)
	ImagePull(ctx context.Context, repo, tag string, insecureRegistry bool) (io.ReadCloser, error)

	Close() error
}

// BuildRequest carries the parameters of a single image build (spec.md §4.F).
type BuildRequest struct {
	ContextPath string
	Tag         string
	Dockerfile  string
	NoCache     bool
	Remove      bool
}

// listOptionsFor builds the ContainerList call options selecting
// containers by the given labels, including stopped ones when requested
// (spec.md §6: `containers(all, filters={label:[...]})`).
func listOptionsFor(all bool, labels map[string]string) container.ListOptions {
	return container.ListOptions{All: all, Filters: LabelFilter(labels)}
}

// LabelFilter builds a container-list filter selecting on label equality,
// matching the runtime's `filters={label:[...]}` contract (spec.md §6).
func LabelFilter(labels map[string]string) filters.Args {
	args := filters.NewArgs()
	for k, v := range labels {
		if v == "" {
			args.Add("label", k)
			continue
		}
		args.Add("label", k+"="+v)
	}
	return args
}
