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
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/errdefs"
)

// fakeContainer is the in-memory record backing fakeClient.
type fakeContainer struct {
	id        string
	name      string
	running   bool
	labels    map[string]string
	imageID   string
	mounts    map[string]string // destination -> source
	renamedTo string
}

// fakeClient is a minimal in-memory RuntimeClient used across this
// package's tests, standing in for *github.com/docker/docker/client.Client.
type fakeClient struct {
	containers   map[string]*fakeContainer
	nextID       int
	images       map[string]image.InspectResponse
	createCalls  []container.Config
	closed       bool
	buildImageID string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		containers:   map[string]*fakeContainer{},
		images:       map[string]image.InspectResponse{},
		buildImageID: "abc123",
	}
}

func (f *fakeClient) addContainer(name string, running bool, labels map[string]string) *fakeContainer {
	f.nextID++
	id := fmt.Sprintf("id%03d", f.nextID)
	c := &fakeContainer{id: id, name: name, running: running, labels: labels, mounts: map[string]string{}}
	f.containers[id] = c
	return c
}

func (f *fakeClient) ContainerList(ctx context.Context, opts container.ListOptions) ([]container.Summary, error) {
	var wantLabels map[string]string
	for _, kv := range opts.Filters.Get("label") {
		if wantLabels == nil {
			wantLabels = map[string]string{}
		}
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			wantLabels[kv[:idx]] = kv[idx+1:]
		} else {
			wantLabels[kv] = ""
		}
	}

	var out []container.Summary
	for _, c := range f.containers {
		if !opts.All && !c.running {
			continue
		}
		if !labelsMatch(c.labels, wantLabels) {
			continue
		}
		out = append(out, container.Summary{
			ID:     c.id,
			Names:  []string{"/" + c.name},
			State:  stateOf(c.running),
			Labels: c.labels,
		})
	}
	return out, nil
}

func labelsMatch(have, want map[string]string) bool {
	for k, v := range want {
		got, ok := have[k]
		if !ok {
			return false
		}
		if v != "" && got != v {
			return false
		}
	}
	return true
}

func stateOf(running bool) string {
	if running {
		return "running"
	}
	return "exited"
}

func (f *fakeClient) ContainerInspect(ctx context.Context, id string) (container.InspectResponse, error) {
	c, ok := f.containers[id]
	if !ok {
		return container.InspectResponse{}, fmt.Errorf("no such container: %s", id)
	}
	var mounts []container.MountPoint
	for dest, src := range c.mounts {
		mounts = append(mounts, container.MountPoint{Destination: dest, Source: src})
	}
	resp := container.InspectResponse{
		Mounts: mounts,
	}
	resp.ID = c.id
	resp.Name = "/" + c.name
	resp.Image = c.imageID
	resp.State = &container.State{Running: c.running}
	resp.Config = &container.Config{Labels: c.labels}
	return resp, nil
}

func (f *fakeClient) ContainerCreate(ctx context.Context, cfg *container.Config, host *container.HostConfig, name string) (container.CreateResponse, error) {
	f.createCalls = append(f.createCalls, *cfg)
	c := f.addContainer(name, false, cfg.Labels)
	return container.CreateResponse{ID: c.id}, nil
}

func (f *fakeClient) ContainerStart(ctx context.Context, id string) error {
	c, ok := f.containers[id]
	if !ok {
		return fmt.Errorf("no such container: %s", id)
	}
	c.running = true
	return nil
}

func (f *fakeClient) ContainerStop(ctx context.Context, id string, timeoutSeconds *int) error {
	c, ok := f.containers[id]
	if !ok {
		return fmt.Errorf("no such process: %s", id)
	}
	c.running = false
	return nil
}

func (f *fakeClient) ContainerKill(ctx context.Context, id, signal string) error {
	return f.ContainerStop(ctx, id, nil)
}

func (f *fakeClient) ContainerRestart(ctx context.Context, id string, timeoutSeconds *int) error {
	c, ok := f.containers[id]
	if !ok {
		return fmt.Errorf("no such container: %s", id)
	}
	c.running = true
	return nil
}

func (f *fakeClient) ContainerRename(ctx context.Context, id, newName string) error {
	c, ok := f.containers[id]
	if !ok {
		return fmt.Errorf("no such container: %s", id)
	}
	c.renamedTo = newName
	c.name = newName
	return nil
}

func (f *fakeClient) ContainerRemove(ctx context.Context, id string, opts container.RemoveOptions) error {
	delete(f.containers, id)
	return nil
}

func (f *fakeClient) ImageInspect(ctx context.Context, refOrID string) (image.InspectResponse, error) {
	inspected, ok := f.images[refOrID]
	if !ok {
		return image.InspectResponse{}, errdefs.NotFound(fmt.Errorf("no such image: %s", refOrID))
	}
	return inspected, nil
}

func (f *fakeClient) ImageBuild(ctx context.Context, opts BuildRequest) (io.ReadCloser, error) {
	id := f.buildImageID
	f.images[opts.Tag] = fakeImageInspect(id)
	body := fmt.Sprintf("{\"stream\":\"Step 1/1\\n\"}\n{\"stream\":\"Successfully built %s\\n\"}\n", id)
	return io.NopCloser(strings.NewReader(body)), nil
}

func (f *fakeClient) ImagePull(ctx context.Context, repo, tag string, insecureRegistry bool) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(`{"status":"Pulling from ` + repo + `"}` + "\n")), nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

// fakeImageInspect builds a minimal image.InspectResponse carrying just the
// id, enough for the config-fingerprint and volume-migration tests.
func fakeImageInspect(id string) image.InspectResponse {
	return image.InspectResponse{ID: id, Config: &container.Config{}}
}
