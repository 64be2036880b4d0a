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
	"testing"

	"gotest.tools/v3/assert"

	"github.com/csquared/compose/pkg/api"
)

func TestCanBeScaledNoHostBinding(t *testing.T) {
	svc := newTestService(t, newFakeClient(), Options{Image: "redis:6", Ports: []string{"6379"}})
	assert.Equal(t, svc.CanBeScaled(), true)
}

func TestCanBeScaledFalseWithHostBinding(t *testing.T) {
	svc := newTestService(t, newFakeClient(), Options{Image: "redis:6", Ports: []string{"6379:6379"}})
	assert.Equal(t, svc.CanBeScaled(), false)
}

func TestScaleRejectsHostBoundPorts(t *testing.T) {
	svc := newTestService(t, newFakeClient(), Options{Image: "redis:6", Ports: []string{"80:8080"}})
	err := svc.Scale(context.Background(), 3)
	assert.Assert(t, err != nil)
	assert.Equal(t, api.IsCannotBeScaledError(err), true)
}

func TestScaleUpFromZero(t *testing.T) {
	client := newFakeClient()
	client.images["redis:6"] = fakeImageInspect("sha256:abc")
	svc := newTestService(t, client, Options{Image: "redis:6"})

	err := svc.Scale(context.Background(), 3)
	assert.NilError(t, err)

	containers, err := svc.Containers(context.Background(), true, false)
	assert.NilError(t, err)
	running := containers.filter(isRunning)
	assert.Equal(t, len(running), 3)
}

func TestScaleDownStopsHighestNumbered(t *testing.T) {
	client := newFakeClient()
	client.images["redis:6"] = fakeImageInspect("sha256:abc")
	svc := newTestService(t, client, Options{Image: "redis:6"})

	for n := 1; n <= 3; n++ {
		client.addContainer(svc.GetContainerName(n, false), true, map[string]string{
			api.ProjectLabel: "myproject", api.ServiceLabel: "web", api.OneOffLabel: api.OneOffFalse,
			api.ContainerNumberLabel: strconv.Itoa(n),
		})
	}

	err := svc.Scale(context.Background(), 1)
	assert.NilError(t, err)

	containers, err := svc.Containers(context.Background(), true, false)
	assert.NilError(t, err)
	assert.Equal(t, len(containers), 1)
	assert.Equal(t, containers[0].Number(), 1)
	assert.Equal(t, containers[0].IsRunning, true)
}

func TestScaleIdempotent(t *testing.T) {
	client := newFakeClient()
	client.images["redis:6"] = fakeImageInspect("sha256:abc")
	svc := newTestService(t, client, Options{Image: "redis:6"})

	assert.NilError(t, svc.Scale(context.Background(), 2))
	assert.NilError(t, svc.Scale(context.Background(), 2))

	containers, err := svc.Containers(context.Background(), true, false)
	assert.NilError(t, err)
	assert.Equal(t, len(containers), 2)
	for _, c := range containers {
		assert.Equal(t, c.IsRunning, true)
	}
}
