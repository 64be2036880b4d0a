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
	"testing"

	"gotest.tools/v3/assert"

	"github.com/csquared/compose/pkg/api"
)

func TestNewServiceRejectsInvalidName(t *testing.T) {
	_, err := NewService("bad-name", "myproject", newFakeClient(), Options{Image: "redis:6"})
	assert.Assert(t, err != nil)
	assert.Equal(t, api.IsConfigError(err), true)
}

func TestNewServiceRejectsBothImageAndBuild(t *testing.T) {
	_, err := NewService("web", "myproject", newFakeClient(), Options{Image: "redis:6", Build: "."})
	assert.Assert(t, err != nil)
	assert.Equal(t, api.IsConfigError(err), true)
}

func TestNewServiceRejectsNeitherImageNorBuild(t *testing.T) {
	_, err := NewService("web", "myproject", newFakeClient(), Options{})
	assert.Assert(t, err != nil)
	assert.Equal(t, api.IsConfigError(err), true)
}

func TestGetContainerFindsByNumber(t *testing.T) {
	client := newFakeClient()
	svc := newTestService(t, client, Options{Image: "redis:6"})
	client.addContainer("myproject_web_2", true, map[string]string{
		api.ProjectLabel: "myproject", api.ServiceLabel: "web", api.OneOffLabel: api.OneOffFalse,
		api.ContainerNumberLabel: "2",
	})

	c, err := svc.GetContainer(context.Background(), 2)
	assert.NilError(t, err)
	assert.Equal(t, c.Number(), 2)
}

func TestGetContainerErrorsWhenMissing(t *testing.T) {
	svc := newTestService(t, newFakeClient(), Options{Image: "redis:6"})
	_, err := svc.GetContainer(context.Background(), 1)
	assert.Assert(t, err != nil)
}

func TestStartOrCreateContainersCreatesWhenNoneExist(t *testing.T) {
	client := newFakeClient()
	client.images["redis:6"] = fakeImageInspect("sha256:abc")
	svc := newTestService(t, client, Options{Image: "redis:6"})

	containers, err := svc.StartOrCreateContainers(context.Background(), false, false)
	assert.NilError(t, err)
	assert.Equal(t, len(containers), 1)
}

func TestStartOrCreateContainersStartsExisting(t *testing.T) {
	client := newFakeClient()
	svc := newTestService(t, client, Options{Image: "redis:6"})
	stopped := client.addContainer("myproject_web_1", false, map[string]string{
		api.ProjectLabel: "myproject", api.ServiceLabel: "web", api.OneOffLabel: api.OneOffFalse,
		api.ContainerNumberLabel: "1",
	})

	containers, err := svc.StartOrCreateContainers(context.Background(), false, false)
	assert.NilError(t, err)
	assert.Equal(t, len(containers), 1)
	assert.Equal(t, client.containers[stopped.id].running, true)
}

func TestGetDependencyNames(t *testing.T) {
	registry := NewRegistry()
	svc := newTestService(t, newFakeClient(), Options{Image: "redis:6"})
	svc.Links = []Link{{Service: serviceRefFor(registry, "db")}}
	svc.VolumesFrom = []Ref{ServiceRefOf(registry, "data")}
	svc.Net = ServiceRefOf(registry, "netsvc")

	names := svc.GetDependencyNames()
	assert.DeepEqual(t, names, []string{"db", "data", "netsvc"})
}

func TestGetContainerNameMatchesBuildContainerName(t *testing.T) {
	svc := newTestService(t, newFakeClient(), Options{Image: "redis:6"})
	assert.Equal(t, svc.GetContainerName(3, false), "myproject_web_3")
	assert.Equal(t, svc.GetContainerName(1, true), "myproject_web_run_1")
}
