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
	"testing"

	"gotest.tools/v3/assert"

	"github.com/csquared/compose/pkg/api"
)

func TestBuildContainerName(t *testing.T) {
	assert.Equal(t, buildContainerName("myproject", "web", 2, false), "myproject_web_2")
	assert.Equal(t, buildContainerName("myproject", "web", 1, true), "myproject_web_run_1")
}

func TestServiceLabels(t *testing.T) {
	labels := serviceLabels("myproject", "web", false)
	assert.Equal(t, labels[api.ProjectLabel], "myproject")
	assert.Equal(t, labels[api.ServiceLabel], "web")
	assert.Equal(t, labels[api.OneOffLabel], api.OneOffFalse)

	labels = serviceLabels("myproject", "web", true)
	assert.Equal(t, labels[api.OneOffLabel], api.OneOffTrue)
}

func TestBuildContainerLabels(t *testing.T) {
	user := map[string]string{"com.example.owner": "alice"}
	svc := serviceLabels("myproject", "web", false)
	labels := buildContainerLabels(user, svc, 3)

	assert.Equal(t, labels["com.example.owner"], "alice")
	assert.Equal(t, labels[api.ProjectLabel], "myproject")
	assert.Equal(t, labels[api.ContainerNumberLabel], "3")
	assert.Assert(t, labels[api.VersionLabel] != "")
}

func TestNextContainerNumber(t *testing.T) {
	assert.Equal(t, nextContainerNumber(nil), 1)

	existing := Containers{
		{Labels: map[string]string{api.ContainerNumberLabel: "1"}},
		{Labels: map[string]string{api.ContainerNumberLabel: "3"}},
		{Labels: map[string]string{api.ContainerNumberLabel: "2"}},
	}
	assert.Equal(t, nextContainerNumber(existing), 4)
}

func TestValidName(t *testing.T) {
	assert.Equal(t, validName("web1"), true)
	assert.Equal(t, validName(""), false)
	assert.Equal(t, validName("web-1"), false)
	assert.Equal(t, validName("web_1"), false)
}

func TestRegistryRegisterLookup(t *testing.T) {
	registry := NewRegistry()
	svc, err := NewService("web", "myproject", newFakeClient(), Options{Image: "redis"})
	assert.NilError(t, err)
	registry.Register(svc)

	got, ok := registry.Lookup("web")
	assert.Equal(t, ok, true)
	assert.Equal(t, got, svc)

	_, ok = registry.Lookup("missing")
	assert.Equal(t, ok, false)
}

func TestServiceRefResolve(t *testing.T) {
	registry := NewRegistry()
	ref := ServiceRefOf(registry, "db")
	_, ok := ref.ServiceRef.Resolve()
	assert.Equal(t, ok, false)

	svc, err := NewService("db", "myproject", newFakeClient(), Options{Image: "postgres"})
	assert.NilError(t, err)
	registry.Register(svc)

	resolved, ok := ref.ServiceRef.Resolve()
	assert.Equal(t, ok, true)
	assert.Equal(t, resolved.Name, "db")
}
