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

package api

const (
	// ProjectLabel identifies which project a container belongs to.
	ProjectLabel = "com.docker.compose.project"
	// ServiceLabel identifies which service within a project a container runs.
	ServiceLabel = "com.docker.compose.service"
	// OneOffLabel marks containers created outside normal convergence, e.g. `run`.
	OneOffLabel = "com.docker.compose.oneoff"
	// ContainerNumberLabel stores the replica index of a container within its service.
	ContainerNumberLabel = "com.docker.compose.container-number"
	// ConfigHashLabel stores the config fingerprint a container was created with.
	ConfigHashLabel = "com.docker.compose.config-hash"
	// VersionLabel stores the engine version that created the container.
	VersionLabel = "com.docker.compose.version"
)

// OneOffTrue and OneOffFalse are the two string forms the OneOffLabel takes.
const (
	OneOffTrue  = "True"
	OneOffFalse = "False"
)
