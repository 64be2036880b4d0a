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

import "github.com/csquared/compose/pkg/api"

// Options is the typed form of a service's free-form option bag
// (spec.md §3, §9: "Dynamic option bag -> typed record"). Recognized keys
// are enumerated here explicitly; ValidateOptionKeys rejects any other key
// in a raw option bag as a configuration fault.
type Options struct {
	Image      string
	Build      string
	Dockerfile string

	Ports       []string
	Expose      []string
	Environment map[string]string // preserves arbitrary byte-string keys, e.g. "affinity:container" (spec.md §9)
	Volumes     []string
	Restart     string

	DNS       interface{} // string or []string
	DNSSearch interface{} // string or []string
	CapAdd    []string
	CapDrop   []string
	Devices   []string
	LogDriver string
	PID       string
	Privileged bool
	ReadOnly   bool
	SecurityOpt []string
	ExtraHosts  interface{} // map[string]string or []string "host:ip"

	Labels      map[string]string
	Hostname    string
	Domainname  string
	Detach      *bool
	ContainerName string
}

// recognizedOptionKeys is the full set of keys a raw option bag may contain;
// anything outside it is a configuration fault (spec.md §9).
var recognizedOptionKeys = map[string]bool{
	"image": true, "build": true, "dockerfile": true,
	"ports": true, "expose": true, "environment": true, "volumes": true, "restart": true,
	"dns": true, "dns_search": true, "cap_add": true, "cap_drop": true, "devices": true,
	"log_driver": true, "pid": true, "privileged": true, "read_only": true, "security_opt": true,
	"extra_hosts": true, "labels": true, "hostname": true, "domainname": true, "detach": true,
	"container_name": true, "links": true, "external_links": true, "volumes_from": true, "net": true,
}

// ValidateOptionKeys rejects any key outside the recognized whitelist. It's
// the guard a config loader should run before building an Options value from
// a raw bag (e.g. parsed YAML), matching the design note in spec.md §9.
func ValidateOptionKeys(serviceName string, raw map[string]interface{}) error {
	for k := range raw {
		if !recognizedOptionKeys[k] {
			return api.NewConfigError(serviceName, "unrecognized option \""+k+"\"")
		}
	}
	return nil
}

// startOnlyKeys are the option keys that belong only in host_config and
// must never appear in the create payload (spec.md §4.D step 12, §6).
var startOnlyKeys = map[string]bool{
	"cap_add": true, "cap_drop": true, "devices": true, "dns": true, "dns_search": true,
	"env_file": true, "extra_hosts": true, "read_only": true, "net": true, "log_driver": true,
	"pid": true, "privileged": true, "restart": true, "volumes_from": true, "security_opt": true,
}
