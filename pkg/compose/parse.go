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

// Spec Parsers (spec.md §4.A): short string forms for volumes, ports,
// restart policy, extra-hosts, and repository:tag, ground on
// original_source/compose/service.py's parse_volume_spec/split_port/
// parse_restart_spec/parse_repository_tag/build_extra_hosts.
package compose

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/csquared/compose/pkg/api"
)

// ParseVolumeSpec parses "[ext:]int[:mode]".
func ParseVolumeSpec(raw string) (VolumeSpec, error) {
	parts := strings.Split(raw, ":")
	switch len(parts) {
	case 1:
		return VolumeSpec{Internal: parts[0], Mode: "rw"}, nil
	case 2:
		return VolumeSpec{External: parts[0], Internal: parts[1], Mode: "rw"}, nil
	case 3:
		mode := parts[2]
		if mode != "rw" && mode != "ro" {
			return VolumeSpec{}, api.NewConfigError("", fmt.Sprintf(
				"volume %q has invalid mode (%s), should be one of: rw, ro", raw, mode))
		}
		return VolumeSpec{External: parts[0], Internal: parts[1], Mode: mode}, nil
	default:
		return VolumeSpec{}, api.NewConfigError("", fmt.Sprintf(
			"volume %q has incorrect format, should be external:internal[:mode]", raw))
	}
}

// ParsePortSpec parses "[[ip:]host:]container[/proto]".
func ParsePortSpec(raw string) (PortSpec, error) {
	parts := strings.Split(raw, ":")
	var p PortSpec
	switch len(parts) {
	case 1:
		p.Container = parts[0]
	case 2:
		p.HostPort = parts[0]
		p.Container = parts[1]
		p.hasHost = true
	case 3:
		p.HostIP = parts[0]
		p.HostPort = parts[1]
		p.Container = parts[2]
		p.hasHost = true
	default:
		return PortSpec{}, api.NewConfigError("", fmt.Sprintf(
			"invalid port %q, should be [[remote_ip:]remote_port:]port[/protocol]", raw))
	}
	if idx := strings.IndexByte(p.Container, '/'); idx >= 0 {
		p.Proto = p.Container[idx+1:]
		p.Container = p.Container[:idx]
	}
	return p, nil
}

// ParseRestartSpec parses "name[:max]".
func ParseRestartSpec(raw string) (RestartSpec, error) {
	if raw == "" {
		return RestartSpec{}, nil
	}
	parts := strings.Split(raw, ":")
	if len(parts) > 2 {
		return RestartSpec{}, api.NewConfigError("", fmt.Sprintf(
			"restart %q has incorrect format, should be mode[:max_retry]", raw))
	}
	spec := RestartSpec{Name: parts[0]}
	if len(parts) == 2 {
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return RestartSpec{}, api.NewConfigError("", fmt.Sprintf(
				"restart %q has a non-numeric max retry count", raw))
		}
		spec.MaximumRetryCount = n
	}
	return spec, nil
}

// ParseRepositoryTag splits "r[:t]" into (repo, tag) on the last colon. A
// colon belonging to a registry host:port (the "tag" containing a slash) is
// not treated as a tag separator.
func ParseRepositoryTag(raw string) (repo, tag string) {
	i := strings.LastIndex(raw, ":")
	if i < 0 {
		return raw, ""
	}
	repo, tag = raw[:i], raw[i+1:]
	if strings.Contains(tag, "/") {
		return raw, ""
	}
	return repo, tag
}

// BuildExtraHosts normalizes extra_hosts into a map, accepting either an
// already-built mapping or a list of "host:ip" lines (last-wins on repeats).
func BuildExtraHosts(raw interface{}) (map[string]string, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]string{}, nil
	case map[string]string:
		return v, nil
	case []string:
		out := map[string]string{}
		for _, line := range v {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) != 2 {
				return nil, api.NewConfigError("", fmt.Sprintf(
					"extra_hosts entry %q must be of the form host:ip", line))
			}
			out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
		return out, nil
	default:
		return nil, api.NewConfigError("", "extra_hosts must be either a list of strings or a string->string mapping")
	}
}
