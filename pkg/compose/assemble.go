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

// Option Assembler (spec.md §4.D), ground on
// original_source/compose/service.py's _get_container_create_options/
// _get_container_host_config/_get_links/_get_volumes_from/_get_net, and
// the teacher's pkg/compose/create.go payload shapes.
package compose

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/sirupsen/logrus"

	"github.com/csquared/compose/pkg/api"
)

// PortBinding is one host-side binding of a container port.
type PortBinding struct {
	HostIP   string
	HostPort string
}

// CreatePayload is the exact create-call + host-config record the runtime's
// create_container API expects (spec.md §4.D).
type CreatePayload struct {
	Name   string
	Config container.Config
	Host   container.HostConfig
}

// assembleCreatePayload runs the full option-assembly algorithm of
// spec.md §4.D for one container of service.
func (s *Service) assembleCreatePayload(ctx context.Context, override map[string]interface{}, number int, oneOff bool, previous *Container) (CreatePayload, error) {
	opts := s.Options // copy: start from service options (step 1, whitelist already enforced at construction)

	name := buildContainerName(s.Project, s.Name, number, oneOff)

	// Step 2: layer override options on top, key by key.
	applyOverrides(&opts, override)

	// Step 5: default detach.
	if opts.Detach == nil {
		t := true
		opts.Detach = &t
	}

	// Step 6: hostname/domainname split.
	if opts.Hostname != "" && opts.Domainname == "" && strings.Contains(opts.Hostname, ".") {
		idx := strings.IndexByte(opts.Hostname, '.')
		opts.Domainname = opts.Hostname[idx+1:]
		opts.Hostname = opts.Hostname[:idx]
	}

	// Step 7: ports normalization (container-exposed set).
	exposedPorts, err := normalizedExposedPorts(opts.Ports, opts.Expose)
	if err != nil {
		return CreatePayload{}, err
	}

	// Step 8: volume bindings + rewritten volume set.
	binds, err := mergeVolumeBindings(opts.Volumes, previous)
	if err != nil {
		return CreatePayload{}, err
	}
	volumeSet, err := volumesCreateSet(opts.Volumes)
	if err != nil {
		return CreatePayload{}, err
	}

	// Step 9: environment merge + affinity hint.
	env := mergeEnvironment(s.Options.Environment, optionsEnvironmentOverride(override))
	if previous != nil {
		env["affinity:container"] = "=" + previous.ID
	}

	// Step 10: image.
	image := s.ImageName()

	// Step 3/4/11: labels, including config-hash stamp when eligible.
	userLabels := map[string]string{}
	for k, v := range opts.Labels {
		userLabels[k] = v
	}
	addConfigHash := !oneOff && len(override) == 0
	if addConfigHash {
		imageID, herr := s.cachedImageID(ctx)
		if herr != nil {
			return CreatePayload{}, herr
		}
		hash, herr := ConfigHash(s.Options, imageID)
		if herr != nil {
			return CreatePayload{}, herr
		}
		userLabels[api.ConfigHashLabel] = hash
		logrus.Debugf("added config hash: %s", hash)
	}
	labels := buildContainerLabels(userLabels, serviceLabels(s.Project, s.Name, oneOff), number)
	assertCreateConfigOmitsStartOnlyKeys(labels)

	cfg := container.Config{
		Image:    image,
		Hostname: opts.Hostname,
		Domainname: opts.Domainname,
		Labels:   labels,
		Env:      renderEnv(env),
		Volumes:  volumeSet,
	}
	if len(exposedPorts) > 0 {
		cfg.ExposedPorts = exposedPortSet(exposedPorts)
	}

	host, err := s.assembleHostConfig(ctx, opts, binds, oneOff)
	if err != nil {
		return CreatePayload{}, err
	}

	return CreatePayload{Name: name, Config: cfg, Host: host}, nil
}

// assembleHostConfig builds the host_config payload (spec.md §4.D step 13).
func (s *Service) assembleHostConfig(ctx context.Context, opts Options, binds map[string]VolumeBindingTarget, oneOff bool) (container.HostConfig, error) {
	portBindings, err := buildPortBindings(opts.Ports)
	if err != nil {
		return container.HostConfig{}, err
	}

	dns := asStringSlice(opts.DNS)
	dnsSearch := asStringSlice(opts.DNSSearch)

	restart, err := ParseRestartSpec(opts.Restart)
	if err != nil {
		return container.HostConfig{}, err
	}

	extraHosts, err := BuildExtraHosts(opts.ExtraHosts)
	if err != nil {
		return container.HostConfig{}, err
	}

	links, err := s.getLinks(ctx, oneOff)
	if err != nil {
		return container.HostConfig{}, err
	}

	volumesFrom, err := s.getVolumesFrom(ctx)
	if err != nil {
		return container.HostConfig{}, err
	}

	netMode, err := s.getNet(ctx)
	if err != nil {
		return container.HostConfig{}, err
	}

	logDriver := opts.LogDriver
	if logDriver == "" {
		logDriver = "json-file"
	}

	return container.HostConfig{
		Links:        links,
		PortBindings: renderPortBindings(portBindings),
		Binds:        renderBinds(binds),
		VolumesFrom:  volumesFrom,
		Privileged:   opts.Privileged,
		NetworkMode:  container.NetworkMode(netMode),
		Devices:      renderDevices(opts.Devices),
		DNS:          dns,
		DNSSearch:    dnsSearch,
		RestartPolicy: container.RestartPolicy{
			Name:              container.RestartPolicyMode(restart.Name),
			MaximumRetryCount: restart.MaximumRetryCount,
		},
		CapAdd:      opts.CapAdd,
		CapDrop:     opts.CapDrop,
		LogConfig:   container.LogConfig{Type: logDriver},
		ExtraHosts:  renderExtraHosts(extraHosts),
		ReadOnly:    opts.ReadOnly,
		PidMode:     container.PidMode(opts.PID),
		SecurityOpt: opts.SecurityOpt,
	}, nil
}

// applyOverrides layers per-call override_options on top of opts, key by
// key winning on the override side (spec.md §4.D step 2).
func applyOverrides(opts *Options, override map[string]interface{}) {
	if v, ok := override["image"].(string); ok {
		opts.Image = v
	}
	if v, ok := override["ports"].([]string); ok {
		opts.Ports = v
	}
	if v, ok := override["expose"].([]string); ok {
		opts.Expose = v
	}
	if v, ok := override["volumes"].([]string); ok {
		opts.Volumes = v
	}
	if v, ok := override["hostname"].(string); ok {
		opts.Hostname = v
	}
	if v, ok := override["domainname"].(string); ok {
		opts.Domainname = v
	}
	if v, ok := override["labels"].(map[string]string); ok {
		opts.Labels = v
	}
	if v, ok := override["detach"].(bool); ok {
		opts.Detach = &v
	}
	if v, ok := override["dockerfile"].(string); ok {
		opts.Dockerfile = v
	}
	if v, ok := override["restart"].(string); ok {
		opts.Restart = v
	}
	if v, ok := override["dns"]; ok {
		opts.DNS = v
	}
	if v, ok := override["dns_search"]; ok {
		opts.DNSSearch = v
	}
	if v, ok := override["cap_add"].([]string); ok {
		opts.CapAdd = v
	}
	if v, ok := override["cap_drop"].([]string); ok {
		opts.CapDrop = v
	}
	if v, ok := override["devices"].([]string); ok {
		opts.Devices = v
	}
	if v, ok := override["log_driver"].(string); ok {
		opts.LogDriver = v
	}
	if v, ok := override["pid"].(string); ok {
		opts.PID = v
	}
	if v, ok := override["privileged"].(bool); ok {
		opts.Privileged = v
	}
	if v, ok := override["read_only"].(bool); ok {
		opts.ReadOnly = v
	}
	if v, ok := override["security_opt"].([]string); ok {
		opts.SecurityOpt = v
	}
	if v, ok := override["extra_hosts"]; ok {
		opts.ExtraHosts = v
	}
	if v, ok := override["container_name"].(string); ok {
		opts.ContainerName = v
	}
}

func optionsEnvironmentOverride(override map[string]interface{}) map[string]string {
	if v, ok := override["environment"].(map[string]string); ok {
		return v
	}
	return nil
}

// mergeEnvironment merges the service's declared environment with a
// per-call override, override winning key by key (spec.md §4.D step 9).
func mergeEnvironment(base, override map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func renderEnv(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%s", k, env[k]))
	}
	return out
}

// normalizedExposedPorts implements step 7: concatenate ports+expose, drop
// host-side prefixes keeping the final colon segment, split protocol.
func normalizedExposedPorts(ports, expose []string) ([]PortSpec, error) {
	all := append(append([]string{}, ports...), expose...)
	out := make([]PortSpec, 0, len(all))
	for _, raw := range all {
		segment := raw
		if idx := strings.LastIndex(segment, ":"); idx >= 0 {
			segment = segment[idx+1:]
		}
		spec, err := ParsePortSpec(segment)
		if err != nil {
			return nil, err
		}
		out = append(out, spec)
	}
	return out, nil
}

func exposedPortSet(specs []PortSpec) nat.PortSet {
	out := nat.PortSet{}
	for _, s := range specs {
		proto := s.Proto
		if proto == "" {
			proto = "tcp"
		}
		out[nat.Port(fmt.Sprintf("%s/%s", s.Container, proto))] = struct{}{}
	}
	return out
}

// buildPortBindings groups port entries by container port into the list of
// host bindings the daemon expects (spec.md §4.D step 13, inverse of §4.A).
func buildPortBindings(ports []string) (map[string][]PortBinding, error) {
	out := map[string][]PortBinding{}
	for _, raw := range ports {
		spec, err := ParsePortSpec(raw)
		if err != nil {
			return nil, err
		}
		proto := spec.Proto
		if proto == "" {
			proto = "tcp"
		}
		key := fmt.Sprintf("%s/%s", spec.Container, proto)
		out[key] = append(out[key], PortBinding{HostIP: spec.HostIP, HostPort: spec.HostPort})
	}
	return out, nil
}

func renderPortBindings(bindings map[string][]PortBinding) nat.PortMap {
	if len(bindings) == 0 {
		return nil
	}
	out := nat.PortMap{}
	for port, bs := range bindings {
		natBindings := make([]nat.PortBinding, 0, len(bs))
		for _, b := range bs {
			natBindings = append(natBindings, nat.PortBinding{HostIP: b.HostIP, HostPort: b.HostPort})
		}
		out[nat.Port(port)] = natBindings
	}
	return out
}

func renderBinds(binds map[string]VolumeBindingTarget) []string {
	if len(binds) == 0 {
		return nil
	}
	keys := make([]string, 0, len(binds))
	for k := range binds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, ext := range keys {
		target := binds[ext]
		mode := "rw"
		if target.ReadOnly {
			mode = "ro"
		}
		out = append(out, fmt.Sprintf("%s:%s:%s", ext, target.Bind, mode))
	}
	return out
}

func renderDevices(devices []string) []container.DeviceMapping {
	if len(devices) == 0 {
		return nil
	}
	out := make([]container.DeviceMapping, 0, len(devices))
	for _, d := range devices {
		parts := strings.SplitN(d, ":", 3)
		mapping := container.DeviceMapping{CgroupPermissions: "rwm"}
		switch len(parts) {
		case 1:
			mapping.PathOnHost, mapping.PathInContainer = parts[0], parts[0]
		case 2:
			mapping.PathOnHost, mapping.PathInContainer = parts[0], parts[1]
		default:
			mapping.PathOnHost, mapping.PathInContainer, mapping.CgroupPermissions = parts[0], parts[1], parts[2]
		}
		out = append(out, mapping)
	}
	return out
}

func renderExtraHosts(hosts map[string]string) []string {
	if len(hosts) == 0 {
		return nil
	}
	keys := make([]string, 0, len(hosts))
	for k := range hosts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, host := range keys {
		out = append(out, fmt.Sprintf("%s:%s", host, hosts[host]))
	}
	return out
}

// assertCreateConfigOmitsStartOnlyKeys guards step 12's struct-shape
// omission: startOnlyKeys belong only in host_config, and cfg.Labels is the
// one place an arbitrary raw key could leak through a user-supplied label
// bag. Catches the two implementations drifting apart rather than letting a
// start-only key silently reach the create config.
func assertCreateConfigOmitsStartOnlyKeys(labels map[string]string) {
	for k := range labels {
		if startOnlyKeys[k] {
			panic(fmt.Sprintf("compose: start-only option key %q must not appear in create config", k))
		}
	}
}

func asStringSlice(v interface{}) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case []string:
		return val
	default:
		return nil
	}
}
