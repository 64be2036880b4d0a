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

// VolumeSpec is the parsed form of a "[ext:]int[:mode]" volume string
// (spec.md §3, §4.A).
type VolumeSpec struct {
	External string // empty means "no host binding"
	Internal string
	Mode     string // "rw" or "ro"
}

// HasExternal reports whether this spec already carries a host-side binding.
func (v VolumeSpec) HasExternal() bool { return v.External != "" }

// PortSpec is the parsed form of a "[[ip:]host:]container[/proto]" port
// string (spec.md §4.A).
type PortSpec struct {
	Container string
	Proto     string // "" defaults to tcp
	HostIP    string
	HostPort  string // empty means "unbound" (no host-side binding requested)
	hasHost   bool
}

// HasHostBinding reports whether a host port (with or without an IP) was given.
func (p PortSpec) HasHostBinding() bool { return p.hasHost }

// RestartSpec is the parsed form of a "name[:max]" restart policy string
// (spec.md §4.A).
type RestartSpec struct {
	Name              string
	MaximumRetryCount int
}

// RefKind tags which arm of a Service/Container/string polymorphic
// reference is populated (spec.md §9 "Polymorphic references").
type RefKind int

const (
	// RefNone means the reference is absent.
	RefNone RefKind = iota
	// RefString is a literal string value (only valid for `net`).
	RefString
	// RefService points at another declared Service, resolved by name.
	RefService
	// RefContainer points at a concrete Container.
	RefContainer
)

// Ref is a tagged variant standing in for `net`/`volumes_from` targets that
// may be a Service, a Container, or (net only) a plain string. Service
// references are held weakly (by name, resolved through a Registry at call
// time) so that cyclic link/volumes_from graphs across services don't force
// eager materialization (spec.md §9).
type Ref struct {
	Kind      RefKind
	Str       string
	ServiceRef *ServiceRef
	Container *Container
}

// StringRef builds a literal string Ref (net mode only).
func StringRef(s string) Ref { return Ref{Kind: RefString, Str: s} }

// ServiceRefOf builds a Ref pointing at a named service in registry.
func ServiceRefOf(registry *Registry, name string) Ref {
	return Ref{Kind: RefService, ServiceRef: &ServiceRef{name: name, registry: registry}}
}

// ContainerRefOf builds a Ref pointing at a concrete container.
func ContainerRefOf(c Container) Ref {
	cc := c
	return Ref{Kind: RefContainer, Container: &cc}
}

// Link pairs a linked service reference with an optional alias
// (spec.md §3 `links`).
type Link struct {
	Service *ServiceRef
	Alias   string // empty means "use the linked service's own name"
}

// ServiceRef is a weak, by-name reference to another Service, resolved
// through a Registry only when actually needed (spec.md §9).
type ServiceRef struct {
	name     string
	registry *Registry
}

// Resolve looks the referenced service up in its registry. ok is false if
// the registry has no such service (e.g. not yet registered).
func (r *ServiceRef) Resolve() (*Service, bool) {
	if r == nil || r.registry == nil {
		return nil, false
	}
	return r.registry.Lookup(r.name)
}

// Name returns the referenced service's name without resolving it.
func (r *ServiceRef) Name() string {
	if r == nil {
		return ""
	}
	return r.name
}
