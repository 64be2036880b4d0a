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

// Volume Migrator (spec.md §4.E), ground on
// original_source/compose/service.py's merge_volume_bindings/
// get_container_data_volumes/build_volume_binding.
package compose

// VolumeBindingTarget is the host-config shape of one volume bind: the
// internal (container-side) path and whether it's read-only.
type VolumeBindingTarget struct {
	Bind     string
	ReadOnly bool
}

// buildVolumeBinding converts a VolumeSpec into a (external, target) pair.
func buildVolumeBinding(v VolumeSpec) (string, VolumeBindingTarget) {
	return v.External, VolumeBindingTarget{Bind: v.Internal, ReadOnly: v.Mode == "ro"}
}

// mergeVolumeBindings computes the host-config `binds` map: declared
// volumes that already have an explicit external side always win; any
// internal path left without one is carried over from the previous
// container's volumes (or the image's declared volumes), if it existed
// there (spec.md §4.E).
func mergeVolumeBindings(declaredVolumes []string, previous *Container) (map[string]VolumeBindingTarget, error) {
	bindings := map[string]VolumeBindingTarget{}
	for _, raw := range declaredVolumes {
		spec, err := ParseVolumeSpec(raw)
		if err != nil {
			return nil, err
		}
		if !spec.HasExternal() {
			continue
		}
		ext, target := buildVolumeBinding(spec)
		bindings[ext] = target
	}

	if previous != nil {
		carried, err := containerDataVolumes(*previous, declaredVolumes)
		if err != nil {
			return nil, err
		}
		for ext, target := range carried {
			bindings[ext] = target
		}
	}

	return bindings, nil
}

// containerDataVolumes finds the internal paths declared by volumesOption
// (and, additionally, by the previous container's image config) that have
// no external side but did exist as a data volume on the previous
// container, and returns bindings carrying their host paths forward
// (spec.md §4.E).
func containerDataVolumes(previous Container, volumesOption []string) (map[string]VolumeBindingTarget, error) {
	seen := map[string]bool{}
	var internalPaths []VolumeBindingTarget
	for _, raw := range volumesOption {
		spec, err := ParseVolumeSpec(raw)
		if err != nil {
			return nil, err
		}
		if spec.HasExternal() {
			continue
		}
		if !seen[spec.Internal] {
			seen[spec.Internal] = true
			internalPaths = append(internalPaths, VolumeBindingTarget{Bind: spec.Internal, ReadOnly: spec.Mode == "ro"})
		}
	}
	for imageVolume := range previous.ImageConfig.Volumes {
		if !seen[imageVolume] {
			seen[imageVolume] = true
			internalPaths = append(internalPaths, VolumeBindingTarget{Bind: imageVolume, ReadOnly: false})
		}
	}

	out := map[string]VolumeBindingTarget{}
	for _, target := range internalPaths {
		hostPath, ok := previous.Volumes[target.Bind]
		if !ok || hostPath == "" {
			continue
		}
		out[hostPath] = target
	}
	return out, nil
}

// volumesCreateSet rewrites a declared volumes list into the runtime's
// "volume set" create-payload form: a map from internal path to an empty
// descriptor (spec.md §4.D step 8).
func volumesCreateSet(declaredVolumes []string) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	for _, raw := range declaredVolumes {
		spec, err := ParseVolumeSpec(raw)
		if err != nil {
			return nil, err
		}
		out[spec.Internal] = struct{}{}
	}
	return out, nil
}
