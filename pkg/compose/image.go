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

// Image Provisioner (spec.md §4.F), ground on
// original_source/compose/service.py's ensure_image_exists/image/build/pull.
package compose

import (
	"context"
	"regexp"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/errdefs"
	"github.com/sirupsen/logrus"

	"github.com/csquared/compose/pkg/api"
	"github.com/csquared/compose/pkg/progress"
)

var buildSuccessRE = regexp.MustCompile(`Successfully built ([0-9a-f]+)`)

// EnsureImageExists implements the ensure_image_exists algorithm: inspect,
// then build or pull depending on what the service declares and whether
// building is permitted (spec.md §4.F).
func (s *Service) EnsureImageExists(ctx context.Context, doBuild, insecureRegistry bool) error {
	inspected, err := s.Image(ctx)
	if err != nil {
		return err
	}
	if inspected != nil {
		return nil
	}

	if s.CanBeBuilt() {
		if !doBuild {
			return &api.NeedsBuildError{Service: s.Name}
		}
		_, err := s.Build(ctx, false)
		return err
	}

	return s.Pull(ctx, insecureRegistry)
}

// Image inspects the image_name, treating the runtime's "no such image"
// 404 as a benign absence rather than an error (spec.md §4.F).
func (s *Service) Image(ctx context.Context) (*image.InspectResponse, error) {
	inspected, err := s.Client.ImageInspect(ctx, s.ImageName())
	if err != nil {
		if errdefs.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &inspected, nil
}

// cachedImageID returns the inspected image's id, memoized on the Service
// value so a convergence pass sees a stable fingerprint even though the id
// comes from a remote call (spec.md §9). Build and Pull clear the cache on
// success, since either can replace the image this Service's id refers to.
func (s *Service) cachedImageID(ctx context.Context) (string, error) {
	if s.imageIDCache != "" {
		return s.imageIDCache, nil
	}
	inspected, err := s.Image(ctx)
	if err != nil {
		return "", err
	}
	if inspected == nil {
		return "", nil
	}
	s.imageIDCache = inspected.ID
	return s.imageIDCache, nil
}

// CanBeBuilt reports whether the service declares a build path.
func (s *Service) CanBeBuilt() bool { return s.Options.Build != "" }

// ImageName is `<project>_<name>` when built locally, otherwise the
// literal image option (spec.md §3).
func (s *Service) ImageName() string {
	if s.CanBeBuilt() {
		return s.FullName()
	}
	return s.Options.Image
}

// FullName is the tag given to images built for this service.
func (s *Service) FullName() string { return s.Project + "_" + s.Name }

// Build invokes the runtime's build call, streams its output to the
// progress collaborator, and scans for the "Successfully built <id>"
// marker; the last match wins (spec.md §4.F).
func (s *Service) Build(ctx context.Context, noCache bool) (string, error) {
	logrus.Infof("Building %s...", s.Name)

	rc, err := s.Client.ImageBuild(ctx, BuildRequest{
		ContextPath: s.Options.Build,
		Tag:         s.ImageName(),
		Dockerfile:  s.Options.Dockerfile,
		NoCache:     noCache,
		Remove:      true,
	})
	if err != nil {
		return "", err
	}
	defer rc.Close()

	events, streamErr := progress.Stream(rc, s.Progress)
	if streamErr != nil {
		return "", &api.BuildError{Service: s.Name, Reason: streamErr.Error()}
	}

	imageID := ""
	for _, evt := range events {
		if msg, ok := evt["stream"].(string); ok {
			if m := buildSuccessRE.FindStringSubmatch(msg); m != nil {
				imageID = m[1]
			}
		}
	}
	if imageID == "" {
		if len(events) == 0 {
			return "", &api.BuildError{Service: s.Name, Reason: "Unknown"}
		}
		return "", &api.BuildError{Service: s.Name, Reason: "no success marker in build output", LastEvent: events[len(events)-1]}
	}
	s.imageIDCache = ""
	return imageID, nil
}

// Pull invokes the runtime's pull call for the declared image, streaming
// output to the progress collaborator (spec.md §4.F).
func (s *Service) Pull(ctx context.Context, insecureRegistry bool) error {
	if s.Options.Image == "" {
		return nil
	}
	repo, tag := ParseRepositoryTag(s.Options.Image)
	if tag == "" {
		tag = "latest"
	}
	logrus.Infof("Pulling %s (%s:%s)...", s.Name, repo, tag)

	rc, err := s.Client.ImagePull(ctx, repo, tag, insecureRegistry)
	if err != nil {
		return err
	}
	defer rc.Close()

	_, streamErr := progress.Stream(rc, s.Progress)
	if streamErr == nil {
		s.imageIDCache = ""
	}
	return streamErr
}
