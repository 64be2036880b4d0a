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

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrConfig is returned for malformed service names, conflicting
	// image/build options, or malformed option-string specs.
	ErrConfig = errors.New("configuration error")
	// ErrBuild is returned when a build stream ends without producing an image id.
	ErrBuild = errors.New("build error")
	// ErrNeedsBuild is returned when an image is absent and building was disallowed.
	ErrNeedsBuild = errors.New("image needs to be built")
	// ErrCannotBeScaled is returned when scaling is attempted on a service
	// with an explicit host-port binding.
	ErrCannotBeScaled = errors.New("service cannot be scaled")
	// ErrInvalidPlanAction is a programming-error guard for unknown plan tags.
	ErrInvalidPlanAction = errors.New("invalid plan action")
)

// IsConfigError reports whether err is (or wraps) ErrConfig.
func IsConfigError(err error) bool { return errors.Is(err, ErrConfig) }

// IsNeedsBuildError reports whether err is (or wraps) ErrNeedsBuild.
func IsNeedsBuildError(err error) bool { return errors.Is(err, ErrNeedsBuild) }

// IsCannotBeScaledError reports whether err is (or wraps) ErrCannotBeScaled.
func IsCannotBeScaledError(err error) bool { return errors.Is(err, ErrCannotBeScaled) }

// ConfigError decorates ErrConfig with the offending service name and detail.
type ConfigError struct {
	Service string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("service %q: %s", e.Service, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// NewConfigError builds a ConfigError for the named service.
func NewConfigError(service, reason string) error {
	return &ConfigError{Service: service, Reason: reason}
}

// BuildError decorates ErrBuild with the offending service and the last
// build-stream event observed, if any.
type BuildError struct {
	Service   string
	Reason    string
	LastEvent map[string]interface{}
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("service %q: build failed: %s", e.Service, e.Reason)
}

func (e *BuildError) Unwrap() error { return ErrBuild }

// NeedsBuildError decorates ErrNeedsBuild with the offending service.
type NeedsBuildError struct {
	Service string
}

func (e *NeedsBuildError) Error() string {
	return fmt.Sprintf("service %q: image is absent and building was not requested", e.Service)
}

func (e *NeedsBuildError) Unwrap() error { return ErrNeedsBuild }

// CannotBeScaledError decorates ErrCannotBeScaled with the offending service.
type CannotBeScaledError struct {
	Service string
}

func (e *CannotBeScaledError) Error() string {
	return fmt.Sprintf("service %q declares a host port binding and cannot be scaled", e.Service)
}

func (e *CannotBeScaledError) Unwrap() error { return ErrCannotBeScaled }
