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

// Package progress is the build/pull progress-stream collaborator consumed
// by the Image Provisioner (spec.md §4.F, §6): it forwards human-readable
// frames to a text sink and signals stream errors out-of-band. Adapted from
// the teacher's pkg/progress (Event/EventStatus/Writer).
package progress

// EventStatus indicates the status of a reported action.
type EventStatus int

const (
	// Working means the event's action is still in progress.
	Working EventStatus = iota
	// Done means the event's action completed successfully.
	Done
	// Error means the event's action failed.
	Error
)

// Event represents one frame of a build or pull stream.
type Event struct {
	ID         string
	Text       string
	Status     EventStatus
	StatusText string
}

// WorkingEvent reports an in-progress frame.
func WorkingEvent(id, text string) Event { return Event{ID: id, Text: text, Status: Working} }

// DoneEvent reports a completed frame.
func DoneEvent(id, text string) Event { return Event{ID: id, Text: text, Status: Done} }

// ErrorEvent reports a failed frame.
func ErrorEvent(id, text string) Event { return Event{ID: id, Text: text, Status: Error} }
