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

package progress

import (
	"fmt"
	"io"
)

// Writer is the text sink a progress stream forwards human-readable frames
// to (spec.md §6: "forwards human-readable frames to a text sink").
type Writer interface {
	Event(Event)
}

// PlainWriter is a Writer that writes one line per event to an io.Writer,
// the simplest form the teacher's pkg/progress/plain.go implements for
// non-interactive terminals.
type PlainWriter struct {
	Out io.Writer
}

// Event implements Writer.
func (w PlainWriter) Event(e Event) {
	if w.Out == nil {
		return
	}
	switch e.Status {
	case Error:
		fmt.Fprintf(w.Out, "%s error: %s\n", e.ID, e.Text)
	default:
		fmt.Fprintf(w.Out, "%s %s\n", e.ID, e.Text)
	}
}

// NopWriter discards every event.
type NopWriter struct{}

// Event implements Writer.
func (NopWriter) Event(Event) {}
