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
	"encoding/json"
	"io"
	"strings"
)

// StreamError reports that a build/pull stream emitted an `error` frame.
// It is signaled out-of-band: Stream still returns every event it decoded
// before the error, so the caller can scan them the way the Image
// Provisioner does (spec.md §4.F).
type StreamError struct {
	Message string
}

func (e *StreamError) Error() string { return e.Message }

// Stream decodes a build/pull JSON-message stream, forwarding a
// human-readable frame for each `stream`/`status` event to w, and returns
// every decoded event dict. If any event carried an `error` field, Stream
// returns a *StreamError alongside the full event list (spec.md §6).
func Stream(r io.Reader, w Writer) ([]map[string]interface{}, error) {
	dec := json.NewDecoder(r)
	var events []map[string]interface{}
	var streamErr error

	for {
		var evt map[string]interface{}
		if err := dec.Decode(&evt); err != nil {
			if err == io.EOF {
				break
			}
			return events, err
		}
		events = append(events, evt)

		if msg, ok := evt["stream"].(string); ok && msg != "" {
			w.Event(WorkingEvent("build", strings.TrimRight(msg, "\n")))
		} else if msg, ok := evt["status"].(string); ok && msg != "" {
			id, _ := evt["id"].(string)
			w.Event(WorkingEvent(id, msg))
		}

		if errMsg, ok := evt["error"].(string); ok && errMsg != "" {
			streamErr = &StreamError{Message: errMsg}
			w.Event(ErrorEvent("", errMsg))
		}
	}

	return events, streamErr
}
