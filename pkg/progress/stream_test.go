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
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

type recordingWriter struct {
	events []Event
}

func (w *recordingWriter) Event(e Event) { w.events = append(w.events, e) }

func TestStreamForwardsWorkingEvents(t *testing.T) {
	body := `{"stream":"Step 1/2\n"}
{"status":"Pulling fs layer","id":"abc"}
{"stream":"Successfully built abc123\n"}
`
	w := &recordingWriter{}
	events, err := Stream(strings.NewReader(body), w)
	assert.NilError(t, err)
	assert.Equal(t, len(events), 3)
	assert.Equal(t, len(w.events), 3)
	assert.Equal(t, w.events[0].Text, "Step 1/2")
	assert.Equal(t, w.events[1].ID, "abc")
}

func TestStreamSurfacesErrorFrame(t *testing.T) {
	body := `{"stream":"Step 1/1\n"}
{"error":"pull access denied"}
`
	w := &recordingWriter{}
	events, err := Stream(strings.NewReader(body), w)
	assert.Equal(t, len(events), 2)
	assert.Assert(t, err != nil)
	assert.ErrorContains(t, err, "pull access denied")

	found := false
	for _, e := range w.events {
		if e.Status == Error {
			found = true
		}
	}
	assert.Assert(t, found)
}

func TestPlainWriterFormatsErrorDifferently(t *testing.T) {
	var sb strings.Builder
	w := PlainWriter{Out: &sb}
	w.Event(WorkingEvent("id1", "doing things"))
	w.Event(ErrorEvent("id2", "boom"))

	out := sb.String()
	assert.Assert(t, strings.Contains(out, "doing things"))
	assert.Assert(t, strings.Contains(out, "id2 error: boom"))
}

func TestNopWriterDiscardsEvents(t *testing.T) {
	NopWriter{}.Event(WorkingEvent("id", "text")) // must not panic
}
