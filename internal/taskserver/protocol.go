// Package taskserver accepts validation tasks over TCP.
//
// Each connection carries exactly one JSON object request and receives
// exactly one JSON object response. A request names an optional set of log
// files; the response echoes the task identifier and carries one report per
// named file, in request order.
package taskserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Aman-CERP/logvet/internal/report"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// MaxRequestBytes bounds the size of one request document.
const MaxRequestBytes = 1 << 20

// Task is a request to validate zero or more files. ID is echoed verbatim
// and may be any JSON value, including absent.
type Task struct {
	ID       any      `json:"task_id"`
	LogFile  string   `json:"log_file,omitempty"`
	LogFiles []string `json:"log_files,omitempty"`
}

// Files returns LogFile followed by LogFiles.
func (t Task) Files() []string {
	var files []string
	if t.LogFile != "" {
		files = append(files, t.LogFile)
	}
	return append(files, t.LogFiles...)
}

// Response is the reply to one Task.
type Response struct {
	Status      string          `json:"status"`
	TaskID      json.RawMessage `json:"task_id,omitempty"`
	ProcessedAt string          `json:"processed_at,omitempty"`
	Reports     []report.Report `json:"reports,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// OK reports whether the task succeeded.
func (r Response) OK() bool { return r.Status == StatusSuccess }

// FailedResponse builds a failed response carrying msg.
func FailedResponse(msg string) Response {
	return Response{Status: StatusFailed, Error: msg}
}

var errNotObject = errors.New("task must be a JSON object")

// decodeTask parses one request document. The raw task_id is returned
// alongside so it can be echoed byte for byte; an absent id echoes null.
func decodeTask(data []byte) (Task, json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Task{}, nil, errNotObject
		}
		return Task{}, nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if fields == nil {
		return Task{}, nil, errNotObject
	}

	id := fields["task_id"]
	if len(id) == 0 {
		id = json.RawMessage("null")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var task Task
	if err := dec.Decode(&task); err != nil {
		return Task{}, id, fmt.Errorf("invalid task: %w", err)
	}
	return task, id, nil
}
