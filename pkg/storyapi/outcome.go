package storyapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// KindTimeout marks outcomes where any phase of the request ran out of time.
const KindTimeout = "timeout"

const timeoutMessage = "Request timed out. The API is taking longer than expected. Please try again."

// Failure is the normalized error half of an Outcome. Field order matches the
// document callers receive: message first, classification detail, then the
// explicit success=false marker.
type Failure struct {
	Message string `json:"error"`
	Kind    string `json:"error_type,omitempty"`
	Details string `json:"error_details,omitempty"`
	Success bool   `json:"success"`
}

// Outcome is the result of one upstream call: the decoded 2xx body used
// as-is, or a classified Failure. Exactly one side is set.
type Outcome struct {
	Payload any
	Failure *Failure
}

// OK reports whether the call was classified as a success. A success may
// still carry the upstream's own success=false marker; see
// UpstreamDeclaredFailure.
func (o Outcome) OK() bool { return o.Failure == nil }

// UpstreamDeclaredFailure reports whether a successful response carries the
// upstream's own success=false field. Such responses are passed through
// unchanged; this accessor exists only so callers can log them.
func (o Outcome) UpstreamDeclaredFailure() (string, bool) {
	body, ok := o.Payload.(map[string]any)
	if !ok {
		return "", false
	}
	declared, ok := body["success"].(bool)
	if !ok || declared {
		return "", false
	}
	message, _ := body["error"].(string)
	return message, true
}

func success(payload any) Outcome {
	return Outcome{Payload: payload}
}

func timeoutFailure() Outcome {
	return Outcome{Failure: &Failure{
		Message: timeoutMessage,
		Kind:    KindTimeout,
	}}
}

func statusFailure(code int, body string) Outcome {
	return Outcome{Failure: &Failure{
		Message: fmt.Sprintf("API returned error: %d", code),
		Details: body,
	}}
}

func transportFailure(err error) Outcome {
	return Outcome{Failure: &Failure{
		Message: fmt.Sprintf("Request failed: %v", err),
		Kind:    errorKind(err),
	}}
}

// RecoveredFailure normalizes a recovered panic value into an Outcome, the
// last-resort path for errors that escaped classification.
func RecoveredFailure(v any) Outcome {
	kind := "panic"
	if err, ok := v.(error); ok {
		kind = errorKind(err)
	}
	return Outcome{Failure: &Failure{
		Message: fmt.Sprintf("Unexpected error: %v", v),
		Kind:    kind,
	}}
}

// Render serializes an Outcome the way callers receive it: two-space indented
// JSON with non-ASCII characters left intact.
func Render(o Outcome) string {
	var value any = o.Payload
	if o.Failure != nil {
		value = o.Failure
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		// Payloads come from json.Unmarshal, so this path needs a real
		// programming error to trigger. Still return a valid document.
		raw, _ := json.Marshal(&Failure{
			Message: fmt.Sprintf("Unexpected error: %v", err),
			Kind:    errorKind(err),
		})
		return string(raw)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// errorKind names the concrete error type, unwrapping url.Error so the kind
// reflects the underlying network failure rather than the client wrapper.
func errorKind(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	t := reflect.TypeOf(err)
	if t == nil {
		return "error"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
