package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/ollama/ollama/api"
)

// Kind classifies a backend failure
type Kind string

const (
	// KindUnreachable means the server could not be contacted
	KindUnreachable Kind = "unreachable"
	// KindRejected means the server answered with an error status
	KindRejected Kind = "rejected"
	// KindInference means generation itself failed
	KindInference Kind = "inference"
	// KindMalformed means the error payload could not be decoded
	KindMalformed Kind = "malformed"
)

// Error codes attached when the server does not supply a status code
const (
	CodeListModels = "OLLAMA_LIST_MODEL_ERROR"
	CodeModelInfo  = "OLLAMA_MODEL_INFO_ERROR"
	CodeGenerate   = "OLLAMA_GENERATE_ERROR"
	CodePullModel  = "OLLAMA_PULL_MODEL_ERROR"
	CodeCatalog    = "CATALOG_FETCH_ERROR"
)

// ProviderPrefix precedes a JSON-encoded inner error in messages relayed
// from the Rust ollama client used by older desktop builds.
const ProviderPrefix = "An error occurred with ollama-rs: "

// Error is a backend failure decoded once at the boundary
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// Error implements error using the user-facing rendering
func (e *Error) Error() string {
	return e.Display()
}

// Unwrap returns the underlying transport error, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Display renders "<code>: <message>", or just the message without a code
func (e *Error) Display() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// Decode converts any error returned while talking to the server into an
// *Error. kind and code apply when err carries no better classification.
// Decode never fails; undecodable payloads become KindMalformed.
func Decode(err error, kind Kind, code string) *Error {
	if err == nil {
		return nil
	}

	var be *Error
	if errors.As(err, &be) {
		return be
	}

	if se, ok := asStatusError(err); ok {
		raw := se.ErrorMessage
		if raw == "" {
			raw = se.Status
		}
		if isPayload(raw) {
			return fromPayload(raw, KindRejected, strconv.Itoa(se.StatusCode), err)
		}
		msg, decoded := decodeMessage(raw)
		k := KindRejected
		if !decoded {
			k = KindMalformed
		}
		return &Error{Kind: k, Code: strconv.Itoa(se.StatusCode), Message: msg, Err: err}
	}

	if isUnreachable(err) {
		return &Error{Kind: KindUnreachable, Code: code, Message: err.Error(), Err: err}
	}

	if isPayload(err.Error()) {
		return fromPayload(err.Error(), kind, code, err)
	}
	msg, decoded := decodeMessage(err.Error())
	if !decoded {
		kind = KindMalformed
	}
	return &Error{Kind: kind, Code: code, Message: msg, Err: err}
}

// DecodePayload decodes a serialized command error of the form
// {"code": <number|string>, "error": "<message>"} where the message may be
// prefixed by ProviderPrefix and itself hold {"error": "<inner>"}.
func DecodePayload(data []byte) *Error {
	var outer struct {
		Code  json.RawMessage `json:"code"`
		Error string          `json:"error"`
	}
	if err := json.Unmarshal(data, &outer); err != nil {
		return &Error{Kind: KindMalformed, Message: strings.TrimSpace(string(data)), Err: err}
	}

	msg, decoded := decodeMessage(outer.Error)
	kind := KindInference
	if !decoded {
		kind = KindMalformed
	}
	return &Error{Kind: kind, Code: decodeCode(outer.Code), Message: msg}
}

// isPayload reports whether raw is a serialized command error, i.e. a JSON
// object carrying a "code" field.
func isPayload(raw string) bool {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "{") {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return false
	}
	_, ok := fields["code"]
	return ok
}

// fromPayload decodes a command payload found inside another error. kind and
// code fill in when the payload decodes cleanly but carries no code.
func fromPayload(raw string, kind Kind, code string, err error) *Error {
	decoded := DecodePayload([]byte(raw))
	if decoded.Kind != KindMalformed {
		decoded.Kind = kind
	}
	if decoded.Code == "" {
		decoded.Code = code
	}
	decoded.Err = err
	return decoded
}

// decodeMessage strips the provider prefix and unwraps a JSON {"error": ...}
// body. It returns the raw text and false when the body cannot be parsed.
func decodeMessage(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	prefixed := strings.HasPrefix(s, ProviderPrefix)
	if prefixed {
		s = strings.TrimSpace(strings.TrimPrefix(s, ProviderPrefix))
	}

	if !prefixed && !strings.HasPrefix(s, "{") {
		return s, true
	}

	var inner struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(s), &inner); err != nil || inner.Error == "" {
		return s, false
	}
	return inner.Error, true
}

func decodeCode(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func asStatusError(err error) (api.StatusError, bool) {
	var se api.StatusError
	if errors.As(err, &se) {
		return se, true
	}
	var sep *api.StatusError
	if errors.As(err, &sep) && sep != nil {
		return *sep, true
	}
	return api.StatusError{}, false
}

func isUnreachable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
