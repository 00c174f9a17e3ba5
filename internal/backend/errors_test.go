package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload_NestedProviderError(t *testing.T) {
	payload := []byte(`{"code":500,"error":"An error occurred with ollama-rs: {\"error\":\"model not found\"}"}`)

	decoded := DecodePayload(payload)

	require.NotNil(t, decoded)
	assert.Equal(t, KindInference, decoded.Kind)
	assert.Equal(t, "500", decoded.Code)
	assert.Equal(t, "model not found", decoded.Message)
	assert.Equal(t, "500: model not found", decoded.Display())
}

func TestDecodePayload_StringCode(t *testing.T) {
	payload := []byte(`{"code":"OLLAMA_GENERATE_ERROR","error":"An error occurred with ollama-rs: {\"error\":\"out of memory\"}"}`)

	decoded := DecodePayload(payload)

	assert.Equal(t, "OLLAMA_GENERATE_ERROR: out of memory", decoded.Display())
}

func TestDecodePayload_MalformedInner(t *testing.T) {
	payload := []byte(`{"code":500,"error":"An error occurred with ollama-rs: connection reset"}`)

	decoded := DecodePayload(payload)

	assert.Equal(t, KindMalformed, decoded.Kind)
	assert.Equal(t, "500", decoded.Code)
	assert.Equal(t, "connection reset", decoded.Message)
}

func TestDecodePayload_MalformedOuter(t *testing.T) {
	decoded := DecodePayload([]byte("gateway timeout"))

	assert.Equal(t, KindMalformed, decoded.Kind)
	assert.Equal(t, "gateway timeout", decoded.Display())
}

func TestDecode_Nil(t *testing.T) {
	assert.Nil(t, Decode(nil, KindInference, CodeGenerate))
}

func TestDecode_StatusError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		kind Kind
	}{
		{
			name: "plain message",
			err:  api.StatusError{StatusCode: 404, Status: "404 Not Found", ErrorMessage: "model 'x' not found"},
			want: "404: model 'x' not found",
			kind: KindRejected,
		},
		{
			name: "double encoded message",
			err:  api.StatusError{StatusCode: 500, ErrorMessage: ProviderPrefix + `{"error":"model not found"}`},
			want: "500: model not found",
			kind: KindRejected,
		},
		{
			name: "pointer and wrapped",
			err:  fmt.Errorf("generate: %w", &api.StatusError{StatusCode: 503, Status: "503 Service Unavailable"}),
			want: "503: 503 Service Unavailable",
			kind: KindRejected,
		},
		{
			name: "relayed command payload",
			err:  api.StatusError{StatusCode: 502, ErrorMessage: `{"code":500,"error":"An error occurred with ollama-rs: {\"error\":\"model not found\"}"}`},
			want: "500: model not found",
			kind: KindRejected,
		},
		{
			name: "relayed payload without code value",
			err:  api.StatusError{StatusCode: 502, ErrorMessage: `{"code":null,"error":"upstream closed"}`},
			want: "502: upstream closed",
			kind: KindRejected,
		},
		{
			name: "unparseable inner",
			err:  api.StatusError{StatusCode: 500, ErrorMessage: ProviderPrefix + "{broken"},
			want: "500: {broken",
			kind: KindMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := Decode(tt.err, KindInference, CodeGenerate)
			require.NotNil(t, decoded)
			assert.Equal(t, tt.want, decoded.Display())
			assert.Equal(t, tt.kind, decoded.Kind)
		})
	}
}

func TestDecode_PlainErrorUsesFallbackCode(t *testing.T) {
	decoded := Decode(errors.New("model requires more system memory"), KindInference, CodeGenerate)

	assert.Equal(t, KindInference, decoded.Kind)
	assert.Equal(t, "OLLAMA_GENERATE_ERROR: model requires more system memory", decoded.Display())
}

func TestDecode_PrefixedPlainError(t *testing.T) {
	decoded := Decode(errors.New(ProviderPrefix+`{"error":"model not found"}`), KindInference, CodeGenerate)

	assert.Equal(t, "model not found", decoded.Message)
}

func TestDecode_StreamedCommandPayload(t *testing.T) {
	err := errors.New(`{"code":500,"error":"An error occurred with ollama-rs: {\"error\":\"model not found\"}"}`)

	decoded := Decode(err, KindInference, CodeGenerate)

	assert.Equal(t, KindInference, decoded.Kind)
	assert.Equal(t, "500: model not found", decoded.Display())
	assert.ErrorIs(t, decoded, err)
}

func TestDecode_JSONWithoutCodeIsNotAPayload(t *testing.T) {
	decoded := Decode(errors.New(`{"error":"model not found"}`), KindInference, CodeGenerate)

	assert.Equal(t, "OLLAMA_GENERATE_ERROR: model not found", decoded.Display())
}

func TestDecode_Unreachable(t *testing.T) {
	err := &url.Error{Op: "Post", URL: "http://localhost:11434/api/generate", Err: errors.New("connection refused")}

	decoded := Decode(err, KindInference, CodeGenerate)

	assert.Equal(t, KindUnreachable, decoded.Kind)
	assert.Equal(t, CodeGenerate, decoded.Code)
	assert.ErrorIs(t, decoded, err)
}

func TestDecode_DeadlineExceeded(t *testing.T) {
	decoded := Decode(context.DeadlineExceeded, KindRejected, CodeListModels)

	assert.Equal(t, KindUnreachable, decoded.Kind)
}

func TestDecode_PassesThroughDecodedErrors(t *testing.T) {
	original := &Error{Kind: KindRejected, Code: "404", Message: "missing"}

	decoded := Decode(fmt.Errorf("wrapped: %w", original), KindInference, CodeGenerate)

	assert.Same(t, original, decoded)
}
