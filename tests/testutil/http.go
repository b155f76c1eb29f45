package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API response envelope with raw data for decoding
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
		Details   []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

// Request describes one HTTP call against a handler
type Request struct {
	Method  string
	Path    string
	Body    any
	Token   string
	Headers map[string]string
}

// Do serves req through h and returns the recorder
func Do(t testing.TB, h http.Handler, req Request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if req.Body != nil {
		if raw, ok := req.Body.(string); ok {
			body = bytes.NewBufferString(raw)
		} else {
			data, err := json.Marshal(req.Body)
			require.NoError(t, err, "Failed to marshal request body")
			body = bytes.NewReader(data)
		}
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	r := httptest.NewRequest(method, req.Path, body)
	if req.Body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		r.Header.Set("Authorization", "Bearer "+req.Token)
	}
	for k, v := range req.Headers {
		r.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

// DecodeEnvelope parses the response envelope
func DecodeEnvelope(t testing.TB, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

// DataAs decodes the envelope's data into T after checking the status
func DataAs[T any](t testing.TB, w *httptest.ResponseRecorder, status int) T {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
	env := DecodeEnvelope(t, w)
	require.True(t, env.Success)

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// AssertError checks the status and error code of a failed response
func AssertError(t testing.TB, w *httptest.ResponseRecorder, status int, code string) Envelope {
	t.Helper()
	assert.Equal(t, status, w.Code, "body: %s", w.Body.String())
	env := DecodeEnvelope(t, w)
	assert.False(t, env.Success)
	if assert.NotNil(t, env.Error) {
		assert.Equal(t, code, env.Error.Code)
	}
	return env
}
