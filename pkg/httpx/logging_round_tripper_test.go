package httpx_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"wootdeals/pkg/contextx"
	"wootdeals/pkg/httpx"
	"wootdeals/pkg/logx"
)

func TestLoggingRoundTripper(t *testing.T) {
	const testResponseBody = `{"key":"value","password":"qwerty"}`

	rq := require.New(t)

	testCases := []struct {
		name         string
		handlerFunc  http.HandlerFunc
		opts         []httpx.Option
		statusCode   int
		responseBody string
		check        func(log string)
	}{
		{
			name: "Status 200",
			handlerFunc: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			statusCode: http.StatusOK,
			check: func(log string) {
				rq.Contains(log, "GET / HTTP/1.1")
				rq.Contains(log, "HTTP/1.1 200 OK")
			},
		},
		{
			name: "Status 404 with body",
			handlerFunc: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(testResponseBody))
			},
			statusCode:   http.StatusNotFound,
			responseBody: testResponseBody,
			check: func(log string) {
				rq.Contains(log, "HTTP/1.1 404 Not Found")
				rq.Contains(log, "qwerty")
			},
		},
		{
			name: "Status 200 masked",
			handlerFunc: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(testResponseBody))
			},
			opts:         []httpx.Option{httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker())},
			statusCode:   http.StatusOK,
			responseBody: testResponseBody,
			check: func(log string) {
				rq.Contains(log, "[MASKED]")
				rq.NotContains(log, "qwerty")
			},
		},
		{
			name: "Truncated log field",
			handlerFunc: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(testResponseBody))
			},
			opts:         []httpx.Option{httpx.WithLogFieldMaxLen(10)},
			statusCode:   http.StatusOK,
			responseBody: testResponseBody,
			check: func(log string) {
				rq.NotContains(log, "password")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handlerFunc)
			defer server.Close()

			var logBuf bytes.Buffer

			ctx := contextx.WithLogger(
				context.Background(),
				slog.New(slog.NewTextHandler(&logBuf, nil)),
			)

			client := &http.Client{
				Transport: httpx.NewLoggingRoundTripper(http.DefaultTransport, tc.opts...),
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, http.NoBody)
			rq.NoError(err)

			resp, err := client.Do(req)
			rq.NoError(err)

			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			rq.NoError(err)

			rq.Equal(tc.statusCode, resp.StatusCode)
			rq.Equal(tc.responseBody, string(body))

			tc.check(logBuf.String())
		})
	}
}
