package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wootdeals/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "API key header",
			input:  []byte("GET /feed/All HTTP/1.1\r\nX-Api-Key: super-secret-key\r\nAccept: application/json\r\n"),
			output: []byte("GET /feed/All HTTP/1.1\r\nX-Api-Key: [MASKED]\r\nAccept: application/json\r\n"),
		},
		{
			name:   "API key JSON field",
			input:  []byte(`{"hello":"world","apiKey":"abc123"}`),
			output: []byte(`{"hello":"world","apiKey":"[MASKED]"}`),
		},
		{
			name:   "Bot token in URL",
			input:  []byte("POST https://api.telegram.org/bot12345:AAbbCC/sendMessage"),
			output: []byte("POST https://api.telegram.org/bot[MASKED]/sendMessage"),
		},
		{
			name:   "Token and password",
			input:  []byte(`{"token":"eyJhbGciOiJFUzI1NiIsInR5cC","password":"qwerty"}`),
			output: []byte(`{"token":"[MASKED]","password":"[MASKED]"}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			output := masker.Mask(tc.input)

			rq.Equal(tc.output, output, "%s vs %s", tc.output, output)
		})
	}
}
