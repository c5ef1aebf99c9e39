//go:build unit

package network_test

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"gatekv/internal/config"
	"gatekv/internal/database/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRequest(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		maxSize       int
		want          string
		wantTruncated bool
		wantErr       error
	}{
		{
			name:    "Index request without body",
			input:   "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n",
			maxSize: 512,
			want:    "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n",
		},
		{
			name:    "Body bounded by content length",
			input:   "POST / HTTP/1.1\r\nContent-Length: 7\r\n\r\n{\"a\":1}trailing",
			maxSize: 512,
			want:    "POST / HTTP/1.1\r\nContent-Length: 7\r\n\r\n{\"a\":1}",
		},
		{
			name:    "Content length header is case insensitive",
			input:   "POST / HTTP/1.1\r\ncontent-length: 2\r\n\r\n{}",
			maxSize: 512,
			want:    "POST / HTTP/1.1\r\ncontent-length: 2\r\n\r\n{}",
		},
		{
			name:    "Body without content length",
			input:   "POST / HTTP/1.1\r\n\r\n{\"request\": \"GET\", \"key\": \"a\"}",
			maxSize: 512,
			want:    "POST / HTTP/1.1\r\n\r\n{\"request\": \"GET\", \"key\": \"a\"}",
		},
		{
			name:    "No separator before EOF",
			input:   "garbage",
			maxSize: 512,
			want:    "garbage",
		},
		{
			name:    "Empty connection",
			input:   "",
			maxSize: 512,
			wantErr: io.EOF,
		},
		{
			name:    "Headers over the limit",
			input:   "POST / HTTP/1.1\r\nX-Padding: " + strings.Repeat("x", 100) + "\r\n\r\n",
			maxSize: 64,
			wantErr: network.ErrMessageTooLarge,
		},
		{
			name:    "Declared body over the limit",
			input:   "POST / HTTP/1.1\r\nContent-Length: 1000\r\n\r\n{}",
			maxSize: 128,
			wantErr: network.ErrMessageTooLarge,
		},
		{
			name:          "Index request with headers over the limit",
			input:         "GET / HTTP/1.1\r\nUser-Agent: " + strings.Repeat("u", 200) + "\r\n\r\n",
			maxSize:       64,
			want:          "GET / HTTP/1.1\r\n\r\n",
			wantTruncated: true,
		},
		{
			name:          "Index request with declared body over the limit",
			input:         "GET / HTTP/1.1\r\nContent-Length: 1000\r\n\r\n{}",
			maxSize:       128,
			want:          "GET / HTTP/1.1\r\n\r\n",
			wantTruncated: true,
		},
		{
			name:    "Index mark outside the request line",
			input:   "POST / HTTP/1.1\r\nX-Note: GET /\r\n" + strings.Repeat("x", 100) + "\r\n\r\n",
			maxSize: 64,
			wantErr: network.ErrMessageTooLarge,
		},
		{
			name:    "Request exactly at the limit",
			input:   "POST / HTTP/1.1\r\nContent-Length: 2\r\n\r\n{}",
			maxSize: len("POST / HTTP/1.1\r\nContent-Length: 2\r\n\r\n{}"),
			want:    "POST / HTTP/1.1\r\nContent-Length: 2\r\n\r\n{}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated, err := network.ReadRequest(strings.NewReader(tt.input), tt.maxSize)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.wantTruncated, truncated)
		})
	}
}

func TestReadRequest_SplitAcrossReads(t *testing.T) {
	body := `{"request": "SET", "key": "a", "value": "` + strings.Repeat("v", 300) + `"}`
	request := string(network.NewRequest("localhost:9999", body))

	got, truncated, err := network.ReadRequest(iotest.OneByteReader(strings.NewReader(request)), 1024)
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, request, string(got))

	got, _, err = network.ReadRequest(iotest.HalfReader(strings.NewReader(request)), 1024)
	require.NoError(t, err)
	assert.Equal(t, request, string(got))
}

func TestReadRequest_ReadError(t *testing.T) {
	_, _, err := network.ReadRequest(iotest.ErrReader(iotest.ErrTimeout), 512)
	assert.ErrorIs(t, err, iotest.ErrTimeout)
}

func TestFrameResponse(t *testing.T) {
	got := network.FrameResponse(network.StatusOK, []byte("<p>ok</p>"))
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 9\r\nContent-Type: text/html;\r\n\r\n<p>ok</p>", string(got))

	got = network.FrameResponse(network.StatusBadRequest, []byte("привет"))
	assert.True(t, bytes.HasPrefix(got, []byte("HTTP/1.1 400 BAD REQUEST\r\nContent-Length: 12\r\n")))
}

func TestParseResponse(t *testing.T) {
	response, err := network.ParseResponse(network.FrameResponse(network.StatusOK, []byte("body")))
	require.NoError(t, err)
	assert.True(t, response.OK())
	assert.Equal(t, "body", response.Body)
	assert.Equal(t, "4", response.Headers["Content-Length"])
	assert.Equal(t, network.ContentType, response.Headers["Content-Type"])

	_, err = network.ParseResponse([]byte("HTTP/1.1 200 OK\r\nContent-Length: 10\r\n\r\nshort"))
	assert.Error(t, err)

	_, err = network.ParseResponse([]byte("HTTP/1.1 200 OK"))
	assert.Error(t, err)

	_, err = network.ParseResponse([]byte("HTTP/1.1 200 OK\r\nbroken header\r\n\r\n"))
	assert.Error(t, err)
}

func TestNewRequest(t *testing.T) {
	request := network.NewRequest("localhost:9999", `{"request": "GET", "key": "k"}`)
	assert.Equal(t,
		"POST / HTTP/1.1\r\nHost: localhost:9999\r\nContent-Type: application/json\r\nContent-Length: 30\r\n\r\n{\"request\": \"GET\", \"key\": \"k\"}",
		string(request),
	)

	assert.Equal(t, "GET / HTTP/1.1\r\nHost: h\r\n\r\n", string(network.IndexRequest("h")))
}

func TestNewTCPClient(t *testing.T) {
	tests := []struct {
		name      string
		address   string
		wantError bool
	}{
		{
			name:      "Invalid address format",
			address:   "invalid-address",
			wantError: true,
		},
		{
			name:      "Port out of range",
			address:   "127.0.0.1:99999",
			wantError: true,
		},
		{
			name:    "Valid address",
			address: "127.0.0.1:9999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := network.NewTCPClient(tt.address)

			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, client)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, client)
			}
		})
	}
}

func TestIPRateLimiter(t *testing.T) {
	limiter := network.NewIPRateLimiter(&config.RateLimitConfig{
		RequestsPerSecond: 0.001,
		Burst:             2,
		CacheSize:         10,
	})

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	assert.True(t, limiter.Allow("10.0.0.2"))
}
