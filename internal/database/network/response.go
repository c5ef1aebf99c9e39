package network

import (
	"bytes"
	"errors"
	"strconv"
)

const (
	StatusOK         = "HTTP/1.1 200 OK"
	StatusBadRequest = "HTTP/1.1 400 BAD REQUEST"
	ContentType      = "text/html;"
)

// Connection-level rejections, rendered to the client as bad requests.
var (
	ErrMessageTooLarge        = errors.New("Message too large!")
	ErrNoConnectionsAvailable = errors.New("No connections available!")
	ErrTooManyRequests        = errors.New("Too many requests!")
)

// FrameResponse wraps body into the status line and headers sent to clients.
func FrameResponse(status string, body []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(status) + len(body) + 64)

	buf.WriteString(status)
	buf.WriteString("\r\nContent-Length: ")
	buf.WriteString(strconv.Itoa(len(body)))
	buf.WriteString("\r\nContent-Type: ")
	buf.WriteString(ContentType)
	buf.WriteString("\r\n\r\n")
	buf.Write(body)

	return buf.Bytes()
}
