package network

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	"gatekv/internal/database/compute"
)

const readChunkSize = 512

var envelopeSeparator = []byte("\r\n\r\n")

// ReadRequest reads one framed request: everything up to the blank line, then
// Content-Length bytes of body when the header is present, or whatever body
// arrived along with the headers otherwise. Requests above maxSize are
// rejected with ErrMessageTooLarge rather than truncated, except index
// requests: those are cut down to their request line and reported as
// truncated, so the caller knows unread input is left on the connection.
func ReadRequest(conn io.Reader, maxSize int) (request []byte, truncated bool, err error) {
	buf := make([]byte, 0, min(maxSize, readChunkSize))
	chunk := make([]byte, readChunkSize)

	for {
		n, readErr := conn.Read(chunk)
		buf = append(buf, chunk[:n]...)

		if len(buf) > maxSize {
			return oversized(buf)
		}

		if idx := bytes.Index(buf, envelopeSeparator); idx >= 0 {
			expected, ok := contentLength(buf[:idx])
			if !ok {
				return buf, false, nil
			}

			total := idx + len(envelopeSeparator) + expected
			if total > maxSize {
				return oversized(buf)
			}
			if len(buf) >= total {
				return buf[:total], false, nil
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				if len(buf) == 0 {
					return nil, false, io.EOF
				}
				// let the parser report what is wrong with a short request
				return buf, false, nil
			}
			return nil, false, readErr
		}
	}
}

func oversized(buf []byte) ([]byte, bool, error) {
	if !compute.IsIndexRequest(string(buf)) {
		return nil, false, ErrMessageTooLarge
	}

	line, _, _ := bytes.Cut(buf, []byte("\n"))
	line = bytes.TrimRight(line, "\r")

	request := make([]byte, 0, len(line)+len(envelopeSeparator))
	request = append(request, line...)
	request = append(request, envelopeSeparator...)

	return request, true, nil
}

func contentLength(headers []byte) (int, bool) {
	lines := strings.Split(string(headers), "\r\n")
	for _, line := range lines[1:] {
		name, value, found := strings.Cut(line, ":")
		if !found || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}

		length, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || length < 0 {
			return 0, false
		}
		return length, true
	}

	return 0, false
}
