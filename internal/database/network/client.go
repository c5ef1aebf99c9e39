package network

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

const defaultClientTimeout = 5 * time.Second

// TCPClient sends one request per connection, as the server closes every
// connection after answering.
type TCPClient struct {
	address string
	timeout time.Duration
}

func NewTCPClient(address string) (*TCPClient, error) {
	if _, err := net.ResolveTCPAddr("tcp", address); err != nil {
		return nil, err
	}

	return &TCPClient{
		address: address,
		timeout: defaultClientTimeout,
	}, nil
}

// Execute writes a raw request and returns the raw response.
func (c *TCPClient) Execute(request []byte) ([]byte, error) {
	conn, err := net.DialTimeout("tcp", c.address, c.timeout)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = conn.Close()
	}()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return nil, err
	}

	if _, err := conn.Write(request); err != nil {
		return nil, fmt.Errorf("cannot send request to server: %w", err)
	}

	// the server reads until EOF when the request has no Content-Length
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.CloseWrite(); err != nil {
			return nil, fmt.Errorf("cannot finish request: %w", err)
		}
	}

	response, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("cannot read response: %w", err)
	}

	return response, nil
}

// Send wraps body into a request envelope and executes it.
func (c *TCPClient) Send(body string) (*Response, error) {
	raw, err := c.Execute(NewRequest(c.address, body))
	if err != nil {
		return nil, err
	}

	return ParseResponse(raw)
}

func (c *TCPClient) Index() (*Response, error) {
	raw, err := c.Execute(IndexRequest(c.address))
	if err != nil {
		return nil, err
	}

	return ParseResponse(raw)
}

func NewRequest(host, body string) []byte {
	return []byte(fmt.Sprintf(
		"POST / HTTP/1.1\r\nHost: %s\r\nContent-Type: application/json\r\nContent-Length: %d\r\n\r\n%s",
		host, len(body), body,
	))
}

func IndexRequest(host string) []byte {
	return []byte(fmt.Sprintf("GET / HTTP/1.1\r\nHost: %s\r\n\r\n", host))
}

type Response struct {
	Status  string
	Headers map[string]string
	Body    string
}

func (r *Response) OK() bool {
	return r.Status == StatusOK
}

func ParseResponse(raw []byte) (*Response, error) {
	head, body, found := strings.Cut(string(raw), "\r\n\r\n")
	if !found {
		return nil, errors.New("response has no header/body separator")
	}

	lines := strings.Split(head, "\r\n")
	response := &Response{
		Status:  lines[0],
		Headers: make(map[string]string, len(lines)-1),
		Body:    body,
	}

	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("malformed header line: %q", line)
		}
		response.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	if length, ok := response.Headers["Content-Length"]; ok {
		n, err := strconv.Atoi(length)
		if err != nil {
			return nil, fmt.Errorf("bad content length: %w", err)
		}
		if n != len(response.Body) {
			return nil, fmt.Errorf("content length %d does not match body size %d", n, len(response.Body))
		}
	}

	return response, nil
}
