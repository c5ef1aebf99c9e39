package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"gatekv/internal/config"
	"gatekv/internal/primitive"

	"go.uber.org/zap"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=network_test

const (
	rejectTimeout = time.Second
	drainTimeout  = 100 * time.Millisecond
)

// RequestHandler produces complete response bytes for a connection.
type RequestHandler interface {
	HandleRequest(request []byte) []byte
	HandleRejection(reason error) []byte
}

type Option func(*TCPServer)

// WithRateLimiter applies a per-client-IP admission limit in the accept loop.
func WithRateLimiter(limiter *IPRateLimiter) Option {
	return func(s *TCPServer) {
		s.limiter = limiter
	}
}

type TCPServer struct {
	logger           *zap.Logger
	conf             *config.NetworkConfig
	handler          RequestHandler
	pool             *primitive.WorkerPool
	semaphore        *primitive.Semaphore
	limiter          *IPRateLimiter
	listener         net.Listener
	requestBytesSize int
}

func NewTCPServer(
	logger *zap.Logger,
	conf *config.NetworkConfig,
	pool *primitive.WorkerPool,
	handler RequestHandler,
	opts ...Option,
) (*TCPServer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if pool == nil || handler == nil {
		return nil, errors.New("pool and handler are required")
	}
	if conf.MaxConnections <= 0 {
		return nil, errors.New("max connections must be positive")
	}

	requestBytesSize, err := conf.ParseRequestSizeInBytes()
	if err != nil {
		return nil, err
	}

	s := &TCPServer{
		logger:           logger,
		conf:             conf,
		handler:          handler,
		pool:             pool,
		semaphore:        primitive.NewSemaphore(conf.MaxConnections),
		requestBytesSize: requestBytesSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Listen binds the configured address. A bind failure is returned to the
// caller, which must not go on serving.
func (s *TCPServer) Listen() error {
	listener, err := net.Listen("tcp", s.conf.Address())
	if err != nil {
		return fmt.Errorf("cannot bind %s: %w", s.conf.Address(), err)
	}

	s.listener = listener
	s.logger.Info("listening", zap.String("address", listener.Addr().String()))

	return nil
}

func (s *TCPServer) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve accepts connections until ctx is done, then waits for the pool to
// finish the connections it already took.
func (s *TCPServer) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}

	defer s.pool.Stop()

	stop := context.AfterFunc(ctx, func() {
		if err := s.listener.Close(); err != nil {
			s.logger.Error("failed to close listener", zap.Error(err))
		}
	})
	defer stop()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.logger.Info("shutting down tcp server")
				return nil
			}

			s.logger.Error("failed to accept connection", zap.Error(err))
			continue
		}

		s.admit(conn)
	}
}

// admit never blocks: rejected connections are answered from their own
// goroutine and accepted ones are queued to the pool.
func (s *TCPServer) admit(conn net.Conn) {
	if s.limiter != nil && !s.limiter.Allow(remoteIP(conn)) {
		go s.reject(conn, ErrTooManyRequests)
		return
	}

	if !s.semaphore.TryAcquire() {
		go s.reject(conn, ErrNoConnectionsAvailable)
		return
	}

	err := s.pool.Submit(func() {
		defer s.semaphore.Release()
		s.handleConnection(conn)
	})
	if err != nil {
		s.semaphore.Release()
		s.logger.Warn("connection dropped", zap.Error(err))
		s.closeConnection(conn)
	}
}

func (s *TCPServer) handleConnection(conn net.Conn) {
	defer s.closeConnection(conn)

	if s.conf.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.conf.ReadTimeout)); err != nil {
			s.logger.Error("failed to set read deadline", zap.Error(err))
		}
	}

	request, truncated, err := ReadRequest(conn, s.requestBytesSize)
	switch {
	case errors.Is(err, ErrMessageTooLarge):
		s.logger.Debug("request exceeds max message size",
			zap.String("remote", conn.RemoteAddr().String()),
			zap.Int("max_size", s.requestBytesSize),
		)
		s.response(conn, s.handler.HandleRejection(err))
		drain(conn)
	case errors.Is(err, io.EOF):
		s.logger.Debug("connection closed before request", zap.String("remote", conn.RemoteAddr().String()))
	case err != nil:
		s.logger.Error("failed to read request", zap.Error(err))
	case truncated:
		s.logger.Debug("index request exceeds max message size, serving request line only",
			zap.String("remote", conn.RemoteAddr().String()),
		)
		s.response(conn, s.handler.HandleRequest(request))
		drain(conn)
	default:
		s.response(conn, s.handler.HandleRequest(request))
	}
}

func (s *TCPServer) reject(conn net.Conn, reason error) {
	defer s.closeConnection(conn)

	s.logger.Debug("connection rejected",
		zap.String("remote", conn.RemoteAddr().String()),
		zap.Error(reason),
	)

	if err := conn.SetWriteDeadline(time.Now().Add(rejectTimeout)); err != nil {
		s.logger.Error("failed to set write deadline", zap.Error(err))
	}

	s.response(conn, s.handler.HandleRejection(reason))
	drain(conn)
}

func (s *TCPServer) response(conn net.Conn, response []byte) {
	if s.conf.WriteTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(s.conf.WriteTimeout)); err != nil {
			s.logger.Error("failed to set write deadline", zap.Error(err))
		}
	}

	if _, err := conn.Write(response); err != nil {
		s.logger.Error("failed to write response",
			zap.ByteString("response", response),
			zap.Error(err),
		)
	}
}

func (s *TCPServer) closeConnection(conn net.Conn) {
	if err := conn.Close(); err != nil {
		s.logger.Error("failed to close connection", zap.Error(err))
	}
}

// drain half-closes a TCP connection and discards what the client is still
// sending, so the close does not reset the connection before the client has
// read the response.
func drain(conn net.Conn) {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}

	_ = tcpConn.CloseWrite()
	_ = tcpConn.SetReadDeadline(time.Now().Add(drainTimeout))
	_, _ = io.Copy(io.Discard, tcpConn)
}

func remoteIP(conn net.Conn) string {
	addr := conn.RemoteAddr().String()
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
