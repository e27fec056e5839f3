package taskserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/Aman-CERP/logvet/internal/dispatch"
	vetErrors "github.com/Aman-CERP/logvet/internal/errors"
	"github.com/Aman-CERP/logvet/internal/logging"
	"github.com/Aman-CERP/logvet/internal/report"
)

// BatchRunner validates an ordered list of files. *dispatch.Coordinator
// satisfies it.
type BatchRunner interface {
	Run(ctx context.Context, paths []string) (*dispatch.Batch, error)
}

// Defaults for unset options.
const (
	DefaultMaxConnections = 16
	DefaultTimeout        = 30 * time.Second
)

// Server listens on TCP and validates the files named by each task.
type Server struct {
	addr     string
	runner   BatchRunner
	cache    *reportCache
	maxConns int
	timeout  time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	shutdown bool
	wg       sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithAddress sets the host:port to listen on.
func WithAddress(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithMaxConnections bounds how many connections are served at once.
// Further connections wait in the listen backlog.
func WithMaxConnections(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxConns = n
		}
	}
}

// WithTimeout sets the deadline for reading a request and writing its response.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the clock used for processed_at.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// NewServer creates a server that hands files to runner.
func NewServer(runner BatchRunner, opts ...Option) (*Server, error) {
	if runner == nil {
		return nil, vetErrors.InternalError("task server needs a batch runner", nil)
	}
	cache, err := newReportCache(DefaultCacheSize)
	if err != nil {
		return nil, vetErrors.InternalError("cannot create report cache", err)
	}
	s := &Server{
		addr:     "127.0.0.1:9400",
		runner:   runner,
		cache:    cache,
		maxConns: DefaultMaxConnections,
		timeout:  DefaultTimeout,
		now:      time.Now,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return vetErrors.New(vetErrors.ErrCodeListenFailed, "failed to listen", err).
			WithDetail("address", s.addr)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled or Close is
// called, then waits for in-flight connections to finish.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	defer func() { _ = listener.Close() }()

	s.logger.Info("Server listening",
		slog.String("address", listener.Addr().String()),
		slog.Int("max_connections", s.maxConns))

	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	sem := make(chan struct{}, s.maxConns)

	for {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		}

		conn, err := listener.Accept()
		if err != nil {
			<-sem
			if s.isShutdown() {
				break
			}
			s.logger.Error("Accept error", slog.String("error", err.Error()))
			continue
		}

		s.wg.Add(1)
		go func() {
			defer func() {
				<-sem
				s.wg.Done()
			}()
			s.handleConnection(ctx, conn)
		}()
	}

	s.wg.Wait()
	return ctx.Err()
}

// Addr returns the listening address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close stops accepting connections. In-flight connections finish.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdown = true
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

// handleConnection reads one task and writes one response.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()

	remote := conn.RemoteAddr().String()
	s.logger.Info("Connection accepted", slog.String("remote", remote))

	if err := conn.SetDeadline(time.Now().Add(s.timeout)); err != nil {
		s.logger.Warn("Failed to set connection deadline", slog.String("error", err.Error()))
	}

	resp := s.process(ctx, conn)
	if !resp.OK() {
		s.logger.Warn("Task failed", slog.String("remote", remote), slog.String("error", resp.Error))
	}
	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		s.logger.Error("Failed to write response",
			slog.String("remote", remote),
			slog.String("error", err.Error()))
	}
}

func (s *Server) process(ctx context.Context, r io.Reader) Response {
	var raw json.RawMessage
	dec := json.NewDecoder(io.LimitReader(r, MaxRequestBytes))
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return FailedResponse("empty request")
		}
		return FailedResponse("failed to parse request: " + err.Error())
	}

	task, id, err := decodeTask(raw)
	if err != nil {
		return FailedResponse(err.Error())
	}

	reports, err := s.validateFiles(ctx, task.Files())
	if err != nil {
		return FailedResponse(err.Error())
	}

	return Response{
		Status:      StatusSuccess,
		TaskID:      id,
		ProcessedAt: s.now().UTC().Format(time.RFC3339Nano),
		Reports:     reports,
	}
}

// validateFiles returns one report per file, reusing cached reports for
// files whose size and modification time are unchanged.
func (s *Server) validateFiles(ctx context.Context, files []string) ([]report.Report, error) {
	if len(files) == 0 {
		return nil, nil
	}

	reports := make([]report.Report, len(files))
	keys := make([]cacheKey, len(files))
	cacheable := make([]bool, len(files))
	var missIdx []int
	var missPaths []string

	for i, f := range files {
		if k, ok := s.cache.keyFor(f); ok {
			keys[i], cacheable[i] = k, true
			if r, hit := s.cache.get(k); hit {
				reports[i] = r
				continue
			}
		}
		missIdx = append(missIdx, i)
		missPaths = append(missPaths, f)
	}

	s.logger.Debug("Task files resolved",
		slog.Int("files", len(files)),
		slog.Int("cached", len(files)-len(missPaths)))

	if len(missPaths) == 0 {
		return reports, nil
	}

	batch, err := s.runner.Run(ctx, missPaths)
	if err != nil {
		return nil, err
	}
	for j, i := range missIdx {
		reports[i] = batch.Reports[j]
		if cacheable[i] {
			s.cache.add(keys[i], batch.Reports[j])
		}
	}
	return reports, nil
}
