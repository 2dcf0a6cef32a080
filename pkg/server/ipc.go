package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bastiangx/wordgraph/pkg/config"
	"github.com/bastiangx/wordgraph/pkg/engine"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// IPCServer answers msgpack requests read from r on w, one response each.
type IPCServer struct {
	*frontend
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
}

// NewIPCServer creates an IPC server. In production r and w are stdin and
// stdout, so the logger must write elsewhere.
func NewIPCServer(eng engine.TextEngine, cfg *config.Config, r io.Reader, w io.Writer, metrics *Metrics, logger *log.Logger) *IPCServer {
	return &IPCServer{
		frontend: newFrontend(eng, cfg, metrics, logger),
		decoder:  msgpack.NewDecoder(r),
		encoder:  msgpack.NewEncoder(w),
	}
}

// UpdateConfig applies a reloaded config to subsequent requests.
func (s *IPCServer) UpdateConfig(cfg *config.Config) {
	s.applyConfig(cfg)
}

// frame is one decoded request, or the error that ended the input.
type frame struct {
	raw msgpack.RawMessage
	err error
}

// Serve announces readiness, then handles requests until the input ends or
// ctx is done. A request that decodes to the wrong shape is answered with an
// error; a stream that cannot be decoded at all ends Serve with an error.
// Cancelling ctx returns at once, even while waiting for input.
func (s *IPCServer) Serve(ctx context.Context) error {
	s.logger.Debug("Starting IPC server")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	done := make(chan struct{})
	defer close(done)
	frames := s.readFrames(done)

	for {
		var f frame
		select {
		case <-ctx.Done():
			s.logger.Debug("IPC server stopped")
			return nil
		case f = <-frames:
		}
		// a frame and the cancellation may be ready together
		if ctx.Err() != nil {
			return nil
		}

		if f.err != nil {
			if errors.Is(f.err, io.EOF) {
				s.logger.Debug("IPC input closed")
				return nil
			}
			s.logger.Error("Reading request", "error", f.err)
			return fmt.Errorf("decode request: %w", f.err)
		}

		var req Request
		if err := msgpack.Unmarshal(f.raw, &req); err != nil {
			s.logger.Debug("Unmarshaling request", "error", err)
			if err := s.sendError("", fmt.Errorf("%w: expected a request map", ErrInvalidRequest)); err != nil {
				return err
			}
			continue
		}
		if err := s.handle(req); err != nil {
			return err
		}
	}
}

// readFrames decodes requests on its own goroutine, since a read cannot be
// interrupted. It stops after the first error or once done is closed; a
// read still blocked at that point ends when the input does.
func (s *IPCServer) readFrames(done <-chan struct{}) <-chan frame {
	frames := make(chan frame)
	go func() {
		for {
			raw, err := s.decoder.DecodeRaw()
			select {
			case frames <- frame{raw: raw, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return frames
}

// handle answers one request. Only a failed write is returned.
func (s *IPCServer) handle(req Request) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	start := time.Now()

	var response any
	var err error
	switch req.Action {
	case ActionChat:
		var reply engine.Reply
		reply, err = s.chat(req.Message)
		response = ChatResponse{ID: req.ID, Reply: reply, TimeTaken: time.Since(start).Microseconds()}
	case ActionIngest:
		var tokens int
		tokens, err = s.ingest(req.Message)
		response = StatusResponse{ID: req.ID, Status: "ok", Tokens: tokens}
	case ActionComplete:
		suggestions, cerr := s.complete(req.Prefix, req.Limit)
		err = cerr
		response = CompletionResponse{
			ID:          req.ID,
			Suggestions: suggestions,
			Count:       len(suggestions),
			TimeTaken:   time.Since(start).Microseconds(),
		}
	case ActionStats:
		response = StatsResponse{ID: req.ID, Stats: s.engine.Stats()}
	case ActionHealth:
		response = StatusResponse{ID: req.ID, Status: "ok"}
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}

	action := req.Action
	if errors.Is(err, ErrUnknownAction) {
		action = "unknown"
	}
	s.metrics.observe("ipc", action, StatusCode(err), time.Since(start))

	if err != nil {
		s.logger.Debug("Request failed", "id", req.ID, "action", req.Action, "error", err)
		return s.sendError(req.ID, err)
	}
	return s.send(response)
}

func (s *IPCServer) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Error("Writing response", "error", err)
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

func (s *IPCServer) sendError(id string, err error) error {
	code := StatusCode(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = publicMessage(err)
	}
	return s.send(IPCError{ID: id, Error: message, Code: code})
}
