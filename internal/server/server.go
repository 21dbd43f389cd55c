// Package server exposes the processing pipeline over HTTP: one inspect
// endpoint that accepts raw vCon input (plain, signed, or encrypted) and
// returns the full processing result as JSON.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/quartzjer/vcon-info/internal/config"
	"github.com/quartzjer/vcon-info/internal/observability"
	"github.com/quartzjer/vcon-info/pkg/vcon/jose"
	"github.com/quartzjer/vcon-info/pkg/vcon/pipeline"
)

// Server serves the inspect API.
type Server struct {
	cfg  config.ServerConfig
	pipe *pipeline.Pipeline
	obs  *observability.Observability
	log  *slog.Logger
}

// New builds a Server around a shared pipeline.
func New(cfg config.ServerConfig, pipe *pipeline.Pipeline, obs *observability.Observability) *Server {
	return &Server{cfg: cfg, pipe: pipe, obs: obs, log: obs.Logger}
}

// inspectRequest is the JSON request wrapper. Input carries the raw vCon
// text; the optional keys are PEM or JWK encoded.
type inspectRequest struct {
	Input      string `json:"input"`
	PrivateKey string `json:"private_key,omitempty"`
	PublicKey  string `json:"public_key,omitempty"`
	Verify     bool   `json:"verify_content,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/inspect", s.handleInspect)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	op, ctx := observability.StartOperation(r.Context(), s.obs.Metrics, "inspect")

	body, err := io.ReadAll(io.LimitReader(r.Body, s.maxBodySize()+1))
	if err != nil {
		op.End(err)
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if int64(len(body)) > s.maxBodySize() {
		err := errors.New("request body too large")
		op.End(err)
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	input, keys, verify, err := s.parseRequest(body)
	if err != nil {
		op.End(err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := s.pipe.Process(ctx, input, keys)
	if verify && len(result.ExternalFiles) > 0 {
		fetches, err := s.pipe.VerifyExternalFiles(ctx, result.ExternalFiles)
		if err != nil {
			s.log.WarnContext(ctx, "content verification unavailable", "err", err)
		} else {
			result.FetchResults = fetches
		}
	}

	s.obs.Metrics.RecordDocument(cryptoFormat(result), string(result.Validation.OverallStatus),
		len(result.Validation.Errors), len(result.Validation.Warnings))
	op.End(nil)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.log.ErrorContext(ctx, "failed to encode response", "err", err)
	}
}

// parseRequest accepts either the JSON wrapper or the raw vCon text as the
// whole body.
func (s *Server) parseRequest(body []byte) (string, pipeline.Keys, bool, error) {
	var req inspectRequest
	if err := json.Unmarshal(body, &req); err == nil && req.Input != "" {
		keys := pipeline.Keys{}
		if req.PrivateKey != "" {
			key, err := jose.ParseKey([]byte(req.PrivateKey))
			if err != nil {
				return "", keys, false, err
			}
			keys.Private = key
		}
		if req.PublicKey != "" {
			key, err := jose.ParseKey([]byte(req.PublicKey))
			if err != nil {
				return "", keys, false, err
			}
			keys.Public = key
		}
		return req.Input, keys, req.Verify, nil
	}
	return string(body), pipeline.Keys{}, false, nil
}

func (s *Server) maxBodySize() int64 {
	if s.cfg.MaxBodySize > 0 {
		return s.cfg.MaxBodySize
	}
	return 16 << 20
}

func cryptoFormat(result *pipeline.Result) string {
	if result.Crypto == nil || result.Crypto.Format == "" {
		return "unrecognized"
	}
	return result.Crypto.Format
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// Start runs the HTTP server until shutdown.
func (s *Server) Start(ctx context.Context) *http.Server {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Handler()}

	go func() {
		s.log.Info("inspect server starting", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("inspect server error", "error", err)
		}
	}()

	s.obs.Shutdown.Register("inspect-server", func(ctx context.Context) error {
		return srv.Shutdown(ctx)
	})
	return srv
}
