package rpc

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/phi-engine/internal/classical"
	"github.com/danielpatrickdp/phi-engine/internal/eval"
	"github.com/danielpatrickdp/phi-engine/internal/logging"
	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/quantum"
	"github.com/danielpatrickdp/phi-engine/internal/store"
)

// Substrate names carried in results and the query log.
const (
	SubstrateClassical = "classical"
	SubstrateQuantum   = "quantum"
)

// #region server
// Server implements PhiServiceServer on top of the engine.
type Server struct {
	base   phi.Config
	store  *store.Store
	obs    phi.Observer
	logger *slog.Logger
	checks *eval.EvalHarness
}

var _ PhiServiceServer = (*Server)(nil)

// ServerOption customizes a Server.
type ServerOption func(*Server)

// WithStore persists every answered query and logs every query to st.
func WithStore(st *store.Store) ServerOption {
	return func(s *Server) { s.store = st }
}

// WithObserver routes engine events to o.
func WithObserver(o phi.Observer) ServerOption {
	return func(s *Server) {
		if o != nil {
			s.obs = o
		}
	}
}

// WithEval replaces the default result checks.
func WithEval(config eval.EvalConfig) ServerOption {
	return func(s *Server) { s.checks = eval.NewEvalHarness(config) }
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer answers queries with cfg unless a request overlays it.
func NewServer(cfg phi.Config, opts ...ServerOption) *Server {
	s := &Server{
		base:   cfg,
		obs:    phi.NopObserver{},
		logger: slog.Default(),
		checks: eval.NewEvalHarness(eval.DefaultEvalConfig()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// #endregion server

// #region compute
// ComputeClassical answers a ClassicalRequest.
func (s *Server) ComputeClassical(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ClassicalRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	digest := req.System.Digest()
	cfg, err := s.config(req.Config)
	if err != nil {
		return nil, s.fail(SubstrateClassical, digest, "", err)
	}
	sys, err := req.System.Build(cfg, classical.WithObserver(s.obs))
	if err != nil {
		return nil, s.fail(SubstrateClassical, digest, "", err)
	}
	method, err := sys.Method()
	if err != nil {
		method = cfg.Approximation
	}
	res, err := sys.Phi(ctx)
	if err != nil {
		return nil, s.fail(SubstrateClassical, digest, string(method), err)
	}
	return s.answer(SubstrateClassical, digest, sys.N(), res)
}

// ComputeQuantum answers a QuantumRequest.
func (s *Server) ComputeQuantum(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req QuantumRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	digest := req.System.Digest()
	cfg, err := s.config(req.Config)
	if err != nil {
		return nil, s.fail(SubstrateQuantum, digest, "", err)
	}
	sys, err := req.System.Build(cfg, quantum.WithObserver(s.obs))
	if err != nil {
		return nil, s.fail(SubstrateQuantum, digest, "", err)
	}
	res, err := sys.Phi(ctx)
	if err != nil {
		return nil, s.fail(SubstrateQuantum, digest, string(phi.Quantum), err)
	}
	return s.answer(SubstrateQuantum, digest, sys.Density().Qubits(), res)
}

func (s *Server) config(raw []byte) (phi.Config, error) {
	if len(raw) == 0 {
		return s.base, nil
	}
	return s.base.Overlay(raw)
}

// #endregion compute

// #region record
func (s *Server) answer(substrateName, digest string, n int, res phi.Result) (*structpb.Struct, error) {
	if ev := s.checks.Run(res, n); !ev.Passed {
		return nil, s.fail(substrateName, digest, string(res.Method), phierr.New(phierr.NumericalInstability, "%s", ev.Reason))
	}
	out := newResult(substrateName, digest, res)
	if s.store != nil {
		rec, err := store.NewRecord(substrateName, digest, n, res)
		if err == nil {
			err = s.store.Save(rec)
		}
		if err != nil {
			s.logger.Warn("persist result failed", "substrate", substrateName, "digest", digest, "error", err)
		} else {
			out.ResultID = rec.ResultID
		}
		s.logQuery(logging.QueryEntry{
			ResultID:     out.ResultID,
			SystemDigest: digest,
			Substrate:    substrateName,
			Method:       out.Method,
			Outcome:      logging.OutcomeOK,
		})
	}
	s.logger.Info("phi query",
		"substrate", substrateName,
		"digest", digest[:12],
		"method", out.Method,
		"phi", out.Phi,
		"mip", out.MIP,
		"elapsed_ms", out.ElapsedMS,
	)
	return toStruct(out)
}

func (s *Server) fail(substrateName, digest, method string, err error) error {
	s.logger.Warn("phi query failed", "substrate", substrateName, "digest", digest[:12], "method", method, "error", err)
	if s.store != nil {
		s.logQuery(logging.QueryEntry{
			SystemDigest: digest,
			Substrate:    substrateName,
			Method:       method,
			Outcome:      logging.OutcomeError,
			Reason:       err.Error(),
		})
	}
	return toStatus(err)
}

func (s *Server) logQuery(entry logging.QueryEntry) {
	if err := logging.LogQuery(s.store.DB(), entry); err != nil {
		s.logger.Warn("query log failed", "error", err)
	}
}

// #endregion record
