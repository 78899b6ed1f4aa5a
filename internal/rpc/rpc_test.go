package rpc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net"
	"path/filepath"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/store"
	"github.com/danielpatrickdp/phi-engine/internal/substrate"
)

// #region helpers
func startServer(t *testing.T) (*Client, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "phi.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	RegisterPhiServiceServer(srv, NewServer(phi.DefaultConfig(), WithStore(st), WithLogger(logger)))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	c, err := NewClient("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, st
}

func bell() substrate.QuantumDescription {
	return substrate.QuantumDescription{Real: [][]float64{
		{0.5, 0, 0, 0.5},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0.5, 0, 0, 0.5},
	}}
}

func majority(n int) substrate.ClassicalDescription {
	in := make([]int, n)
	for i := range in {
		in[i] = i
	}
	d := substrate.ClassicalDescription{State: make([]int, n)}
	for range n {
		d.Nodes = append(d.Nodes, substrate.Node{Gate: substrate.Majority, Inputs: in})
	}
	d.State[0], d.State[1] = 1, 1
	return d
}

func queryLogCount(t *testing.T, st *store.Store, outcome string) int {
	t.Helper()
	var n int
	if err := st.DB().QueryRow(`SELECT COUNT(*) FROM query_log WHERE outcome = ?`, outcome).Scan(&n); err != nil {
		t.Fatalf("count query log: %v", err)
	}
	return n
}

// #endregion helpers

// #region round-trip-tests
func TestComputeQuantum_Bell(t *testing.T) {
	c, st := startServer(t)
	res, err := c.ComputeQuantum(context.Background(), QuantumRequest{System: bell()})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if math.Abs(res.Phi-2) > 1e-6 || res.MIP != "{0} || {1}" || res.Method != "quantum" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Substrate != SubstrateQuantum || res.SystemDigest != bell().Digest() {
		t.Fatalf("unexpected identity %+v", res)
	}

	rec, err := st.Get(res.ResultID)
	if err != nil {
		t.Fatalf("stored result: %v", err)
	}
	if rec.NElements != 2 || math.Abs(rec.Phi-res.Phi) > 1e-12 {
		t.Fatalf("unexpected stored record %+v", rec)
	}
	if n := queryLogCount(t, st, "ok"); n != 1 {
		t.Fatalf("expected 1 ok query log row, got %d", n)
	}
}

func TestComputeClassical_Majority(t *testing.T) {
	c, st := startServer(t)
	res, err := c.ComputeClassical(context.Background(), ClassicalRequest{System: majority(3)})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.Phi <= 0 || res.Method != "exact" || res.PartitionsTried != 6 || len(res.Scores) != 6 {
		t.Fatalf("unexpected result %+v", res)
	}
	byDigest, err := st.ListByDigest(res.SystemDigest)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(byDigest) != 1 || byDigest[0].ResultID != res.ResultID {
		t.Fatalf("expected the result under its digest, got %+v", byDigest)
	}
}

func TestComputeClassical_ConfigOverlay(t *testing.T) {
	c, _ := startServer(t)
	res, err := c.ComputeClassical(context.Background(), ClassicalRequest{
		System: majority(4),
		Config: json.RawMessage(`{"approximation": "tau", "max_exact_size": 2}`),
	})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.Method != "tau" || res.Phi != 1 || res.MIP != "" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCompute_StatusCodes(t *testing.T) {
	c, st := startServer(t)
	ctx := context.Background()
	cases := []struct {
		name string
		call func() error
		code codes.Code
	}{
		{"too large", func() error {
			_, err := c.ComputeClassical(ctx, ClassicalRequest{System: majority(3), Config: json.RawMessage(`{"approximation": "exact", "max_exact_size": 2}`)})
			return err
		}, codes.ResourceExhausted},
		{"bad config", func() error {
			_, err := c.ComputeClassical(ctx, ClassicalRequest{System: majority(3), Config: json.RawMessage(`{"cut_kind": "sideways"}`)})
			return err
		}, codes.FailedPrecondition},
		{"bad tpm", func() error {
			_, err := c.ComputeClassical(ctx, ClassicalRequest{System: substrate.ClassicalDescription{TPM: [][]float64{{0.5}, {1.5}}, State: []int{0}}})
			return err
		}, codes.InvalidArgument},
		{"not hermitian", func() error {
			_, err := c.ComputeQuantum(ctx, QuantumRequest{System: substrate.QuantumDescription{Real: [][]float64{{0.5, 0.3}, {0.1, 0.5}}}})
			return err
		}, codes.Internal},
		{"qubit budget", func() error {
			_, err := c.ComputeQuantum(ctx, QuantumRequest{System: bell(), Config: json.RawMessage(`{"max_qubits": 1}`)})
			return err
		}, codes.ResourceExhausted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			if got := status.Code(err); got != tc.code {
				t.Fatalf("expected %s, got %s (%v)", tc.code, got, err)
			}
		})
	}
	if n := queryLogCount(t, st, "error"); n != len(cases) {
		t.Fatalf("expected %d error query log rows, got %d", len(cases), n)
	}
}

func TestComputeClassical_RefusedLogsMethod(t *testing.T) {
	c, st := startServer(t)
	_, err := c.ComputeClassical(context.Background(), ClassicalRequest{System: majority(3), Config: json.RawMessage(`{"approximation": "exact", "max_exact_size": 2}`)})
	if status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("expected resource exhausted, got %v", err)
	}
	var method sql.NullString
	if err := st.DB().QueryRow(`SELECT method FROM query_log WHERE outcome = 'error'`).Scan(&method); err != nil {
		t.Fatalf("read query log: %v", err)
	}
	if method.String != string(phi.Exact) {
		t.Fatalf("expected method %q on the error row, got %q", phi.Exact, method.String)
	}
}

// #endregion round-trip-tests

// #region unit-tests
type stubService struct {
	PhiServiceClient
	resp *structpb.Struct
	err  error
}

func (s stubService) ComputeQuantum(context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error) {
	return s.resp, s.err
}

func TestClient_WithService(t *testing.T) {
	resp, err := toStruct(Result{Phi: 1.25, Method: "quantum", SystemDigest: "d"})
	if err != nil {
		t.Fatalf("to struct: %v", err)
	}
	c := NewClientWithService(stubService{resp: resp})
	res, err := c.ComputeQuantum(context.Background(), QuantumRequest{System: bell()})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.Phi != 1.25 || res.SystemDigest != "d" {
		t.Fatalf("unexpected result %+v", res)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close without connection: %v", err)
	}

	c = NewClientWithService(stubService{err: status.Error(codes.Unavailable, "down")})
	if _, err := c.ComputeQuantum(context.Background(), QuantumRequest{System: bell()}); status.Code(err) != codes.Unavailable {
		t.Fatalf("expected wrapped Unavailable, got %v", err)
	}
}

func TestToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{nil, codes.OK},
		{phierr.New(phierr.InvalidState, "x"), codes.InvalidArgument},
		{phierr.New(phierr.Timeout, "x"), codes.DeadlineExceeded},
		{phierr.New(phierr.SystemTooLarge, "x"), codes.ResourceExhausted},
		{phierr.New(phierr.ApproximationUnavailable, "x"), codes.FailedPrecondition},
		{phierr.New(phierr.SingularMatrix, "x"), codes.Internal},
		{context.Canceled, codes.Canceled},
		{errors.New("boom"), codes.Internal},
	}
	for _, tc := range cases {
		if got := status.Code(toStatus(tc.err)); got != tc.code {
			t.Errorf("%v: expected %s, got %s", tc.err, tc.code, got)
		}
	}
}

func TestStructRoundTrip(t *testing.T) {
	req := ClassicalRequest{System: majority(3), Config: json.RawMessage(`{"parallel":false}`)}
	s, err := toStruct(req)
	if err != nil {
		t.Fatalf("to struct: %v", err)
	}
	var back ClassicalRequest
	if err := fromStruct(s, &back); err != nil {
		t.Fatalf("from struct: %v", err)
	}
	if back.System.Digest() != req.System.Digest() {
		t.Fatal("system changed across the struct codec")
	}
	cfg, err := phi.DefaultConfig().Overlay(back.Config)
	if err != nil || cfg.Parallel {
		t.Fatalf("config lost across the struct codec: %+v %v", cfg, err)
	}
}

// #endregion unit-tests
