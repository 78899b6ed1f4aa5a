package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// #region client-struct
// Client wraps a gRPC connection to a phid server.
type Client struct {
	conn   *grpc.ClientConn
	client PhiServiceClient
}

// #endregion client-struct

// #region constructor
// NewClient connects to the phid gRPC server at addr.
func NewClient(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		client: NewPhiServiceClient(conn),
	}, nil
}

// NewClientWithService creates a Client with an injected service implementation.
// Used for testing without a real gRPC connection.
func NewClientWithService(svc PhiServiceClient) *Client {
	return &Client{client: svc}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region compute
// ComputeClassical asks the server for Φ of a classical system.
func (c *Client) ComputeClassical(ctx context.Context, req ClassicalRequest) (Result, error) {
	in, err := toStruct(req)
	if err != nil {
		return Result{}, err
	}
	resp, err := c.client.ComputeClassical(ctx, in)
	if err != nil {
		return Result{}, fmt.Errorf("compute classical rpc: %w", err)
	}
	var out Result
	if err := fromStruct(resp, &out); err != nil {
		return Result{}, err
	}
	return out, nil
}

// ComputeQuantum asks the server for Φ of a density matrix.
func (c *Client) ComputeQuantum(ctx context.Context, req QuantumRequest) (Result, error) {
	in, err := toStruct(req)
	if err != nil {
		return Result{}, err
	}
	resp, err := c.client.ComputeQuantum(ctx, in)
	if err != nil {
		return Result{}, fmt.Errorf("compute quantum rpc: %w", err)
	}
	var out Result
	if err := fromStruct(resp, &out); err != nil {
		return Result{}, err
	}
	return out, nil
}

// #endregion compute
