package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/substrate"
)

// #region messages
// ClassicalRequest asks for Φ of a classical system. Config overlays the server config.
type ClassicalRequest struct {
	System substrate.ClassicalDescription `json:"system"`
	Config json.RawMessage                `json:"config,omitempty"`
}

// QuantumRequest asks for Φ of a density matrix. Config overlays the server config.
type QuantumRequest struct {
	System substrate.QuantumDescription `json:"system"`
	Config json.RawMessage              `json:"config,omitempty"`
}

// Score is one evaluated partition.
type Score struct {
	Partition string  `json:"partition"`
	Phi       float64 `json:"phi"`
}

// Result is the answer to a Φ query.
type Result struct {
	ResultID        string  `json:"result_id,omitempty"`
	SystemDigest    string  `json:"system_digest"`
	Substrate       string  `json:"substrate"`
	Phi             float64 `json:"phi"`
	MIP             string  `json:"mip,omitempty"`
	Method          string  `json:"method"`
	PartitionsTried int     `json:"partitions_tried"`
	ElapsedMS       float64 `json:"elapsed_ms"`
	Scores          []Score `json:"scores,omitempty"`
}

func newResult(substrateName, digest string, res phi.Result) Result {
	out := Result{
		SystemDigest:    digest,
		Substrate:       substrateName,
		Phi:             res.Phi,
		Method:          string(res.Method),
		PartitionsTried: res.PartitionsTried,
		ElapsedMS:       float64(res.Elapsed.Microseconds()) / 1000,
	}
	if res.MIP != nil {
		out.MIP = res.MIP.String()
	}
	for _, sc := range res.Scores {
		out.Scores = append(out.Scores, Score{Partition: sc.Partition.String(), Phi: sc.Phi})
	}
	return out
}

// #endregion messages

// #region struct-codec
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("decode struct: %w", err)
	}
	return out, nil
}

func fromStruct(s *structpb.Struct, v any) error {
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode struct: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	return nil
}

// #endregion struct-codec
