// Package apiconnect binds the duoledger.v1 services to Connect handlers
// and clients.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// Codec is a connect.Codec for the plain Go messages in package api. It
// replaces Connect's default protobuf-JSON codec under the same name, so the
// wire stays application/json.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}
