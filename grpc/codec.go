// Package stratagrpc provides a gRPC transport for a strata store, using
// cramberry for deterministic binary serialization.
//
// No protobuf code generation is required. Messages are plain structs with
// cramberry tags and the service descriptor is written by hand.
package stratagrpc

import (
	"github.com/blockberries/cramberry/pkg/cramberry"
	"github.com/pkg/errors"
	"google.golang.org/grpc/encoding"
)

const codecName = "cramberry"

// Codec implements grpc/encoding.Codec using cramberry.
type Codec struct{}

// Marshal implements the encoding.Codec interface.
func (Codec) Marshal(v any) ([]byte, error) {
	data, err := cramberry.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "cramberry marshal")
	}
	return data, nil
}

// Unmarshal implements the encoding.Codec interface.
func (Codec) Unmarshal(data []byte, v any) error {
	err := cramberry.Unmarshal(data, v)
	if err != nil {
		return errors.Wrap(err, "cramberry unmarshal")
	}
	return nil
}

// Name implements the encoding.Codec interface.
func (Codec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(Codec{})
}
