package stratagrpc

import (
	"context"
	"net"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/256dpi/strata"
	"github.com/256dpi/strata/plaintext"
)

var _ StoreServiceServer = (*Server)(nil)

// ServerConfig is used to configure a server.
type ServerConfig struct {
	// The logger used for failed requests.
	//
	// Default: logrus.StandardLogger().
	Logger logrus.FieldLogger
}

// Server exposes a store as a gRPC service.
type Server struct {
	store  *strata.Store
	logger logrus.FieldLogger
}

// NewServer creates and returns a new server.
func NewServer(store *strata.Store, config ServerConfig) *Server {
	// check store
	if store == nil {
		panic("strata: missing store")
	}

	// set default logger
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	return &Server{
		store:  store,
		logger: config.Logger,
	}
}

// Register adds the service to a gRPC server.
func (s *Server) Register(gs *grpc.Server) {
	RegisterStoreServiceServer(gs, s)
}

// Serve creates a gRPC server and serves the service on the listener until
// the gRPC server is stopped.
func (s *Server) Serve(lis net.Listener, opts ...grpc.ServerOption) error {
	gs := grpc.NewServer(opts...)
	s.Register(gs)
	return gs.Serve(lis)
}

// Submit decodes and inserts a transaction.
func (s *Server) Submit(_ context.Context, req *SubmitRequest) (*SubmitResponse, error) {
	// decode transaction
	tx, err := strata.UnmarshalTransaction(req.Transaction)
	if err != nil {
		return nil, s.fail("Submit", errors.Wrap(strata.ErrInvalidTransaction, err.Error()))
	}

	// insert transaction
	err = s.store.Insert(tx)
	if err != nil {
		return nil, s.fail("Submit", err)
	}

	id := tx.ID()

	return &SubmitResponse{ID: id[:]}, nil
}

// GetTransaction returns an encoded transaction.
func (s *Server) GetTransaction(_ context.Context, req *GetTransactionRequest) (*GetTransactionResponse, error) {
	// parse ID
	id, err := toField(req.ID)
	if err != nil {
		return nil, s.fail("GetTransaction", err)
	}

	// get transaction
	tx, err := s.store.GetTransaction(strata.TransactionID(id))
	if err != nil {
		return nil, s.fail("GetTransaction", err)
	}

	// encode transaction
	buf, err := strata.MarshalTransaction(tx)
	if err != nil {
		return nil, s.fail("GetTransaction", err)
	}

	return &GetTransactionResponse{Transaction: buf}, nil
}

// Contains looks up a key in one of the store indices.
func (s *Server) Contains(_ context.Context, req *ContainsRequest) (*ContainsResponse, error) {
	// parse key
	key, err := toField(req.Key)
	if err != nil {
		return nil, s.fail("Contains", err)
	}

	// query index
	var found bool
	switch req.Index {
	case IndexTransaction:
		found, err = s.store.ContainsTransactionID(strata.TransactionID(key))
	case IndexSerialNumber:
		found, err = s.store.ContainsSerialNumber(key)
	case IndexCommitment:
		found, err = s.store.ContainsCommitment(key)
	case IndexNonce:
		found, err = s.store.ContainsNonce(key)
	case IndexTransitionPublicKey:
		found, err = s.store.ContainsTransitionPublicKey(key)
	default:
		err = errors.Wrapf(strata.ErrInvalidTransaction, "unknown index %d", req.Index)
	}
	if err != nil {
		return nil, s.fail("Contains", err)
	}

	return &ContainsResponse{Found: found}, nil
}

// FindProgram returns the ID of the transaction that deployed a program.
func (s *Server) FindProgram(_ context.Context, req *FindProgramRequest) (*FindProgramResponse, error) {
	// parse program
	program, err := plaintext.ParseProgramID(req.Program)
	if err != nil {
		return nil, s.fail("FindProgram", errors.Wrap(strata.ErrInvalidDeployment, err.Error()))
	}

	// find transaction
	id, ok, err := s.store.FindTransactionID(program)
	if err != nil {
		return nil, s.fail("FindProgram", err)
	} else if !ok {
		return &FindProgramResponse{}, nil
	}

	return &FindProgramResponse{ID: id[:], Found: true}, nil
}

// Head returns the commit log position.
func (s *Server) Head(context.Context, *HeadRequest) (*HeadResponse, error) {
	return &HeadResponse{
		Head:   s.store.Head(),
		Length: uint64(s.store.Length()),
	}, nil
}

func (s *Server) fail(method string, err error) error {
	// convert error
	st := toStatus(err)

	// log corruption and unexpected errors
	entry := s.logger.WithError(err).WithField("method", method)
	switch status.Code(st) {
	case codes.Internal, codes.DataLoss:
		entry.Error("request failed")
	default:
		entry.Debug("request rejected")
	}

	return st
}

func toField(buf []byte) (strata.Field, error) {
	// check length
	var f strata.Field
	if len(buf) != len(f) {
		return f, errors.Wrapf(strata.ErrInvalidTransaction, "key has %d bytes", len(buf))
	}

	copy(f[:], buf)

	return f, nil
}
