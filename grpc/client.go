package stratagrpc

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/grpc"

	"github.com/256dpi/strata"
	"github.com/256dpi/strata/plaintext"
)

// Client accesses a remote store over gRPC.
type Client struct {
	cc *grpc.ClientConn
}

// Dial creates a client for the store service at the provided address. The
// connection is established lazily.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	// force codec
	opts = append(opts, grpc.WithDefaultCallOptions(
		grpc.ForceCodec(Codec{}),
	))

	// create client
	cc, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", addr)
	}

	return &Client{cc: cc}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.cc.Close()
}

// Submit inserts the transaction into the remote store.
func (c *Client) Submit(ctx context.Context, tx strata.Transaction) (strata.TransactionID, error) {
	// encode transaction
	buf, err := strata.MarshalTransaction(tx)
	if err != nil {
		return strata.TransactionID{}, err
	}

	// invoke
	resp := new(SubmitResponse)
	err = c.cc.Invoke(ctx, fullMethod("Submit"), &SubmitRequest{Transaction: buf}, resp)
	if err != nil {
		return strata.TransactionID{}, fromStatus(err)
	}

	// parse ID
	id, err := toField(resp.ID)
	if err != nil {
		return strata.TransactionID{}, err
	}

	return strata.TransactionID(id), nil
}

// GetTransaction returns the transaction from the remote store.
func (c *Client) GetTransaction(ctx context.Context, id strata.TransactionID) (strata.Transaction, error) {
	// invoke
	resp := new(GetTransactionResponse)
	err := c.cc.Invoke(ctx, fullMethod("GetTransaction"), &GetTransactionRequest{ID: id[:]}, resp)
	if err != nil {
		return nil, fromStatus(err)
	}

	return strata.UnmarshalTransaction(resp.Transaction)
}

// Contains reports whether the key is present in the index.
func (c *Client) Contains(ctx context.Context, index Index, key strata.Field) (bool, error) {
	// invoke
	resp := new(ContainsResponse)
	err := c.cc.Invoke(ctx, fullMethod("Contains"), &ContainsRequest{Index: index, Key: key[:]}, resp)
	if err != nil {
		return false, fromStatus(err)
	}

	return resp.Found, nil
}

// FindProgram returns the ID of the transaction that deployed the program.
func (c *Client) FindProgram(ctx context.Context, program plaintext.ProgramID) (strata.TransactionID, bool, error) {
	// invoke
	resp := new(FindProgramResponse)
	err := c.cc.Invoke(ctx, fullMethod("FindProgram"), &FindProgramRequest{Program: program.String()}, resp)
	if err != nil {
		return strata.TransactionID{}, false, fromStatus(err)
	} else if !resp.Found {
		return strata.TransactionID{}, false, nil
	}

	// parse ID
	id, err := toField(resp.ID)
	if err != nil {
		return strata.TransactionID{}, false, err
	}

	return strata.TransactionID(id), true, nil
}

// Head returns the head and length of the remote commit log.
func (c *Client) Head(ctx context.Context) (uint64, int, error) {
	// invoke
	resp := new(HeadResponse)
	err := c.cc.Invoke(ctx, fullMethod("Head"), &HeadRequest{}, resp)
	if err != nil {
		return 0, 0, fromStatus(err)
	}

	return resp.Head, int(resp.Length), nil
}
