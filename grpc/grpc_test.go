package stratagrpc

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/256dpi/strata"
	"github.com/256dpi/strata/plaintext"
)

func init() {
	logrus.SetOutput(io.Discard)
}

func startServer(t *testing.T) (*strata.Store, *Client) {
	t.Helper()

	// create store
	store, err := strata.CreateStore(strata.NewMemoryDB(), strata.StoreConfig{})
	require.NoError(t, err)
	t.Cleanup(store.Close)

	// listen
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	// serve
	gs := grpc.NewServer()
	NewServer(store, ServerConfig{}).Register(gs)
	go func() {
		_ = gs.Serve(lis)
	}()
	t.Cleanup(gs.GracefulStop)

	// dial
	client, err := Dial(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return store, client
}

func key(s string) strata.Field {
	var f strata.Field
	copy(f[:], s)
	return f
}

func transaction(t *testing.T, name string) *strata.Execute {
	tr, err := strata.NewTransition(strata.Transition{
		Program:       plaintext.MustProgramID("token.aleo"),
		Function:      "mint",
		SerialNumbers: []strata.Field{key("sn-" + name)},
		Commitments:   []strata.Field{key("cm-" + name)},
		Nonces:        []strata.Field{key("nonce-" + name)},
		TPK:           key("tpk-" + name),
		Fee:           1,
	})
	require.NoError(t, err)

	tx, err := strata.NewExecute([]*strata.Transition{tr}, nil)
	require.NoError(t, err)

	return tx
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestSubmitAndGet(t *testing.T) {
	store, client := startServer(t)

	tx := transaction(t, "a")
	id, err := client.Submit(ctx(t), tx)
	require.NoError(t, err, spew.Sdump(err))
	assert.Equal(t, tx.ID(), id)

	ok, err := store.ContainsTransactionID(id)
	assert.NoError(t, err)
	assert.True(t, ok)

	got, err := client.GetTransaction(ctx(t), id)
	require.NoError(t, err, spew.Sdump(err))
	assert.Equal(t, tx.ID(), got.ID())
	assert.Equal(t, strata.KindExecute, got.Kind())
	assert.Len(t, got.(*strata.Execute).Transitions(), 1)

	head, length, err := client.Head(ctx(t))
	assert.NoError(t, err)
	assert.Equal(t, store.Head(), head)
	assert.Equal(t, 1, length)
}

func TestContains(t *testing.T) {
	_, client := startServer(t)

	tx := transaction(t, "a")
	_, err := client.Submit(ctx(t), tx)
	require.NoError(t, err)

	id := tx.ID()
	for index, k := range map[Index]strata.Field{
		IndexTransaction:         strata.Field(id),
		IndexSerialNumber:        key("sn-a"),
		IndexCommitment:          key("cm-a"),
		IndexNonce:               key("nonce-a"),
		IndexTransitionPublicKey: key("tpk-a"),
	} {
		ok, err := client.Contains(ctx(t), index, k)
		assert.NoError(t, err)
		assert.True(t, ok, index)

		ok, err = client.Contains(ctx(t), index, key("other"))
		assert.NoError(t, err)
		assert.False(t, ok, index)
	}

	_, err = client.Contains(ctx(t), Index(42), key("sn-a"))
	assert.True(t, errors.Is(err, strata.ErrInvalidTransaction), spew.Sdump(err))
}

func TestFindProgram(t *testing.T) {
	_, client := startServer(t)

	program := plaintext.MustProgramID("token.aleo")
	tx, err := strata.NewDeploy(strata.Deployment{
		Edition: 1,
		Program: strata.Program{
			ID:        program,
			Functions: []plaintext.Identifier{"mint"},
		},
		VerifyingKeys: []strata.VerifyingKey{
			{Function: "mint", Key: []byte("vk")},
		},
	}, nil)
	require.NoError(t, err)

	_, ok, err := client.FindProgram(ctx(t), program)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = client.Submit(ctx(t), tx)
	require.NoError(t, err, spew.Sdump(err))

	id, ok, err := client.FindProgram(ctx(t), program)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, tx.ID(), id)
}

func TestErrors(t *testing.T) {
	_, client := startServer(t)

	tx := transaction(t, "a")
	_, err := client.Submit(ctx(t), tx)
	require.NoError(t, err)

	_, err = client.Submit(ctx(t), tx)
	assert.True(t, errors.Is(err, strata.ErrDuplicateKey), spew.Sdump(err))

	_, err = client.GetTransaction(ctx(t), strata.TransactionID(key("missing")))
	assert.True(t, errors.Is(err, strata.ErrNotFound), spew.Sdump(err))

	resp := new(SubmitResponse)
	err = client.cc.Invoke(ctx(t), fullMethod("Submit"), &SubmitRequest{Transaction: []byte("garbage")}, resp)
	assert.Equal(t, codes.InvalidArgument, status.Code(err), spew.Sdump(err))
}

func TestStatusMapping(t *testing.T) {
	for _, item := range []struct {
		err  error
		code codes.Code
	}{
		{strata.ErrDuplicateKey, codes.AlreadyExists},
		{strata.ErrNotFound, codes.NotFound},
		{strata.ErrMissingReference, codes.DataLoss},
		{strata.ErrCorrupted, codes.DataLoss},
		{strata.ErrUnsupportedOrigin, codes.Unimplemented},
		{strata.ErrInvalidTransaction, codes.InvalidArgument},
		{strata.ErrInvalidDeployment, codes.InvalidArgument},
	} {
		st := toStatus(errors.Wrap(item.err, "context"))
		assert.Equal(t, item.code, status.Code(st), item.err.Error())
		assert.True(t, errors.Is(fromStatus(st), item.err), item.err.Error())
	}

	assert.Equal(t, codes.Internal, status.Code(toStatus(errors.New("foo"))))
	assert.Nil(t, toStatus(nil))

	plain := errors.New("foo")
	assert.Equal(t, plain, fromStatus(plain))
}
