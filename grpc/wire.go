package stratagrpc

// Index selects the index queried by Contains.
type Index uint32

// The available indices.
const (
	IndexTransaction Index = iota
	IndexSerialNumber
	IndexCommitment
	IndexNonce
	IndexTransitionPublicKey
)

// SubmitRequest carries a transaction encoded with strata.MarshalTransaction.
type SubmitRequest struct {
	Transaction []byte `cramberry:"1"`
}

// SubmitResponse returns the ID of the committed transaction.
type SubmitResponse struct {
	ID []byte `cramberry:"1"`
}

// GetTransactionRequest selects a transaction by ID.
type GetTransactionRequest struct {
	ID []byte `cramberry:"1"`
}

// GetTransactionResponse carries a transaction encoded with
// strata.MarshalTransaction.
type GetTransactionResponse struct {
	Transaction []byte `cramberry:"1"`
}

// ContainsRequest looks up a key in an index.
type ContainsRequest struct {
	Index Index  `cramberry:"1"`
	Key   []byte `cramberry:"2"`
}

// ContainsResponse reports whether the key is indexed.
type ContainsResponse struct {
	Found bool `cramberry:"1"`
}

// FindProgramRequest looks up the deployment of a program.
type FindProgramRequest struct {
	Program string `cramberry:"1"`
}

// FindProgramResponse returns the ID of the deploying transaction.
type FindProgramResponse struct {
	ID    []byte `cramberry:"1"`
	Found bool   `cramberry:"2"`
}

// HeadRequest is the (empty) request for Head.
type HeadRequest struct{}

// HeadResponse returns the commit log position of the store.
type HeadResponse struct {
	Head   uint64 `cramberry:"1"`
	Length uint64 `cramberry:"2"`
}
