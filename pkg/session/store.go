package session

import "context"

// Record is the durable value kept per session id. An unauthenticated
// session holds an empty token.
type Record struct {
	Token string `json:"token"`
}

// Store maps opaque session ids to records. Load returns a zero Record for
// ids the store has never seen; Save replaces the record wholesale.
type Store interface {
	Load(ctx context.Context, sid string) (Record, error)
	Save(ctx context.Context, sid string, rec Record) error
}
