package ports

import (
	"context"
	"time"
)

type UserCredentialRecord struct {
	UserID    string
	KeySalt   []byte
	KeyHash   []byte
	Status    string
	CreatedAt time.Time
}

type UserCredentialRepository interface {
	Create(ctx context.Context, credential UserCredentialRecord) error
	GetByUserID(ctx context.Context, userID string) (UserCredentialRecord, error)
}

// TxManager scopes registration so a credential is never stored without its
// avatar source.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
