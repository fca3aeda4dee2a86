package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"mensaplan/internal/app/avatar"
	"mensaplan/internal/app/ports"
)

const (
	CredentialStatusActive = "active"
	maxUserIDLength        = 64
)

var (
	ErrInvalidRequest     = errors.New("invalid auth request")
	ErrInvalidCredentials = errors.New("invalid user credentials")
)

type RegisterRequest struct {
	UserID    string `json:"user_id"`
	AvatarURL string `json:"avatar_url"`
}

type RegisterResponse struct {
	UserID   string `json:"user_id"`
	UserKey  string `json:"user_key"`
	IssuedAt string `json:"issued_at"`
}

type VerifyRequest struct {
	UserID  string
	UserKey string
}

type RegisterUseCase struct {
	Credentials ports.UserCredentialRepository
	Sources     ports.AvatarSourceRepository
	TxManager   ports.TxManager
	Now         func() time.Time
}

type VerifyUseCase struct {
	Credentials ports.UserCredentialRepository
}

// Execute registers a user and their avatar in one transaction. A caller
// supplied id that is already taken is a conflict; generated ids are retried.
func (u RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	if u.Credentials == nil || u.Sources == nil || u.TxManager == nil {
		return RegisterResponse{}, ErrInvalidRequest
	}
	requested := strings.TrimSpace(req.UserID)
	if len(requested) > maxUserIDLength || strings.ContainsAny(requested, " \t\r\n") {
		return RegisterResponse{}, ErrInvalidRequest
	}
	avatarURL, err := avatar.NormalizeURL(req.AvatarURL)
	if err != nil {
		return RegisterResponse{}, ErrInvalidRequest
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn().UTC()

	attempts := 3
	if requested != "" {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		userID := requested
		if userID == "" {
			userID, err = newUserID(now)
			if err != nil {
				return RegisterResponse{}, err
			}
		}
		userKey, err := randomToken(32)
		if err != nil {
			return RegisterResponse{}, err
		}
		salt, err := randomBytes(16)
		if err != nil {
			return RegisterResponse{}, err
		}
		hash := credentialHash(salt, userKey)

		err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			if err := u.Credentials.Create(txCtx, ports.UserCredentialRecord{
				UserID:    userID,
				KeySalt:   salt,
				KeyHash:   hash,
				Status:    CredentialStatusActive,
				CreatedAt: now,
			}); err != nil {
				return err
			}
			return u.Sources.Upsert(txCtx, ports.AvatarSourceRecord{
				UserID:    userID,
				AvatarURL: avatarURL,
				UpdatedAt: now,
			})
		})
		if errors.Is(err, ports.ErrConflict) {
			continue
		}
		if err != nil {
			return RegisterResponse{}, err
		}
		return RegisterResponse{
			UserID:   userID,
			UserKey:  userKey,
			IssuedAt: now.Format(time.RFC3339),
		}, nil
	}

	return RegisterResponse{}, ports.ErrConflict
}

func (u VerifyUseCase) Execute(ctx context.Context, req VerifyRequest) error {
	req.UserID = strings.TrimSpace(req.UserID)
	req.UserKey = strings.TrimSpace(req.UserKey)
	if req.UserID == "" || req.UserKey == "" || u.Credentials == nil {
		return ErrInvalidRequest
	}

	cred, err := u.Credentials.GetByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if cred.Status != CredentialStatusActive {
		return ErrInvalidCredentials
	}

	got := credentialHash(cred.KeySalt, req.UserKey)
	if subtle.ConstantTimeCompare(got, cred.KeyHash) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

func credentialHash(salt []byte, key string) []byte {
	b := make([]byte, 0, len(salt)+len(key))
	b = append(b, salt...)
	b = append(b, key...)
	sum := sha256.Sum256(b)
	return sum[:]
}

func newUserID(now time.Time) (string, error) {
	randPart, err := randomToken(9)
	if err != nil {
		return "", err
	}
	return "usr_" + now.Format("20060102") + "_" + randPart, nil
}

func randomToken(n int) (string, error) {
	b, err := randomBytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
