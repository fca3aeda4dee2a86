package avatar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"mensaplan/internal/app/ports"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const (
	DefaultFetchTimeout = 5 * time.Second
	DefaultMaxBytes     = 4 << 20
)

var ErrAvatarTooLarge = errors.New("avatar exceeds size limit")

// HTTPSource downloads the avatar registered for a user. The client built by
// NewHTTPSource stops reading bodies over DefaultMaxBytes; MaxBytes can lower
// that further.
type HTTPSource struct {
	Sources  ports.AvatarSourceRepository
	Client   *client.Client
	Timeout  time.Duration
	MaxBytes int
}

func NewHTTPSource(sources ports.AvatarSourceRepository, timeout time.Duration) (*HTTPSource, error) {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	c, err := client.NewClient(
		client.WithDialTimeout(timeout),
		withMaxResponseBodySize(DefaultMaxBytes),
	)
	if err != nil {
		return nil, err
	}
	return &HTTPSource{Sources: sources, Client: c, Timeout: timeout, MaxBytes: DefaultMaxBytes}, nil
}

// withMaxResponseBodySize makes the client fail a response whose body would
// exceed n bytes while it is still being read.
func withMaxResponseBodySize(n int) config.ClientOption {
	return config.ClientOption{F: func(o *config.ClientOptions) {
		o.MaxResponseBodySize = n
	}}
}

func (s *HTTPSource) FetchBlob(ctx context.Context, userID string) ([]byte, error) {
	source, err := s.Sources.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("avatar source of %s: %w", userID, err)
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer protocol.ReleaseRequest(req)
	defer protocol.ReleaseResponse(resp)

	req.SetRequestURI(source.AvatarURL)
	req.SetMethod(consts.MethodGet)

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if err := s.Client.DoTimeout(ctx, req, resp, timeout); err != nil {
		return nil, fmt.Errorf("download %s: %w", source.AvatarURL, err)
	}
	if resp.StatusCode() != consts.StatusOK {
		return nil, fmt.Errorf("download %s: unexpected status %d", source.AvatarURL, resp.StatusCode())
	}
	body := resp.Body()
	if s.MaxBytes > 0 && len(body) > s.MaxBytes {
		return nil, fmt.Errorf("download %s: %w", source.AvatarURL, ErrAvatarTooLarge)
	}
	return bytes.Clone(body), nil
}
