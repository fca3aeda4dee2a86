package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

var ErrInvalidAssetPath = errors.New("invalid asset filepath")

// Background serves the plan image. The file is read and decoded on first use
// and the result (image or error) is shared by every later call.
type Background struct {
	load func() (image.Image, error)
}

func NewBackground(root, name string) *Background {
	return &Background{load: sync.OnceValues(func() (image.Image, error) {
		img, err := decodeFile(root, name)
		if err != nil {
			hlog.Errorf("load plan background %s: %v", name, err)
			return nil, err
		}
		hlog.Infof("plan background %s loaded (%dx%d)", name, img.Bounds().Dx(), img.Bounds().Dy())
		return img, nil
	})}
}

// Background returns the shared decoded image. Callers must not draw on it.
func (b *Background) Background(_ context.Context) (image.Image, error) {
	return b.load()
}

func decodeFile(root, name string) (image.Image, error) {
	path, err := secureJoin(root, name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

func secureJoin(root, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" || filepath.IsAbs(rel) {
		return "", ErrInvalidAssetPath
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	target := filepath.Clean(filepath.Join(rootAbs, rel))
	if !strings.HasPrefix(target, rootAbs+string(filepath.Separator)) {
		return "", ErrInvalidAssetPath
	}
	return target, nil
}
