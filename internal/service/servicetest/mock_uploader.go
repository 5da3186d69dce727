package servicetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-vidtube/internal/media"
)

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, localPath string, kind media.Kind) (media.Asset, error) {
	args := m.Called(ctx, localPath, kind)
	return args.Get(0).(media.Asset), args.Error(1)
}

// URLUploader accepts any staged file and returns a deterministic URL derived from its path.
type URLUploader struct{}

func (URLUploader) Upload(_ context.Context, localPath string, kind media.Kind) (media.Asset, error) {
	key := string(kind) + "s/" + localPath
	return media.Asset{URL: "http://media.test/" + key, Key: key}, nil
}

func (m *MockUploader) Discard(ctx context.Context, asset media.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}
