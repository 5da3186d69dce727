package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-vidtube/internal/util"
	"go-vidtube/pkg/apierror"
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Asset describes an uploaded object. URL is what gets persisted on the entity.
type Asset struct {
	URL         string
	Key         string
	ContentType string
	Size        int64
}

// ObjectStore persists an object under key and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Uploader validates a locally staged file and pushes it to the configured
// object store under a dated, collision-free key.
type Uploader struct {
	store ObjectStore
	now   func() time.Time
}

func NewUploader(store ObjectStore) *Uploader {
	return &Uploader{store: store, now: time.Now}
}

func (u *Uploader) Upload(ctx context.Context, localPath string, kind Kind) (Asset, error) {
	if strings.TrimSpace(localPath) == "" {
		return Asset{}, apierror.BadRequest("file is required", string(kind))
	}

	file, err := os.Open(localPath)
	if err != nil {
		return Asset{}, fmt.Errorf("open staged upload: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Asset{}, fmt.Errorf("stat staged upload: %w", err)
	}
	if info.Size() == 0 {
		return Asset{}, apierror.BadRequest("uploaded file is empty", filepath.Base(localPath))
	}

	contentType, ext, err := inspect(file, localPath, kind)
	if err != nil {
		return Asset{}, err
	}

	key := fmt.Sprintf("%ss/%s/%s%s", kind, u.now().UTC().Format("2006/01/02"), uuid.NewString(), ext)
	url, err := u.store.Put(ctx, key, file, info.Size(), contentType)
	if err != nil {
		return Asset{}, fmt.Errorf("store %s: %w", kind, err)
	}

	return Asset{URL: url, Key: key, ContentType: contentType, Size: info.Size()}, nil
}

// Discard deletes a previously uploaded asset.
func (u *Uploader) Discard(ctx context.Context, asset Asset) error {
	if asset.Key == "" {
		return nil
	}
	return u.store.Delete(ctx, asset.Key)
}

func inspect(file *os.File, localPath string, kind Kind) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(localPath))

	switch kind {
	case KindImage:
		format, _, err := util.DecodeImageConfig(file)
		if err != nil {
			return "", "", apierror.BadRequest("file is not a supported image", filepath.Base(localPath))
		}
		if format == "jpeg" {
			return "image/jpeg", ".jpg", nil
		}
		return "image/" + format, "." + format, nil

	case KindVideo:
		contentType, err := util.DetectMIMEFromFile(file)
		if err != nil {
			return "", "", fmt.Errorf("detect video type: %w", err)
		}
		if util.IsVideoMIME(contentType) {
			if ext == "" {
				ext = "." + strings.TrimPrefix(contentType, "video/")
			}
			return contentType, ext, nil
		}
		// Containers like mov and mkv sniff as octet-stream.
		if util.IsVideoExtension(ext) {
			return "video/" + strings.TrimPrefix(ext, "."), ext, nil
		}
		return "", "", apierror.BadRequest("file is not a supported video", filepath.Base(localPath))

	default:
		return "", "", apierror.BadRequest("unknown media kind", string(kind))
	}
}
