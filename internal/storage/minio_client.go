package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"sharePreview/internal/config"
)

var ErrObjectNotFound = errors.New("файл не найден")

// Object is an open media file. The caller must Close it.
type Object struct {
	io.ReadCloser
	Size         int64
	ContentType  string
	LastModified time.Time
}

type MediaStore interface {
	Open(ctx context.Context, objectName string) (*Object, error)
}

// objectStore is the part of a minio client MinIOClient uses.
type objectStore interface {
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

type MinIOClient struct {
	client objectStore
	bucket string
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации MinIO: %w", err)
	}

	return &MinIOClient{client: client, bucket: cfg.MinIO.BucketName}, nil
}

// CleanObjectName turns a request path into an object name. Paths escaping
// the bucket root are rejected.
func CleanObjectName(p string) (string, bool) {
	if p == "" || strings.Contains(p, "\\") {
		return "", false
	}
	for _, segment := range strings.Split(p, "/") {
		if segment == ".." {
			return "", false
		}
	}

	name := strings.TrimPrefix(path.Clean("/"+p), "/")
	if name == "" || name == "." {
		return "", false
	}
	return name, true
}

func (m *MinIOClient) Open(ctx context.Context, objectName string) (*Object, error) {
	name, ok := CleanObjectName(objectName)
	if !ok {
		return nil, ErrObjectNotFound
	}

	info, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", name, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("ошибка получения файла из MinIO: %w", err)
	}

	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("ошибка получения файла из MinIO: %w", err)
	}

	return &Object{
		ReadCloser:   obj,
		Size:         info.Size,
		ContentType:  contentType(name, info.ContentType),
		LastModified: info.LastModified,
	}, nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket" || code == "NotFound"
}

func contentType(name, stored string) string {
	if stored != "" && stored != "application/octet-stream" {
		return stored
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}
