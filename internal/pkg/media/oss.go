package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"

	"github.com/vietanh2810/campus-events-api/internal/config"
)

var ErrStorageNotConfigured = errors.New("image storage is not configured")

// OSSHost stores images in an Aliyun OSS bucket as webp and hands back their
// public URL.
type OSSHost struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	publicBase string
	prefix     string
	opts       ImageOptions
}

func NewOSSHost(conf *config.StorageConfig) (*OSSHost, error) {
	if conf.Endpoint == "" || conf.AccessKeyID == "" || conf.AccessKeySecret == "" || conf.Bucket == "" {
		return nil, ErrStorageNotConfigured
	}

	client, err := oss.New(conf.Endpoint, conf.AccessKeyID, conf.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss.New -> %w", err)
	}

	bucket, err := client.Bucket(conf.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket -> %w", err)
	}

	opts := DefaultImageOptions
	if conf.MaxImageWidth > 0 {
		opts.MaxWidth = conf.MaxImageWidth
		opts.MaxHeight = conf.MaxImageWidth
	}

	zap.L().Info("image storage ready", zap.String("bucket", conf.Bucket), zap.String("endpoint", conf.Endpoint))

	return &OSSHost{
		bucket:     bucket,
		endpoint:   conf.Endpoint,
		bucketName: conf.Bucket,
		publicBase: strings.TrimRight(conf.PublicBaseURL, "/"),
		prefix:     strings.Trim(conf.KeyPrefix, "/"),
		opts:       opts,
	}, nil
}

func (h *OSSHost) Upload(ctx context.Context, key string, data []byte) (string, error) {
	converted, err := ToWebP(data, h.opts)
	if err != nil {
		return "", err
	}

	objectKey := h.objectKey(key)
	err = h.bucket.PutObject(objectKey, bytes.NewReader(converted),
		oss.WithContext(ctx),
		oss.ContentType("image/webp"),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	)
	if err != nil {
		return "", fmt.Errorf("h.bucket.PutObject -> %w", err)
	}

	return h.PublicURL(objectKey), nil
}

func (h *OSSHost) objectKey(key string) string {
	key = strings.Trim(key, "/") + ".webp"
	if h.prefix == "" {
		return key
	}
	return h.prefix + "/" + key
}

func (h *OSSHost) PublicURL(objectKey string) string {
	if h.publicBase != "" {
		return h.publicBase + "/" + objectKey
	}

	endpoint := strings.TrimPrefix(strings.TrimPrefix(h.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", h.bucketName, endpoint, objectKey)
}

// DisabledHost refuses every upload. It stands in when no bucket is configured.
type DisabledHost struct{}

func (DisabledHost) Upload(context.Context, string, []byte) (string, error) {
	return "", ErrStorageNotConfigured
}
