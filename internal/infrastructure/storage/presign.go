// Package storage 对象存储（阿里云OSS）
//
// 服务端只负责签发上传URL，文件由浏览器直接PUT到OSS
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"

	"github.com/xiebiao/library/internal/infrastructure/config"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// ErrNotConfigured 未配置对象存储
var ErrNotConfigured = apperrors.New(apperrors.ErrCodeExternal, "对象存储未配置")

// Presigner 签发直传URL
type Presigner interface {
	// PresignPut 为objectKey签发PUT上传URL
	PresignPut(ctx context.Context, objectKey, contentType string, expire time.Duration) (string, error)

	// PublicURL 上传完成后的访问地址
	PublicURL(objectKey string) string
}

// ossPresigner 阿里云OSS实现
type ossPresigner struct {
	bucket   *oss.Bucket
	endpoint string
	name     string
}

// NewOSSPresigner 创建OSS签名器
// 未配置bucket或密钥时返回ErrNotConfigured，调用方可降级为不提供上传功能
func NewOSSPresigner(cfg config.StorageConfig) (Presigner, error) {
	if cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" {
		return nil, ErrNotConfigured
	}
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("创建OSS客户端失败: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("获取OSS Bucket失败: %w", err)
	}
	return &ossPresigner{bucket: bucket, endpoint: cfg.Endpoint, name: cfg.Bucket}, nil
}

func (p *ossPresigner) PresignPut(_ context.Context, objectKey, contentType string, expire time.Duration) (string, error) {
	var opts []oss.Option
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	signed, err := p.bucket.SignURL(objectKey, oss.HTTPPut, int64(expire/time.Second), opts...)
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeExternal, "生成上传URL失败").WithCause(err)
	}
	return signed, nil
}

// PublicURL https://{bucket}.{endpoint}/{key}
func (p *ossPresigner) PublicURL(objectKey string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(p.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", p.name, host, objectKey)
}

// CoverObjectKey 封面对象键: {prefix}/{uuid}-{转义后的文件名}
func CoverObjectKey(prefix, fileName string) (string, error) {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "", errors.New("文件名不能为空")
	}
	if prefix == "" {
		prefix = "book-covers"
	}
	return fmt.Sprintf("%s/%s-%s", strings.TrimSuffix(prefix, "/"), uuid.NewString(), url.PathEscape(name)), nil
}
