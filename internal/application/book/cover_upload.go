package book

import (
	"context"
	"time"

	"github.com/xiebiao/library/internal/infrastructure/storage"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// CoverUploadUseCase 签发封面直传URL
type CoverUploadUseCase struct {
	presigner storage.Presigner
	prefix    string
	expire    time.Duration
}

// NewCoverUploadUseCase presigner为nil表示未配置对象存储
func NewCoverUploadUseCase(presigner storage.Presigner, prefix string, expire time.Duration) *CoverUploadUseCase {
	if prefix == "" {
		prefix = "book-covers"
	}
	if expire <= 0 {
		expire = time.Hour
	}
	return &CoverUploadUseCase{presigner: presigner, prefix: prefix, expire: expire}
}

// CoverUploadResponse 上传URL
type CoverUploadResponse struct {
	UploadURL string `json:"upload_url"`
	AccessURL string `json:"access_url"`
	ObjectKey string `json:"object_key"`
	Method    string `json:"method"`
	ExpiresIn int64  `json:"expires_in"`
}

// Execute 生成对象键并签名
func (uc *CoverUploadUseCase) Execute(ctx context.Context, fileName, contentType string) (*CoverUploadResponse, error) {
	if uc.presigner == nil {
		return nil, storage.ErrNotConfigured
	}
	key, err := storage.CoverObjectKey(uc.prefix, fileName)
	if err != nil {
		return nil, apperrors.InvalidParams(err.Error())
	}
	uploadURL, err := uc.presigner.PresignPut(ctx, key, contentType, uc.expire)
	if err != nil {
		return nil, err
	}
	return &CoverUploadResponse{
		UploadURL: uploadURL,
		AccessURL: uc.presigner.PublicURL(key),
		ObjectKey: key,
		Method:    "PUT",
		ExpiresIn: int64(uc.expire / time.Second),
	}, nil
}
