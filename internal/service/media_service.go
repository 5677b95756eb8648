package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/util"
	"skillkart_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const mediaFolder = "skillkart_resources"

var allowedMediaTypes = []string{util.MimeVideo, util.MimeImage, util.MimePDF}

// MediaService 处理管理员上传的课程媒体文件
type MediaService struct {
	Storage StorageProvider
	// ProbeVideo 可在测试中替换
	ProbeVideo func(path string) (*util.VideoInfo, error)
}

func NewMediaService(storage StorageProvider) *MediaService {
	return &MediaService{Storage: storage, ProbeVideo: util.ProbeVideo}
}

type MediaUploadResult struct {
	FileURL     string             `json:"fileUrl"`
	Type        model.ResourceType `json:"type,omitempty"`
	ContentType string             `json:"contentType"`
	Duration    float64            `json:"duration,omitempty"` // 视频时长（分钟）
}

// Upload 视频会先落盘探测时长再上传
func (s *MediaService) Upload(ctx context.Context, filename string, file io.ReadSeeker, size int64) (*MediaUploadResult, error) {
	contentType, err := util.ValidateMimeType(file, allowedMediaTypes)
	if err != nil {
		return nil, util.NewValidationError("file", err.Error())
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectName := fmt.Sprintf("%s/%s%s", mediaFolder, uuid.New().String(), ext)
	result := &MediaUploadResult{ContentType: contentType}

	switch {
	case util.IsVideo(contentType):
		if !util.HasAllowedExtension(filename, util.AllowedVideoExtensions) {
			return nil, util.NewValidationError("file", "unsupported video extension "+ext)
		}
		result.Type = model.ResourceVideo
		result.Duration = s.probeDuration(file, ext)
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	case strings.HasPrefix(contentType, util.MimeImage):
		if !util.HasAllowedExtension(filename, util.AllowedImageExtensions) {
			return nil, util.NewValidationError("file", "unsupported image extension "+ext)
		}
	}

	url, err := s.Storage.Upload(ctx, objectName, file, size, contentType)
	if err != nil {
		logger.Log.Error("Media upload failed", zap.String("object", objectName), zap.Error(err))
		return nil, err
	}
	result.FileURL = url
	return result, nil
}

// probeDuration 探测失败时返回 0，不阻断上传
func (s *MediaService) probeDuration(file io.Reader, ext string) float64 {
	if s.ProbeVideo == nil {
		return 0
	}
	tmp, err := os.CreateTemp("", "skillkart-probe-*"+ext)
	if err != nil {
		logger.Log.Warn("Failed to create probe file", zap.Error(err))
		return 0
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, file)
	tmp.Close()
	if err != nil {
		logger.Log.Warn("Failed to write probe file", zap.Error(err))
		return 0
	}

	info, err := s.ProbeVideo(tmp.Name())
	if err != nil {
		logger.Log.Warn("Video probe failed", zap.Error(err))
		return 0
	}
	return info.DurationMinutes()
}
