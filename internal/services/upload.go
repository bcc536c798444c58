package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"hvac-service/config"
	"hvac-service/internal/dto"
	"hvac-service/pkg/constants"
	"hvac-service/pkg/filestorage"
	"hvac-service/pkg/validation"

	"go.uber.org/zap"
)

type UploadServiceInterface interface {
	Upload(ctx context.Context, fileHeader *multipart.FileHeader) (*dto.UploadResultDTO, error)
}

type UploadService struct {
	storage filestorage.FileStorageInterface
	logger  *zap.Logger
}

func NewUploadService(storage filestorage.FileStorageInterface, logger *zap.Logger) UploadServiceInterface {
	return &UploadService{storage: storage, logger: logger}
}

func (s *UploadService) Upload(ctx context.Context, fileHeader *multipart.FileHeader) (*dto.UploadResultDTO, error) {
	if _, err := requireRole(ctx, constants.RoleAdmin, constants.RoleTechnician); err != nil {
		return nil, err
	}
	uploadContext := constants.UploadContextJobPhoto.String()

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer file.Close()

	contentType, err := validation.ValidateFile(fileHeader, file, uploadContext)
	if err != nil {
		return nil, err
	}

	stored, err := s.storage.Save(ctx, config.UploadContexts[uploadContext].PathPrefix, filestorage.Object{
		Reader:       file,
		OriginalName: fileHeader.Filename,
		ContentType:  contentType,
		Size:         fileHeader.Size,
	})
	if err != nil {
		s.logger.Error("store upload failed", zap.String("file", fileHeader.Filename), zap.Error(err))
		return nil, err
	}

	s.logger.Info("file uploaded", zap.String("path", stored.Path), zap.Int64("size", fileHeader.Size))
	return &dto.UploadResultDTO{
		URL:         stored.URL,
		Path:        stored.Path,
		ContentType: contentType,
		Size:        fileHeader.Size,
	}, nil
}
