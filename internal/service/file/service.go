package file

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/chai2010/webp"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/storage"
	"github.com/disintegration/imaging"
)

const (
	photoMaxWidth  = 512
	photoMaxHeight = 512
	photoQuality   = 80
)

type photoServiceImpl struct {
	storage storage.FileStorage
}

func NewPhotoService(storage storage.FileStorage) employee.PhotoService {
	return &photoServiceImpl{
		storage: storage,
	}
}

// UploadPhoto re-encodes the photo to WebP and stores it under the hash of its
// content, so uploading the same picture twice reuses the stored file.
func (s *photoServiceImpl) UploadPhoto(ctx context.Context, req employee.UploadPhotoRequest) (employee.PhotoResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.PhotoResponse{}, err
	}

	buffer, err := io.ReadAll(io.LimitReader(req.File, employee.MaxPhotoSize+1))
	if err != nil {
		return employee.PhotoResponse{}, fmt.Errorf("failed to read photo: %w", err)
	}
	if len(buffer) > employee.MaxPhotoSize {
		return employee.PhotoResponse{}, employee.ErrPhotoTooLarge
	}

	encoded, err := processPhoto(buffer)
	if err != nil {
		return employee.PhotoResponse{}, err
	}

	sum := sha256.Sum256(encoded)
	key := path.Join(storage.DirPhotos, hex.EncodeToString(sum[:])+".webp")

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return employee.PhotoResponse{}, fmt.Errorf("failed to check photo: %w", err)
	}
	if !exists {
		if key, err = s.storage.Upload(ctx, bytes.NewReader(encoded), key, "image/webp"); err != nil {
			return employee.PhotoResponse{}, fmt.Errorf("failed to upload photo: %w", err)
		}
	}

	return employee.PhotoResponse{Path: key, URL: s.storage.URL(key)}, nil
}

// ==================== HELPER FUNCTIONS ====================

// processPhoto decodes a JPEG, PNG or WebP image, fits it in the photo box and
// encodes it as WebP.
func processPhoto(buffer []byte) ([]byte, error) {
	img, err := decodePhoto(buffer)
	if err != nil {
		return nil, employee.ErrInvalidPhoto
	}

	fitted := imaging.Fit(img, photoMaxWidth, photoMaxHeight, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, fitted, &webp.Options{Lossless: false, Quality: photoQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode photo: %w", err)
	}
	return buf.Bytes(), nil
}

func decodePhoto(buffer []byte) (image.Image, error) {
	head := buffer
	if len(head) > 512 {
		head = head[:512]
	}
	contentType := http.DetectContentType(head)

	switch {
	case strings.Contains(contentType, "jpeg"):
		return jpeg.Decode(bytes.NewReader(buffer))
	case strings.Contains(contentType, "png"):
		return png.Decode(bytes.NewReader(buffer))
	case strings.Contains(contentType, "webp"):
		return webp.Decode(bytes.NewReader(buffer))
	}
	return nil, fmt.Errorf("unsupported image type %s", contentType)
}
