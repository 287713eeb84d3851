package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/cmlabs-hris/pointage-backend/internal/domain/employee"
	"github.com/cmlabs-hris/pointage-backend/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngPhoto(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(content []byte, name string) employee.UploadPhotoRequest {
	return employee.UploadPhotoRequest{
		File:       bytes.NewReader(content),
		FileHeader: &multipart.FileHeader{Filename: name, Size: int64(len(content))},
	}
}

func TestUploadPhoto_ResizesAndStoresWebP(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "http://localhost/files")
	require.NoError(t, err)
	svc := NewPhotoService(store)

	content := pngPhoto(t, 1024, 600)
	resp, err := svc.UploadPhoto(context.Background(), uploadRequest(content, "me.png"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Path, "photos/"))
	assert.True(t, strings.HasSuffix(resp.Path, ".webp"))
	assert.Equal(t, "http://localhost/files/"+resp.Path, resp.URL)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(resp.Path)))
	require.NoError(t, err)
	img, err := webp.Decode(bytes.NewReader(stored))
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())

	again, err := svc.UploadPhoto(context.Background(), uploadRequest(content, "copy.png"))
	require.NoError(t, err)
	assert.Equal(t, resp.Path, again.Path)
}

func TestUploadPhoto_Rejections(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/files")
	require.NoError(t, err)
	svc := NewPhotoService(store)

	_, err = svc.UploadPhoto(context.Background(), uploadRequest([]byte("%PDF-1.4 not an image"), "cv.pdf"))
	assert.ErrorIs(t, err, employee.ErrInvalidPhoto)

	big := uploadRequest([]byte("x"), "big.png")
	big.FileHeader.Size = employee.MaxPhotoSize + 1
	_, err = svc.UploadPhoto(context.Background(), big)
	assert.ErrorIs(t, err, employee.ErrPhotoTooLarge)

	_, err = svc.UploadPhoto(context.Background(), employee.UploadPhotoRequest{})
	assert.Error(t, err)
}
