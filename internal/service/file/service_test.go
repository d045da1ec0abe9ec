package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	files        map[string][]byte
	contentTypes map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memStorage) Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	b, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	m.files[path] = b
	m.contentTypes[path] = contentType
	return path, nil
}

func (m *memStorage) Delete(ctx context.Context, path string) error {
	delete(m.files, path)
	return nil
}

func (m *memStorage) URL(path string) string { return "/uploads/" + path }

func proofOptions(maxImage int) Options {
	return Options{
		Proof:         storage.UploadOptions{MaxSize: 1 << 20, AllowedExts: []string{".pdf", ".jpg", ".jpeg", ".png"}},
		MaxImageBytes: maxImage,
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8((x ^ y) * 3), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadProof_StoresUnderStaffPrefix(t *testing.T) {
	store := newMemStorage()
	svc := NewFileService(store, proofOptions(0))

	key, err := svc.UploadProof(context.Background(), "st-1", strings.NewReader("%PDF-1.4"), "Report.PDF", 8)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "submissions/st-1/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.Equal(t, "application/pdf", store.contentTypes[key])
	assert.Equal(t, "/uploads/"+key, svc.FileURL(key))

	require.NoError(t, svc.DeleteFile(context.Background(), key))
	assert.Empty(t, store.files)
}

func TestUploadProof_RejectsInvalidFiles(t *testing.T) {
	svc := NewFileService(newMemStorage(), proofOptions(0))

	_, err := svc.UploadProof(context.Background(), "st-1", strings.NewReader("MZ"), "tool.exe", 2)
	assert.ErrorIs(t, err, storage.ErrFileTypeNotAllowed)

	_, err = svc.UploadProof(context.Background(), "st-1", strings.NewReader("x"), "big.pdf", 2<<20)
	assert.ErrorIs(t, err, storage.ErrFileTooLarge)
}

func TestUploadProof_ReencodesLargeImages(t *testing.T) {
	store := newMemStorage()
	raw := testPNG(t, 64, 64)
	svc := NewFileService(store, proofOptions(len(raw)/2))

	key, err := svc.UploadProof(context.Background(), "st-1", bytes.NewReader(raw), "photo.png", int64(len(raw)))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Equal(t, "image/jpeg", store.contentTypes[key])
	_, err = jpeg.Decode(bytes.NewReader(store.files[key]))
	assert.NoError(t, err)
}

func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewPCG(1, 2))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.IntN(256))
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadProof_ResizesWhenQualityIsNotEnough(t *testing.T) {
	store := newMemStorage()
	raw := noisyPNG(t, 800, 600)
	svc := NewFileService(store, Options{
		Proof:         storage.UploadOptions{MaxSize: 8 << 20, AllowedExts: []string{".png"}},
		MaxImageBytes: 1024,
	})

	key, err := svc.UploadProof(context.Background(), "st-1", bytes.NewReader(raw), "scan.png", int64(len(raw)))
	require.NoError(t, err)

	out, err := jpeg.Decode(bytes.NewReader(store.files[key]))
	require.NoError(t, err)
	// shrunk down to the minimum edge, aspect ratio kept
	assert.Equal(t, 160, out.Bounds().Dy())
	assert.Equal(t, 213, out.Bounds().Dx())
}

func TestScaledSize(t *testing.T) {
	w, h := scaledSize(1000, 500, 1000, 500, 0.5)
	assert.Equal(t, 500, w)
	assert.Equal(t, 250, h)

	w, h = scaledSize(100, 80, 100, 80, 0.5)
	assert.Equal(t, 100, w, "images below the minimum edge are left alone")
	assert.Equal(t, 80, h)

	w, h = scaledSize(1000, 500, 400, 200, 1.5)
	assert.Equal(t, 400, w, "never grows")
	assert.Equal(t, 200, h)
}

func TestUploadProof_UndecodableLargeImage(t *testing.T) {
	svc := NewFileService(newMemStorage(), proofOptions(4))

	_, err := svc.UploadProof(context.Background(), "st-1", strings.NewReader("not an image"), "photo.jpg", 12)
	assert.ErrorIs(t, err, storage.ErrFileTypeNotAllowed)
}

func TestUploadProof_SmallImagePassesThrough(t *testing.T) {
	store := newMemStorage()
	svc := NewFileService(store, proofOptions(1<<20))

	key, err := svc.UploadProof(context.Background(), "st-1", strings.NewReader("png"), "tiny.png", 3)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, []byte("png"), store.files[key])
}
