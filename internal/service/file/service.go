package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"math"
	"path"

	"github.com/cmlabs-hris/workboard-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

type FileService interface {
	// UploadProof stores a submission proof for a staff member and returns its storage key
	UploadProof(ctx context.Context, staffID string, file io.Reader, filename string, size int64) (string, error)

	// Generic operations
	DeleteFile(ctx context.Context, key string) error
	FileURL(key string) string
}

// Options configure proof uploads
type Options struct {
	Proof storage.UploadOptions
	// MaxImageBytes is the size above which image proofs are re-encoded as JPEG; zero disables it
	MaxImageBytes int
}

type fileServiceImpl struct {
	storage storage.FileStorage
	opts    Options
}

func NewFileService(storage storage.FileStorage, opts Options) FileService {
	return &fileServiceImpl{
		storage: storage,
		opts:    opts,
	}
}

// UploadProof implements FileService.
func (s *fileServiceImpl) UploadProof(ctx context.Context, staffID string, file io.Reader, filename string, size int64) (string, error) {
	ext, err := s.opts.Proof.Check(filename, size)
	if err != nil {
		return "", err
	}

	contentType := storage.ContentTypeFor(ext)
	if s.opts.MaxImageBytes > 0 && isImage(ext) && size > int64(s.opts.MaxImageBytes) {
		buffer, err := io.ReadAll(file)
		if err != nil {
			return "", fmt.Errorf("failed to read image: %w", err)
		}

		compressed, err := compressImage(buffer, s.opts.MaxImageBytes)
		if err != nil {
			return "", fmt.Errorf("%w: %v", storage.ErrFileTypeNotAllowed, err)
		}

		// Always stored as JPEG after compression
		file = bytes.NewReader(compressed)
		ext, contentType = ".jpg", "image/jpeg"
	}

	key := path.Join("submissions", staffID, uuid.New().String()+ext)
	uploadedKey, err := s.storage.Upload(ctx, file, key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload proof: %w", err)
	}

	return uploadedKey, nil
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// FileURL returns the URL a stored file is served from
func (s *fileServiceImpl) FileURL(key string) string {
	return s.storage.URL(key)
}

func isImage(ext string) bool {
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png"
}

const (
	resizeQuality  = 70
	minImageEdge   = 160 // shorter side never goes below this when resizing
	maxResizeSteps = 4
)

// compressImage re-encodes an image as JPEG with decreasing quality until it fits maxSize.
// When quality alone is not enough the image is scaled down, keeping its aspect ratio.
// The smallest encoding is returned when nothing fits.
func compressImage(buffer []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var smallest []byte
	for quality := 85; quality >= 50; quality -= 5 {
		encoded, err := encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(encoded) <= maxSize {
			return encoded, nil
		}
		if smallest == nil || len(encoded) < len(smallest) {
			smallest = encoded
		}
	}

	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	for step := 0; step < maxResizeSteps; step++ {
		ratio := math.Sqrt(float64(maxSize)/float64(len(smallest))) * 0.9
		w, h := scaledSize(img.Bounds().Dx(), img.Bounds().Dy(), width, height, ratio)
		if w == width && h == height {
			break
		}
		width, height = w, h

		encoded, err := encodeJPEG(resizeImage(img, width, height), resizeQuality)
		if err != nil {
			return nil, err
		}
		if len(encoded) < len(smallest) {
			smallest = encoded
		}
		if len(encoded) <= maxSize {
			return encoded, nil
		}
	}

	return smallest, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// scaledSize shrinks the current size by ratio, clamped so the shorter side of the
// original stays at least minImageEdge. It never grows the image.
func scaledSize(origW, origH, curW, curH int, ratio float64) (int, int) {
	shorter := min(origW, origH)
	if shorter <= minImageEdge || ratio >= 1 {
		return curW, curH
	}
	scale := float64(curW) * ratio / float64(origW)
	if floor := float64(minImageEdge) / float64(shorter); scale < floor {
		scale = floor
	}
	w := int(math.Round(float64(origW) * scale))
	h := int(math.Round(float64(origH) * scale))
	if w >= curW || h >= curH {
		return curW, curH
	}
	return w, h
}

// resizeImage scales src to width x height with Catmull-Rom interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
