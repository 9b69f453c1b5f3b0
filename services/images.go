package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"recipe-server/confs"
	"recipe-server/entities"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxUploadSize bounds the bytes read from a single uploaded image.
const MaxUploadSize = 10 << 20

var ErrNotImage = errors.New("upload a valid image. The file you uploaded was either not an image or a corrupted image")

var acceptedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// ImageStore keeps recipe images on the local filesystem below a media root.
type ImageStore struct {
	root      string
	maxWidth  int
	maxPixels int
}

func NewImageStore(cfg confs.MediaConfig) *ImageStore {
	maxPixels := cfg.MaxImagePixels
	if maxPixels <= 0 {
		maxPixels = confs.DefaultMaxImagePixels
	}
	return &ImageStore{root: cfg.Root, maxWidth: cfg.MaxImageWidth, maxPixels: maxPixels}
}

// Save decodes an uploaded image, shrinks it to the configured width and
// writes it under the media root. It returns the path relative to the root.
func (s *ImageStore) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return "", fmt.Errorf("%w: larger than %d bytes", ErrNotImage, MaxUploadSize)
	}
	if !mimetype.EqualsAny(mimetype.Detect(data).String(), acceptedTypes...) {
		return "", ErrNotImage
	}

	// the header is enough to refuse canvases too large to decode
	header, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", ErrNotImage
	}
	if header.Width <= 0 || header.Height <= 0 ||
		int64(header.Width)*int64(header.Height) > int64(s.maxPixels) {
		return "", fmt.Errorf("%w: %dx%d pixels", ErrNotImage, header.Width, header.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrNotImage
	}
	img = s.resize(img)

	var buf bytes.Buffer
	ext := ".jpg"
	if format == "png" {
		ext = ".png"
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	rel := entities.RecipeImagePath("image" + ext)
	dst := s.abs(rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return rel, nil
}

// Remove deletes a stored image. Missing files are not an error.
func (s *ImageStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	clean := path.Clean("/" + rel)[1:]
	if !strings.HasPrefix(clean, entities.RecipeImageDir+"/") {
		return fmt.Errorf("refusing to remove %q outside %s", rel, entities.RecipeImageDir)
	}
	if err := os.Remove(s.abs(clean)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}

func (s *ImageStore) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

func (s *ImageStore) resize(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if s.maxWidth <= 0 || width <= s.maxWidth {
		return img
	}

	ratio := float64(s.maxWidth) / float64(width)
	height = int(float64(height) * ratio)
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, s.maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
