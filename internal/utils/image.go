package utils

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// ProcessAvatar decodes an uploaded avatar, scales it down to the square
// profile thumbnail size and re-encodes it as JPEG. Images already within
// bounds pass through unscaled.
func ProcessAvatar(r io.Reader, filename string) ([]byte, error) {
	img, err := decodeImage(r, filename)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() > AvatarPixelSize || bounds.Dy() > AvatarPixelSize {
		img = resize.Thumbnail(AvatarPixelSize, AvatarPixelSize, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decodeImage(r io.Reader, filename string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".png":
		return png.Decode(r)
	default:
		img, _, err := image.Decode(r)
		return img, err
	}
}

func IsValidImageFormat(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")

	for _, format := range AllowedImageTypes {
		if ext == format {
			return true
		}
	}

	return false
}

var ErrImageTooLarge = errors.New("image exceeds maximum upload size")
