package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // регистрирует декодер png
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // регистрирует декодер webp
)

const (
	AvatarSize        = 200
	AvatarQuality     = 85
	MaxAvatarBytes    = 5 << 20
	AvatarContentType = "image/jpeg"
)

var (
	ErrUnsupportedImageType = errors.New("only JPEG, PNG and WebP images are allowed")
	ErrImageTooLarge        = fmt.Errorf("image exceeds %d bytes", MaxAvatarBytes)
)

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// IsAllowedAvatarType reports whether an upload's content type can be processed.
func IsAllowedAvatarType(contentType string) bool {
	return allowedAvatarTypes[contentType]
}

// ProcessAvatar decodes an uploaded image, crops it to a centered square and scales
// it to AvatarSize, then encodes it as JPEG.
func ProcessAvatar(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAvatarBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxAvatarBytes {
		return nil, ErrImageTooLarge
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImageType, err)
	}
	switch format {
	case "jpeg", "png", "webp":
	default:
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedImageType, format)
	}

	dst := image.NewRGBA(image.Rect(0, 0, AvatarSize, AvatarSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, centerSquare(src.Bounds()), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: AvatarQuality}); err != nil {
		return nil, fmt.Errorf("encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}

func centerSquare(b image.Rectangle) image.Rectangle {
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}
