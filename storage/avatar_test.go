package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessAvatar(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"landscape", 640, 320},
		{"portrait", 90, 400},
		{"small square", 50, 50},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := ProcessAvatar(bytes.NewReader(pngOf(t, tc.w, tc.h)))
			require.NoError(t, err)

			cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, "jpeg", format)
			assert.Equal(t, AvatarSize, cfg.Width)
			assert.Equal(t, AvatarSize, cfg.Height)
		})
	}
}

func TestProcessAvatar_acceptsJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 300, 300)), nil))

	_, err := ProcessAvatar(&buf)
	assert.NoError(t, err)
}

func TestProcessAvatar_rejects(t *testing.T) {
	var gifBuf bytes.Buffer
	require.NoError(t, gif.Encode(&gifBuf, image.NewPaletted(image.Rect(0, 0, 10, 10), color.Palette{color.Black}), nil))

	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"not an image", []byte(strings.Repeat("x", 100)), ErrUnsupportedImageType},
		{"gif", gifBuf.Bytes(), ErrUnsupportedImageType},
		{"too large", bytes.Repeat([]byte{0}, MaxAvatarBytes+1), ErrImageTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ProcessAvatar(bytes.NewReader(tc.data))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestIsAllowedAvatarType(t *testing.T) {
	assert.True(t, IsAllowedAvatarType("image/jpeg"))
	assert.True(t, IsAllowedAvatarType("image/webp"))
	assert.False(t, IsAllowedAvatarType("image/gif"))
	assert.False(t, IsAllowedAvatarType(""))
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://bucket.s3.eu-west-1.amazonaws.com/avatars/a.jpg",
		publicURL("https://bucket.s3.eu-west-1.amazonaws.com/", "avatars/a.jpg"))
	assert.Equal(t, "https://cdn.example.com/media/avatars/a.jpg",
		publicURL("https://cdn.example.com/media", "/avatars/a.jpg"))
	assert.Empty(t, publicURL("", "avatars/a.jpg"))
}
