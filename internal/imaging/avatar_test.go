package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
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

func TestAvatar_ResizesToSquareWebp(t *testing.T) {
	out, err := Avatar(bytes.NewReader(pngOf(t, 400, 300)))
	require.NoError(t, err)

	img, err := webp.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, AvatarSize, img.Bounds().Dx())
	assert.Equal(t, AvatarSize, img.Bounds().Dy())
}

func TestAvatar_RejectsGarbageAndOversize(t *testing.T) {
	_, err := Avatar(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)

	_, err = Avatar(bytes.NewReader(make([]byte, MaxUploadSize+1)))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestSquareCrop(t *testing.T) {
	assert.Equal(t, image.Rect(50, 0, 350, 300), squareCrop(image.Rect(0, 0, 400, 300)))
	assert.Equal(t, image.Rect(0, 50, 300, 350), squareCrop(image.Rect(0, 0, 300, 400)))
	assert.Equal(t, image.Rect(0, 0, 10, 10), squareCrop(image.Rect(0, 0, 10, 10)))
}
