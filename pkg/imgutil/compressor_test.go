package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, x, color.RGBA{R: 255, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestCompressToJPEG(t *testing.T) {
	t.Run("PNGをJPEGへ変換できる", func(t *testing.T) {
		out, err := CompressToJPEG(pngFixture(t), 75)
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", http.DetectContentType(out))
	})

	t.Run("画像でないデータはエラーになる", func(t *testing.T) {
		_, err := CompressToJPEG([]byte("not an image"), 75)
		assert.Error(t, err)
	})
}

func TestEncodeDataURI(t *testing.T) {
	uri := EncodeDataURI([]byte{0x01, 0x02}, "image/jpeg")
	assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"), "unexpected prefix: %s", uri)
}
