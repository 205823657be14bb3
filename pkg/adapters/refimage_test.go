package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefImageSource_PreparePart(t *testing.T) {
	ctx := context.Background()

	t.Run("キャッシュがある場合はフェッチしない", func(t *testing.T) {
		httpMock := &mockHTTPClient{}
		cache := &mockCache{data: map[string]any{}}
		src := NewRefImageSource(httpMock, nil, cache, time.Hour)

		url := "https://203.0.113.10/cached.png"
		cache.Set(cacheKeyRefImage+url, pngBytes(t), time.Hour)

		part := src.PreparePart(ctx, url)
		require.NotNil(t, part)
		assert.Equal(t, 0, httpMock.calls, "cached reference must not be fetched again")
	})

	t.Run("httpで取得した画像はJPEG圧縮されてキャッシュされる", func(t *testing.T) {
		httpMock := &mockHTTPClient{data: pngBytes(t)}
		cache := &mockCache{data: map[string]any{}}
		src := NewRefImageSource(httpMock, nil, cache, time.Hour)

		url := "https://203.0.113.10/logo.png"
		part := src.PreparePart(ctx, url)
		require.NotNil(t, part)
		require.NotNil(t, part.InlineData)
		assert.Equal(t, "image/jpeg", part.InlineData.MIMEType)

		cached, ok := cache.Get(cacheKeyRefImage + url)
		require.True(t, ok, "fetched bytes should be cached")
		assert.Equal(t, part.InlineData.Data, cached)
	})

	t.Run("gs:// は reader 経由で取得する", func(t *testing.T) {
		reader := &mockReader{data: pngBytes(t)}
		src := NewRefImageSource(nil, reader, nil, 0)

		part := src.PreparePart(ctx, "gs://bucket/logo.png")
		require.NotNil(t, part)
		assert.Equal(t, 1, reader.calls)
	})

	t.Run("安全でないと判定されたURLはフェッチせず nil を返す", func(t *testing.T) {
		var checked string
		httpMock := &mockHTTPClient{
			data: pngBytes(t),
			safeFunc: func(urlStr string) (bool, error) {
				checked = urlStr
				return false, nil
			},
		}
		src := NewRefImageSource(httpMock, nil, nil, 0)

		part := src.PreparePart(ctx, "http://127.0.0.1/admin.png")
		assert.Nil(t, part)
		assert.Equal(t, "http://127.0.0.1/admin.png", checked, "validation must receive the raw URL")
		assert.Equal(t, 0, httpMock.calls, "unsafe URL must never reach the fetcher")
	})

	t.Run("安全性検証自体のエラーもフェッチせず nil を返す", func(t *testing.T) {
		httpMock := &mockHTTPClient{
			data: pngBytes(t),
			safeFunc: func(urlStr string) (bool, error) {
				return false, errors.New("resolve failed")
			},
		}
		src := NewRefImageSource(httpMock, nil, nil, 0)

		assert.Nil(t, src.PreparePart(ctx, "http://unresolvable.invalid/logo.png"))
		assert.Equal(t, 0, httpMock.calls)
	})

	t.Run("フェッチャー未設定のスキームは nil を返す", func(t *testing.T) {
		src := NewRefImageSource(nil, nil, nil, 0)
		assert.Nil(t, src.PreparePart(ctx, "gs://bucket/logo.png"))
		assert.Nil(t, src.PreparePart(ctx, "https://203.0.113.10/logo.png"))
	})
}

func TestPartFromBytes(t *testing.T) {
	t.Run("画像データは InlineData になる", func(t *testing.T) {
		part := PartFromBytes(pngBytes(t))
		require.NotNil(t, part)
		assert.Equal(t, "image/png", part.InlineData.MIMEType)
	})

	t.Run("画像でないデータは nil になる", func(t *testing.T) {
		assert.Nil(t, PartFromBytes([]byte("plain text, not an image")))
	})
}
