package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"google.golang.org/genai"

	"github.com/shouni/slide-deck-kit/pkg/imgutil"
)

const (
	refImageCompressionQuality = 75
	cacheKeyRefImage           = "ref_image:"
)

// RefImageSource はスタイル参照画像の取得・圧縮・キャッシュを担当するコンポーネントです。
// http(s):// は httpClient、gs:// は reader で取得します。
// どちらも nil を許容し、その場合は該当スキームの取得を行いません。
type RefImageSource struct {
	httpClient httpkit.ClientInterface
	reader     remoteio.InputReader
	cache      ImageCacher
	cacheTTL   time.Duration
}

// NewRefImageSource は依存関係を注入して RefImageSource を初期化します。
// cache は nil を許容します（キャッシュなし動作）。
func NewRefImageSource(httpClient httpkit.ClientInterface, reader remoteio.InputReader, cache ImageCacher, cacheTTL time.Duration) *RefImageSource {
	return &RefImageSource{
		httpClient: httpClient,
		reader:     reader,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

// PreparePart は参照画像URLを genai.Part へ変換します。
// 取得に失敗した場合は nil を返し、生成自体はテキストのみで続行させます。
func (s *RefImageSource) PreparePart(ctx context.Context, rawURL string) *genai.Part {
	if s.cache != nil {
		if cached, found := s.cache.Get(cacheKeyRefImage + rawURL); found {
			if data, ok := cached.([]byte); ok {
				return PartFromBytes(data)
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "url", rawURL, "type", fmt.Sprintf("%T", cached))
		}
	}

	data, err := s.fetch(ctx, rawURL)
	if err != nil {
		slog.WarnContext(ctx, "参照画像の取得に失敗しました。テキストのみで続行します", "url", rawURL, "error", err)
		return nil
	}

	finalData := data
	if compressed, err := imgutil.CompressToJPEG(data, refImageCompressionQuality); err == nil {
		finalData = compressed
	}

	if s.cache != nil {
		s.cache.Set(cacheKeyRefImage+rawURL, finalData, s.cacheTTL)
	}
	return PartFromBytes(finalData)
}

func (s *RefImageSource) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, "gs://") {
		if s.reader == nil {
			return nil, fmt.Errorf("gs:// の取得は設定されていません")
		}
		rc, err := s.reader.Open(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}

	if s.httpClient == nil {
		return nil, fmt.Errorf("http(s) の取得は設定されていません")
	}
	// SSRF検証はクライアント側のユーティリティに委譲する
	safe, err := s.httpClient.IsSafeURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("URLの安全性検証に失敗しました: %w", err)
	}
	if !safe {
		return nil, fmt.Errorf("安全ではないURLが指定されました: %s", rawURL)
	}
	return s.httpClient.FetchBytes(ctx, rawURL)
}

// PartFromBytes はバイト列を genai.Part (InlineData) に変換します。
// 画像でないデータは nil になります。
func PartFromBytes(data []byte) *genai.Part {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		slog.Warn("MIMEタイプが画像ではないためPartに変換できませんでした", "detected_mime_type", mimeType)
		return nil
	}
	return &genai.Part{
		InlineData: &genai.Blob{
			MIMEType: mimeType,
			Data:     data,
		},
	}
}
