package export

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/slide-deck-kit/pkg/domain"
	"github.com/shouni/slide-deck-kit/pkg/imgutil"
)

const exportJPEGQuality = 90

// Exporter は完成したデッキを成果物として書き出す境界です。
// ページレイアウトやフォント埋め込みといった整形はこの境界の外側の関心事です。
type Exporter interface {
	Export(ctx context.Context, deck domain.Deck, productName string) (string, error)
}

// DirExporter はスライドを JPEG ファイルとしてディレクトリへ書き出す実装です。
type DirExporter struct {
	baseDir string
}

// NewDirExporter は書き出し先のベースディレクトリを指定して初期化します。
func NewDirExporter(baseDir string) *DirExporter {
	if baseDir == "" {
		baseDir = "decks"
	}
	return &DirExporter{baseDir: baseDir}
}

// Export はデッキを <baseDir>/<product>/ 配下へ書き出し、そのパスを返します。
// Position 0 は cover.jpg、それ以外は slide-NN.jpg になります。
// あわせてブラウザ閲覧用の index.html を同じディレクトリへ書き出します。
func (e *DirExporter) Export(ctx context.Context, deck domain.Deck, productName string) (string, error) {
	if len(deck) == 0 {
		return "", fmt.Errorf("デッキが空のため書き出せません")
	}

	dir := filepath.Join(e.baseDir, sanitizeName(productName))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("出力ディレクトリの作成に失敗しました: %w", err)
	}

	previews := make([]preview, 0, len(deck))
	for _, artifact := range deck {
		data := artifact.Data
		if artifact.MimeType != "image/jpeg" {
			if converted, err := imgutil.CompressToJPEG(artifact.Data, exportJPEGQuality); err == nil {
				data = converted
			} else {
				slog.WarnContext(ctx, "JPEG変換に失敗したため元データのまま書き出します",
					"position", artifact.Position, "mime_type", artifact.MimeType, "error", err)
			}
		}

		name := "cover.jpg"
		if artifact.Position > 0 {
			name = fmt.Sprintf("slide-%02d.jpg", artifact.Position)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return "", fmt.Errorf("スライドの書き出しに失敗しました (%s): %w", name, err)
		}
		previews = append(previews, preview{data: data, alt: artifact.AltText})
	}

	if err := e.writeIndex(dir, productName, previews); err != nil {
		return "", err
	}
	return dir, nil
}

type preview struct {
	data []byte
	alt  string
}

// writeIndex はブラウザでそのまま開けるプレビュー用の index.html を書き出します。
// 画像は data: URI で埋め込むため、ディレクトリ単体で完結します。
func (e *DirExporter) writeIndex(dir, productName string, previews []preview) error {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(productName))
	b.WriteString("<style>body{background:#1f2430;margin:0;padding:24px}" +
		".grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(320px,1fr));gap:16px}" +
		".grid img{width:100%;border-radius:8px}</style>\n")
	b.WriteString("</head>\n<body>\n<div class=\"grid\">\n")
	for _, p := range previews {
		fmt.Fprintf(&b, "<img src=\"%s\" alt=\"%s\">\n",
			imgutil.EncodeDataURI(p.data, "image/jpeg"), html.EscapeString(p.alt))
	}
	b.WriteString("</div>\n</body>\n</html>\n")

	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("プレビューの書き出しに失敗しました: %w", err)
	}
	return nil
}

// sanitizeName は商品名をファイルシステムで安全なディレクトリ名へ変換します。
func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "deck"
	}
	return b.String()
}
