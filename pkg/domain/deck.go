package domain

import "strings"

// DeckRequest は1回のスライドデッキ生成要求です。
// ReferenceURL / ReferenceData / Seed は生成の見た目にのみ影響するオプションで、
// キャッシュの同一性判定には含めません。
type DeckRequest struct {
	ProductName   string
	Audience      string
	ReferenceURL  string // スタイル参照画像の取得元 (http(s):// または gs://)
	ReferenceData []byte // 参照画像をバイト列で直接渡す場合に指定
	Seed          *int64 // nil でランダム。参照画像付き生成でのみ有効
}

// RequestKey は正規化済みのキャッシュキーです。
// 文字列連結によるキーは区切り文字の衝突があり得るため、構造体キーを採用しています。
type RequestKey struct {
	Product  string
	Audience string
}

// Key は前後の空白を除去し小文字化した RequestKey を返します。
func (r DeckRequest) Key() RequestKey {
	return RequestKey{
		Product:  strings.ToLower(strings.TrimSpace(r.ProductName)),
		Audience: strings.ToLower(strings.TrimSpace(r.Audience)),
	}
}

// SlidePrompt は1枚のスライドに対する描画指示です。Position 0 は表紙を表します。
type SlidePrompt struct {
	Position int
	Text     string
	Subject  string // 表紙の場合は空
}

// PlanResult はトピック立案の結果です。Prompts は Position 昇順で、
// 長さは常に「題材数 + 1 (表紙)」になります。
type PlanResult struct {
	Prompts        []SlidePrompt
	UsedFallback   bool
	FallbackReason string
}

// SlideArtifact は生成済みの1枚のスライド画像です。生成後は不変として扱います。
type SlideArtifact struct {
	Position int
	Data     []byte
	MimeType string
	AltText  string // 元プロンプト本文をそのまま保持する
}

// Deck は Position 昇順に整列したスライド列です。
// 生成に失敗した位置は詰めて除かれますが、残った要素の相対順序は保たれます。
type Deck []SlideArtifact

// GenerationOutcome は1回の生成の最終結果です。
// 一部のスライドだけが失敗した場合もエラーにはせず、件数と先頭の失敗理由を載せます。
type GenerationOutcome struct {
	Deck                Deck
	FallbackNotice      string
	PartialFailureCount int
	FirstFailureMessage string
}
