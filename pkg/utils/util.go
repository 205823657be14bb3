package utils

// DereferenceSeed は、int64のポインタを安全にデリファレンスします。
// ポインタがnilの場合は0を返します。
func DereferenceSeed(seed *int64) int64 {
	if seed == nil {
		return 0
	}
	return *seed
}

// SeedToPtrInt32 は *int64 のシード値を Gemini SDK が期待する *int32 へ変換します。
// int32 の範囲を超える値は上位ビットが切り捨てられますが、
// シードの再現性という用途上はそれで問題ありません。
func SeedToPtrInt32(seed *int64) *int32 {
	if seed == nil {
		return nil
	}
	v := int32(DereferenceSeed(seed))
	return &v
}
