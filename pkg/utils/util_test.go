package utils

import (
	"testing"
)

func TestSeedUtils(t *testing.T) {
	t.Run("DereferenceSeed: nil の場合は 0 を返すのだ", func(t *testing.T) {
		if got := DereferenceSeed(nil); got != 0 {
			t.Errorf("expected 0, got %v", got)
		}
	})

	t.Run("DereferenceSeed: 値がある場合はその値を返すのだ", func(t *testing.T) {
		var val int64 = 999
		if got := DereferenceSeed(&val); got != 999 {
			t.Errorf("expected 999, got %v", got)
		}
	})

	t.Run("SeedToPtrInt32: nil は nil のままなのだ", func(t *testing.T) {
		if got := SeedToPtrInt32(nil); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("SeedToPtrInt32: 値は int32 へ変換されるのだ", func(t *testing.T) {
		var val int64 = 1234
		got := SeedToPtrInt32(&val)
		if got == nil || *got != 1234 {
			t.Errorf("expected 1234, got %v", got)
		}
	})
}
