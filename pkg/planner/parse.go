package planner

import "strings"

// subjectQuoteCutset は題材を包んでいる可能性のある引用符類です。
const subjectQuoteCutset = "\"'“”‘’`"

// ParseSubjects はカンマ・改行区切りの上流応答を題材リストへ正規化します。
// 空要素は捨て、初出順を保ったまま重複を除きます（大文字小文字は同一視）。
func ParseSubjects(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	seen := make(map[string]struct{}, len(fields))
	var subjects []string
	for _, field := range fields {
		subject := strings.TrimSpace(field)
		subject = strings.Trim(subject, subjectQuoteCutset)
		subject = strings.TrimSpace(subject)
		if subject == "" {
			continue
		}

		key := strings.ToLower(subject)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		subjects = append(subjects, subject)
	}
	return subjects
}
