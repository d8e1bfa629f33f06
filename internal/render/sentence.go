package render

import "strings"

// sentenceEnd 判断 r 是否是句子终结符（中英文标点都认）。
func sentenceEnd(r rune) bool {
	switch r {
	case '。', '！', '？', '；', '.', '!', '?', ';':
		return true
	}
	return false
}

// splitSentences 把概要切成要点列表：先按行拆，再在行内按终结符拆，
// 终结符保留在句尾。空白片段丢弃；没有任何终结符的一行整体算一句。
func splitSentences(synopsis string) []string {
	var out []string
	for _, line := range strings.Split(synopsis, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var b strings.Builder
		for _, r := range line {
			b.WriteRune(r)
			if sentenceEnd(r) {
				if s := strings.TrimSpace(b.String()); s != "" {
					out = append(out, s)
				}
				b.Reset()
			}
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}
