package render

import "strings"

var asciiReplacer = strings.NewReplacer(
	"…", "...",
	"↔", "<->",
	"—", "-",
	"–", "-",
)

// ASCII rewrites the few non-ASCII glyphs the renderer emits for canvases
// whose font only covers ASCII. Other runes become '?'.
func ASCII(s string) string {
	s = asciiReplacer.Replace(s)
	for _, r := range s {
		if r >= 0x80 {
			return strings.Map(func(r rune) rune {
				if r >= 0x80 {
					return '?'
				}
				return r
			}, s)
		}
	}
	return s
}
