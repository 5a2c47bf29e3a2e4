package question

import (
	"fmt"
	"regexp"
	"strings"
)

var codeBlockRe = regexp.MustCompile("(?s)```(.*?)```")

// AnnotateCode tags every fenced code block in text with the given language
// hint so renderers can highlight it. Blocks that already start with the hint
// are left alone.
func AnnotateCode(text, lang string) string {
	if lang == "" {
		return text
	}
	return codeBlockRe.ReplaceAllStringFunc(text, func(block string) string {
		inner := strings.TrimSuffix(strings.TrimPrefix(block, "```"), "```")
		if strings.HasPrefix(strings.TrimSpace(inner), lang+"\n") {
			return block
		}
		return fmt.Sprintf("\n```%s\n%s\n```", lang, strings.TrimSpace(inner))
	})
}
