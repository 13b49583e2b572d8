package lexer

import "strings"

// StripComments blanks out `#` line comments and `/* */` block comments.
// Newlines inside comments are kept so token positions still match the
// original source. An unterminated block comment runs to the end of input.
func StripComments(src string) string {
	var out strings.Builder
	out.Grow(len(src))

	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		switch {
		case runes[i] == '#':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			if i < len(runes) {
				out.WriteRune('\n')
			}
		case runes[i] == '/' && i+1 < len(runes) && runes[i+1] == '*':
			out.WriteString("  ")
			i += 2
			for i < len(runes) && !(runes[i] == '*' && i+1 < len(runes) && runes[i+1] == '/') {
				if runes[i] == '\n' {
					out.WriteRune('\n')
				} else {
					out.WriteRune(' ')
				}
				i++
			}
			if i < len(runes) {
				out.WriteString("  ")
			}
			// skip the closing "*/"
			i++
		default:
			out.WriteRune(runes[i])
		}
	}
	return out.String()
}
