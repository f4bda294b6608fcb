package formatters

import "regexp"

var ansiEscapes = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// RemoveAllANSISeq strips ANSI color sequences from str.
func RemoveAllANSISeq(str string) string {
	return ansiEscapes.ReplaceAllString(str, "")
}
