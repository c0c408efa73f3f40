package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"srccheck/internal/diag"
)

// Word boundaries and white space are Unicode-aware: letters and digits of
// any script are word characters, and the space class is the one
// endsWithSpace accepts.
const (
	spaceClass = `[\t\n\v\f\r\x{1c}-\x{1f} \x{85}\p{Z}]`
	nonWord    = `[^\p{L}\p{N}_]`
)

var (
	defineSpacesRe  = regexp.MustCompile(`#` + spaceClass + `+define`)
	includeSpacesRe = regexp.MustCompile(`#` + spaceClass + `+include`)
	fabsRe          = wordRe("fabs")
	assertsRe       = wordRe("asserts")
	pragmaRe        = wordRe("pragma")
)

func wordRe(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|` + nonWord + `)` + word + `(?:` + nonWord + `|$)`)
}

// lineRule is a stateless check of a single line.
type lineRule struct {
	code  diag.Code
	match func(line string, opts Options) bool
}

// Rules before and after the blank-line check, in report order.
var (
	leadingRules = []lineRule{
		{diag.StyLineTooLong, func(line string, opts Options) bool {
			limit := opts.MaxLineLength
			if limit <= 0 {
				limit = DefaultMaxLineLength
			}
			return opts.lineLength(line) > limit
		}},
		{diag.StyTrailingSpace, func(line string, _ Options) bool { return endsWithSpace(line) }},
		{diag.StyNonASCIILine, func(line string, _ Options) bool { return hasNonASCII(line) }},
	}
	trailingRules = []lineRule{
		{diag.StyTab, func(line string, _ Options) bool { return strings.ContainsRune(line, '\t') }},
		{diag.StyBadCite, func(line string, _ Options) bool { return strings.HasSuffix(line, `\cite`) }},
		{diag.StyDefineSpaces, func(line string, _ Options) bool { return defineSpacesRe.MatchString(line) }},
		{diag.StyIncludeSpaces, func(line string, _ Options) bool { return includeSpacesRe.MatchString(line) }},
		{diag.StyFabs, func(line string, _ Options) bool { return fabsRe.MatchString(line) }},
		{diag.StyAsserts, func(line string, _ Options) bool { return assertsRe.MatchString(line) }},
		{diag.StyPragma, func(line string, _ Options) bool { return pragmaRe.MatchString(line) }},
	}
)

// ScanText checks every line of one file and reports each matching rule.
// A single line may produce several diagnostics. The blank-line state is
// local to this call.
func ScanText(path string, lines []string, r diag.Reporter, opts Options) {
	prevEmpty := false
	for i, line := range lines {
		n, err := safecast.Conv[uint32](i + 1)
		if err != nil {
			panic(fmt.Errorf("line number overflow: %w", err))
		}
		for _, rule := range leadingRules {
			if rule.match(line, opts) {
				diag.ReportCode(r, rule.code, path, n)
			}
		}
		if line == "" {
			if prevEmpty {
				diag.ReportCode(r, diag.StyConsecutiveBlanks, path, n)
			}
			prevEmpty = true
		} else {
			prevEmpty = false
		}
		for _, rule := range trailingRules {
			if rule.match(line, opts) {
				diag.ReportCode(r, rule.code, path, n)
			}
		}
	}
}

func endsWithSpace(line string) bool {
	if line == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(line)
	// U+001F counts as white space for str.isspace-style matching
	return unicode.IsSpace(last) || (last >= 0x1c && last <= 0x1f)
}

func hasNonASCII(line string) bool {
	for _, r := range line {
		if r > unicode.MaxASCII {
			return true
		}
	}
	return false
}
