package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Line rules
	StyLineTooLong       Code = 1001
	StyTrailingSpace     Code = 1002
	StyNonASCIILine      Code = 1003
	StyConsecutiveBlanks Code = 1004
	StyTab               Code = 1005
	StyBadCite           Code = 1006
	StyDefineSpaces      Code = 1007
	StyIncludeSpaces     Code = 1008
	StyFabs              Code = 1009
	StyAsserts           Code = 1010
	StyPragma            Code = 1011

	// Whole-file rules
	StyNonASCIIByte Code = 1012

	// Project rules
	PrjInconsistentVersion Code = 2001
)

var (
	codeMessage = map[Code]string{
		UnknownCode:            "unknown violation",
		StyLineTooLong:         "line too long",
		StyTrailingSpace:       "line ends with white space",
		StyNonASCIILine:        "non-ASCII character",
		StyConsecutiveBlanks:   "consecutive blank lines",
		StyTab:                 "tab found",
		StyBadCite:             "badly formatted cite command",
		StyDefineSpaces:        "#define contains spaces",
		StyIncludeSpaces:       "#include contains spaces",
		StyFabs:                "found fabs()",
		StyAsserts:             "found assert()",
		StyPragma:              "found pragma",
		StyNonASCIIByte:        "non-ASCII character",
		PrjInconsistentVersion: "inconsistent version numbers",
	}

	codeTitle = map[Code]string{
		StyLineTooLong:         "line exceeds the maximum length",
		StyTrailingSpace:       "trailing white space",
		StyNonASCIILine:        "code point above 127 in line",
		StyConsecutiveBlanks:   "two or more blank lines in a row",
		StyTab:                 "horizontal tab",
		StyBadCite:             "line ends with \\cite",
		StyDefineSpaces:        "space between # and define",
		StyIncludeSpaces:       "space between # and include",
		StyFabs:                "use of fabs",
		StyAsserts:             "use of asserts",
		StyPragma:              "use of pragma",
		StyNonASCIIByte:        "byte above 127 in file",
		PrjInconsistentVersion: "version header, Doxyfile and README disagree",
	}
)

// Codes returns every known rule code in ascending order.
func Codes() []Code {
	return []Code{
		StyLineTooLong, StyTrailingSpace, StyNonASCIILine, StyConsecutiveBlanks,
		StyTab, StyBadCite, StyDefineSpaces, StyIncludeSpaces, StyFabs,
		StyAsserts, StyPragma, StyNonASCIIByte, PrjInconsistentVersion,
	}
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("S%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("P%04d", ic)
	}
	return "E0000"
}

// Message is the text printed for a violation of this rule.
func (c Code) Message() string {
	msg, ok := codeMessage[c]
	if !ok {
		return codeMessage[UnknownCode]
	}
	return msg
}

func (c Code) Title() string {
	if title, ok := codeTitle[c]; ok {
		return title
	}
	return c.Message()
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
