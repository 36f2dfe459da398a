package goody

import (
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"

	"apack/common"
)

// region is a construct which may span several lines (block comment, multi
// line string). Header lines are never recognized inside of one.
type region struct {
	open, close string
	escapes     bool
}

// headerRule describes header syntax of a single language.
type headerRule struct {
	// isHeader is called with a line which has no indentation and no trailing
	// whitespace and reports whether it is a complete import declaration.
	isHeader func(line string) bool
	regions  []region
	comment  string
	quotes   string
}

var (
	cFamilyRegions = []region{{open: "/*", close: "*/"}, {open: `"""`, close: `"""`, escapes: true}}
	ecmaRegions    = []region{{open: "/*", close: "*/"}, {open: "`", close: "`", escapes: true}}
	pythonRegions  = []region{{open: `"""`, close: `"""`, escapes: true}, {open: `'''`, close: `'''`, escapes: true}}
)

// headerRules has one entry per supported language. Language without an
// entry has no headers - everything is body.
var headerRules = map[common.Language]headerRule{
	common.LanguageJava:       {isHeader: javaImport.MatchString, regions: cFamilyRegions, comment: "//", quotes: `"'`},
	common.LanguageKotlin:     {isHeader: kotlinImport.MatchString, regions: cFamilyRegions, comment: "//", quotes: `"'`},
	common.LanguagePython3:    {isHeader: isPythonImport, regions: pythonRegions, comment: "#", quotes: `"'`},
	common.LanguageJavascript: {isHeader: isECMAImport, regions: ecmaRegions, comment: "//", quotes: `"'`},
	common.LanguageTypescript: {isHeader: isECMAImport, regions: ecmaRegions, comment: "//", quotes: `"'`},
}

const (
	javaIdent   = `[\p{L}_$][\p{L}\p{N}_$]*`
	kotlinIdent = "(?:[\\p{L}_][\\p{L}\\p{N}_]*|`[^`]+`)"
	pyIdent     = `[\p{L}_][\p{L}\p{N}_]*`
	pyDotted    = pyIdent + `(?:\s*\.\s*` + pyIdent + `)*`
	pyAlias     = `(?:\s+as\s+` + pyIdent + `)?`
	pyNames     = pyIdent + pyAlias + `(?:\s*,\s*` + pyIdent + pyAlias + `)*`
)

var (
	javaImport = regexp.MustCompile(`^import\s+(?:static\s+)?` + javaIdent +
		`(?:\s*\.\s*` + javaIdent + `)*(?:\s*\.\s*\*)?\s*;(?:\s*//.*)?$`)

	kotlinImport = regexp.MustCompile(`^import\s+` + kotlinIdent +
		`(?:\s*\.\s*` + kotlinIdent + `)*(?:\s*\.\s*\*|\s+as\s+` + kotlinIdent + `)?\s*;?(?:\s*//.*)?$`)

	pythonImport = regexp.MustCompile(`^import\s+` + pyDotted + pyAlias +
		`(?:\s*,\s*` + pyDotted + pyAlias + `)*\s*;?(?:\s*#.*)?$`)

	pythonFromImport = regexp.MustCompile(`^from\s+(?:\.+\s*(?:` + pyDotted + `)?|` + pyDotted + `)\s+import\s+` +
		`(?:\*|` + pyNames + `|\(\s*` + pyNames + `\s*,?\s*\))\s*;?(?:\s*#.*)?$`)
)

func isPythonImport(line string) bool {
	return pythonImport.MatchString(line) || pythonFromImport.MatchString(line)
}

// isECMAImport accepts static import declarations which fit on one line.
// Dynamic import() and import.meta are expressions and stay in the body.
func isECMAImport(line string) bool {
	if !strings.HasPrefix(line, "import") {
		return false
	}

	var (
		l          = js.NewLexer(parse.NewInputString(line))
		prev       = js.ErrorToken
		depth      int
		haveModule bool
		ended      bool
	)
	for {
		tt, data := l.Next()
		switch tt {
		case js.ErrorToken:
			return l.Err() == io.EOF && haveModule && depth == 0
		case js.WhitespaceToken, js.LineTerminatorToken, js.CommentToken, js.CommentLineTerminatorToken:
			continue
		}

		switch {
		case prev == js.ErrorToken:
			if tt != js.ImportToken {
				return false
			}
		case prev == js.ImportToken && (tt == js.OpenParenToken || tt == js.DotToken):
			return false
		case ended:
			// only one statement per header line
			return false
		case haveModule && depth == 0:
			switch {
			case tt == js.SemicolonToken:
				ended = true
			case tt == js.OpenBraceToken, tt == js.CloseParenToken:
			case string(data) == "with" || string(data) == "assert":
			default:
				return false
			}
		}

		switch tt {
		case js.OpenBraceToken:
			depth++
		case js.CloseBraceToken:
			depth--
		case js.StringToken:
			if depth == 0 {
				haveModule = true
			}
		}
		prev = tt
	}
}

// header checks whether line is a header line and returns it without
// trailing whitespace. Indented lines are never headers.
func (r *headerRule) header(line string) (string, bool) {
	if r.isHeader == nil {
		return "", false
	}
	first, _ := utf8.DecodeRuneInString(line)
	if line == "" || unicode.IsSpace(first) {
		return "", false
	}
	line = strings.TrimRightFunc(line, unicode.IsSpace)
	if !r.isHeader(line) {
		return "", false
	}
	return line, true
}

// advance scans line and returns index of the region which is still open at
// its end or -1. inside is the region open at the start of the line.
func (r *headerRule) advance(line string, inside int) int {
	for i := 0; i < len(line); {
		if inside >= 0 {
			reg := r.regions[inside]
			if reg.escapes && line[i] == '\\' {
				i += 2
				continue
			}
			if strings.HasPrefix(line[i:], reg.close) {
				i += len(reg.close)
				inside = -1
				continue
			}
			i++
			continue
		}
		if r.comment != "" && strings.HasPrefix(line[i:], r.comment) {
			return -1
		}
		if k := r.opens(line[i:]); k >= 0 {
			inside = k
			i += len(r.regions[k].open)
			continue
		}
		if strings.IndexByte(r.quotes, line[i]) >= 0 {
			i = skipQuoted(line, i)
			continue
		}
		i++
	}
	return inside
}

func (r *headerRule) opens(s string) int {
	for k, reg := range r.regions {
		if strings.HasPrefix(s, reg.open) {
			return k
		}
	}
	return -1
}

// skipQuoted returns position right after single line string literal which
// starts at i. Unterminated literal runs to the end of line.
func skipQuoted(line string, i int) int {
	q := line[i]
	for j := i + 1; j < len(line); j++ {
		switch line[j] {
		case '\\':
			j++
		case q:
			return j + 1
		}
	}
	return len(line)
}
