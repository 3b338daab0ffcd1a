// Package highlight turns syntax structure into text properties: it
// parses buffer content with tree-sitter and writes a `face` property
// over each captured span through the property store. It is the main
// producer of property load in the viewer.
package highlight

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/kobzarvs/textspan/internal/intervals"
	"github.com/kobzarvs/textspan/internal/logger"
	"github.com/kobzarvs/textspan/internal/textprop"
	"github.com/kobzarvs/textspan/internal/textstore"
)

// FaceProp is the property key the annotator writes.
const FaceProp = "face"

// Annotator parses one language and applies face properties.
type Annotator struct {
	language string
	parser   *sitter.Parser
	query    *sitter.Query
}

// DetectLanguage maps a file name to a supported language, or "".
func DetectLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	default:
		return ""
	}
}

// New creates an annotator for the named language. Only "go" is wired up;
// other names yield an error so callers can fall back to plain text.
func New(language string) (*Annotator, error) {
	var lang *sitter.Language
	var querySrc string
	switch language {
	case "go":
		lang = golang.GetLanguage()
		querySrc = goHighlightQuery
	default:
		return nil, fmt.Errorf("highlight: unsupported language %q", language)
	}

	p := sitter.NewParser()
	p.SetLanguage(lang)
	q, err := sitter.NewQuery([]byte(querySrc), lang)
	if err != nil {
		return nil, err
	}
	return &Annotator{language: language, parser: p, query: q}, nil
}

// Language returns the annotator's language name.
func (a *Annotator) Language() string { return a.language }

// Annotate parses the buffer and applies face properties to every
// captured span, replacing whatever faces the previous pass left behind.
func (a *Annotator) Annotate(buf *textstore.Buffer) error {
	src := []byte(buf.Contents())
	tree, err := a.parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return err
	}
	defer tree.Close()

	// Byte offsets from tree-sitter must become 1-based character
	// positions before they can address intervals.
	toPos := bytePositions(src)

	lo, hi := buf.Bounds()
	if _, err := textprop.EraseProperties(buf, lo, hi); err != nil {
		return err
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(a.query, tree.RootNode())

	applied := 0
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, src)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			kind := a.query.CaptureNameForId(capture.Index)
			start := toPos[capture.Node.StartByte()]
			end := toPos[capture.Node.EndByte()]
			if end <= start {
				continue
			}
			pl := intervals.MustPlist(FaceProp, intervals.Sym(kind))
			if _, err := textprop.SetProperties(buf, start, end, pl); err != nil {
				return err
			}
			applied++
		}
	}
	logger.Debug("annotated buffer", "name", buf.Name(), "spans", applied)
	return nil
}

// bytePositions maps every byte offset of src (and the end offset) to the
// 1-based character position it belongs to.
func bytePositions(src []byte) []int {
	pos := make([]int, len(src)+1)
	p := 1
	for i := 0; i < len(src); {
		n := runeLen(src[i])
		for j := 0; j < n && i < len(src); j++ {
			pos[i] = p
			i++
		}
		p++
	}
	pos[len(src)] = p
	return pos
}

// runeLen returns the encoded length of the UTF-8 sequence starting with b.
func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

const goHighlightQuery = `
((comment) @comment)
((interpreted_string_literal) @string)
((raw_string_literal) @string)
((rune_literal) @string)
((escape_sequence) @string)
((int_literal) @number)
((float_literal) @number)
((imaginary_literal) @number)
[
  "break" "case" "chan" "const" "continue" "default" "defer" "else"
  "fallthrough" "for" "func" "go" "goto" "if" "import" "interface"
  "map" "package" "range" "return" "select" "struct" "switch"
  "type" "var"
] @keyword
((nil) @constant)
((true) @constant)
((false) @constant)
((iota) @constant)
((identifier) @type (#match? @type "^(bool|byte|rune|string|int|int8|int16|int32|int64|uint|uint8|uint16|uint32|uint64|uintptr|float32|float64|complex64|complex128|error|any|comparable)$"))
((identifier) @builtin (#match? @builtin "^(append|cap|clear|close|complex|copy|delete|imag|len|make|max|min|new|panic|print|println|real|recover)$"))
((type_spec name: (type_identifier) @type))
((type_identifier) @type)
((function_declaration name: (identifier) @function))
((method_declaration name: (field_identifier) @function))
((call_expression function: (identifier) @function))
((call_expression function: (selector_expression field: (field_identifier) @function)))
`
