package bible

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// citation is the grammar for "Book Chapter:Verse".
type citation struct {
	Book    string `parser:"@Book"`
	Chapter int    `parser:"@Number"`
	Verse   int    `parser:"Colon @Number"`
}

var citationLexer = lexer.MustSimple([]lexer.SimpleRule{
	// English names with an optional leading ordinal ("1 John", "Song of Songs"),
	// or a run of Han characters ("約翰福音").
	{Name: "Book", Pattern: `(?:\d\s*)?[A-Za-z]+(?:\s+(?:of\s+)?[A-Za-z]+)*\.?|\p{Han}+`},
	{Name: "Number", Pattern: `\d+`},
	{Name: "Colon", Pattern: `[:：]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var citationParser = participle.MustBuild[citation](
	participle.Lexer(citationLexer),
	participle.Elide("Whitespace"),
)

var (
	numericKey     = regexp.MustCompile(`^(\d+)\s*[:.]\s*(\d+)\s*[:.]\s*(\d+)$`)
	dotAfterName   = regexp.MustCompile(`([^\d\s])\.(\d)`)
	dotBetweenNums = regexp.MustCompile(`(\d)\.(\d)`)
)

// ParseKey accepts "27:2:44", "Daniel 2:44", "Dan 2:44", "Dan.2.44" or
// "但以理書 2:44" and returns a validated key.
func ParseKey(input string) (Key, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Key{}, fmt.Errorf("%w: empty reference", ErrInvalidKey)
	}

	if m := numericKey.FindStringSubmatch(s); m != nil {
		b, _ := strconv.Atoi(m[1])
		c, _ := strconv.Atoi(m[2])
		v, _ := strconv.Atoi(m[3])
		k := Key{Book: b, Chapter: c, Verse: v}
		return k, k.Validate()
	}

	s = dotAfterName.ReplaceAllString(s, "$1 $2")
	s = dotBetweenNums.ReplaceAllString(s, "$1:$2")

	ast, err := citationParser.ParseString("", s)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q: %v", ErrInvalidKey, input, err)
	}

	book, ok := LookupBook(ast.Book)
	if !ok {
		return Key{}, fmt.Errorf("%w: unknown book %q", ErrInvalidKey, ast.Book)
	}
	k := Key{Book: book, Chapter: ast.Chapter, Verse: ast.Verse}
	return k, k.Validate()
}

// ParseKeys parses every argument, stopping at the first bad one.
func ParseKeys(inputs []string) ([]Key, error) {
	keys := make([]Key, 0, len(inputs))
	for _, in := range inputs {
		k, err := ParseKey(in)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
