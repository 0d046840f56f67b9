package bible

import (
	"errors"
	"fmt"
)

// ErrInvalidKey is returned for keys outside the canonical numbering.
var ErrInvalidKey = errors.New("invalid verse key")

// Key identifies a single verse.
type Key struct {
	Book    int
	Chapter int
	Verse   int
}

// String renders the key as "B C:V", the form used in error log lines.
func (k Key) String() string {
	return fmt.Sprintf("%d %d:%d", k.Book, k.Chapter, k.Verse)
}

// Validate checks the book range and that chapter and verse are positive.
func (k Key) Validate() error {
	if k.Book < 1 || k.Book > len(Books) {
		return fmt.Errorf("%w: book %d", ErrInvalidKey, k.Book)
	}
	if k.Chapter < 1 || k.Verse < 1 {
		return fmt.Errorf("%w: %d:%d", ErrInvalidKey, k.Chapter, k.Verse)
	}
	return nil
}

// OldTestament reports whether the verse belongs to books 1..39.
func (k Key) OldTestament() bool {
	return k.Book < 40
}

// SourceLanguage names the original language of the interlinear text.
func (k Key) SourceLanguage() string {
	if k.OldTestament() {
		return "Hebrew"
	}
	return "Greek"
}

// Format returns a human-readable citation such as "Daniel 2:44" or "但以理書 2:44".
func Format(k Key, lang Language) string {
	return fmt.Sprintf("%s %d:%d", BookName(k.Book, lang), k.Chapter, k.Verse)
}
