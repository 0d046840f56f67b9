package bible

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

var (
	taggers   = map[Language]*regexp.Regexp{}
	taggersMu sync.Mutex

	existingRef = regexp.MustCompile(`(?s)<ref[^>]*>.*?</ref>`)
)

func tagger(lang Language) *regexp.Regexp {
	taggersMu.Lock()
	defer taggersMu.Unlock()
	if re, ok := taggers[lang]; ok {
		return re
	}

	var names []string
	for _, b := range Books {
		if lang == TraditionalChinese {
			names = append(names, b.Chinese)
		} else {
			names = append(names, b.Name)
		}
	}
	if lang != TraditionalChinese {
		names = append(names, "Psalm", "Song of Solomon")
	}
	// Longest first so "1 John" wins over "John".
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	for i, n := range names {
		names[i] = regexp.QuoteMeta(n)
	}

	alt := strings.Join(names, "|")
	var re *regexp.Regexp
	if lang == TraditionalChinese {
		re = regexp.MustCompile(`(` + alt + `)\s*(\d+)[:：](\d+)(?:-\d+)?`)
	} else {
		re = regexp.MustCompile(`\b(` + alt + `)\s+(\d+):(\d+)(?:-\d+)?`)
	}
	taggers[lang] = re
	return re
}

// TagReferences wraps verse citations in text with
// <ref onclick="bcv(B,C,V)">...</ref> markup. Ranges link to their first
// verse. Citations already inside a <ref> element are left alone.
func TagReferences(text string, lang Language) string {
	re := tagger(lang)

	var sb strings.Builder
	last := 0
	for _, loc := range existingRef.FindAllStringIndex(text, -1) {
		sb.WriteString(tagSegment(re, text[last:loc[0]], lang))
		sb.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	sb.WriteString(tagSegment(re, text[last:], lang))
	return sb.String()
}

func tagSegment(re *regexp.Regexp, seg string, lang Language) string {
	return re.ReplaceAllStringFunc(seg, func(match string) string {
		m := re.FindStringSubmatch(match)
		book, ok := LookupBook(m[1])
		if !ok {
			return match
		}
		c, _ := strconv.Atoi(m[2])
		v, _ := strconv.Atoi(m[3])
		return fmt.Sprintf(`<ref onclick="bcv(%d,%d,%d)">%s</ref>`, book, c, v, match)
	})
}
