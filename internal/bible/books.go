// Package bible holds the canonical 66-book numbering used by every
// reference database, plus citation formatting and parsing.
package bible

import (
	"fmt"
	"strings"
)

// Language selects book names for citations.
type Language string

const (
	English            Language = "en"
	TraditionalChinese Language = "zh"
)

// Book is one entry of the canonical Protestant canon (1..66).
type Book struct {
	Number  int
	Name    string
	Chinese string
	Abbrevs []string
}

// Books is indexed by Number-1.
var Books = []Book{
	{1, "Genesis", "創世記", []string{"gen", "ge", "gn"}},
	{2, "Exodus", "出埃及記", []string{"exod", "exo", "ex"}},
	{3, "Leviticus", "利未記", []string{"lev", "le", "lv"}},
	{4, "Numbers", "民數記", []string{"num", "nu", "nm"}},
	{5, "Deuteronomy", "申命記", []string{"deut", "deu", "dt"}},
	{6, "Joshua", "約書亞記", []string{"josh", "jos"}},
	{7, "Judges", "士師記", []string{"judg", "jdg"}},
	{8, "Ruth", "路得記", []string{"ru", "rth"}},
	{9, "1 Samuel", "撒母耳記上", []string{"1sam", "1sa"}},
	{10, "2 Samuel", "撒母耳記下", []string{"2sam", "2sa"}},
	{11, "1 Kings", "列王紀上", []string{"1kgs", "1ki"}},
	{12, "2 Kings", "列王紀下", []string{"2kgs", "2ki"}},
	{13, "1 Chronicles", "歷代志上", []string{"1chr", "1ch"}},
	{14, "2 Chronicles", "歷代志下", []string{"2chr", "2ch"}},
	{15, "Ezra", "以斯拉記", []string{"ezr"}},
	{16, "Nehemiah", "尼希米記", []string{"neh", "ne"}},
	{17, "Esther", "以斯帖記", []string{"esth", "est"}},
	{18, "Job", "約伯記", []string{"jb"}},
	{19, "Psalms", "詩篇", []string{"ps", "psa", "psalm", "pss"}},
	{20, "Proverbs", "箴言", []string{"prov", "pro", "prv"}},
	{21, "Ecclesiastes", "傳道書", []string{"eccl", "ecc", "qoh"}},
	{22, "Song of Songs", "雅歌", []string{"song", "sos", "songofsolomon", "canticles"}},
	{23, "Isaiah", "以賽亞書", []string{"isa"}},
	{24, "Jeremiah", "耶利米書", []string{"jer"}},
	{25, "Lamentations", "耶利米哀歌", []string{"lam"}},
	{26, "Ezekiel", "以西結書", []string{"ezek", "eze"}},
	{27, "Daniel", "但以理書", []string{"dan", "da", "dn"}},
	{28, "Hosea", "何西阿書", []string{"hos"}},
	{29, "Joel", "約珥書", []string{"jl"}},
	{30, "Amos", "阿摩司書", []string{"am"}},
	{31, "Obadiah", "俄巴底亞書", []string{"obad", "oba", "ob"}},
	{32, "Jonah", "約拿書", []string{"jon", "jnh"}},
	{33, "Micah", "彌迦書", []string{"mic"}},
	{34, "Nahum", "那鴻書", []string{"nah"}},
	{35, "Habakkuk", "哈巴谷書", []string{"hab"}},
	{36, "Zephaniah", "西番雅書", []string{"zeph", "zep"}},
	{37, "Haggai", "哈該書", []string{"hag"}},
	{38, "Zechariah", "撒迦利亞書", []string{"zech", "zec"}},
	{39, "Malachi", "瑪拉基書", []string{"mal"}},
	{40, "Matthew", "馬太福音", []string{"matt", "mat", "mt"}},
	{41, "Mark", "馬可福音", []string{"mrk", "mk"}},
	{42, "Luke", "路加福音", []string{"luk", "lk"}},
	{43, "John", "約翰福音", []string{"joh", "jn"}},
	{44, "Acts", "使徒行傳", []string{"act"}},
	{45, "Romans", "羅馬書", []string{"rom", "ro"}},
	{46, "1 Corinthians", "哥林多前書", []string{"1cor", "1co"}},
	{47, "2 Corinthians", "哥林多後書", []string{"2cor", "2co"}},
	{48, "Galatians", "加拉太書", []string{"gal"}},
	{49, "Ephesians", "以弗所書", []string{"eph"}},
	{50, "Philippians", "腓立比書", []string{"phil", "php"}},
	{51, "Colossians", "歌羅西書", []string{"col"}},
	{52, "1 Thessalonians", "帖撒羅尼迦前書", []string{"1thess", "1th"}},
	{53, "2 Thessalonians", "帖撒羅尼迦後書", []string{"2thess", "2th"}},
	{54, "1 Timothy", "提摩太前書", []string{"1tim", "1ti"}},
	{55, "2 Timothy", "提摩太後書", []string{"2tim", "2ti"}},
	{56, "Titus", "提多書", []string{"tit"}},
	{57, "Philemon", "腓利門書", []string{"phlm", "phm"}},
	{58, "Hebrews", "希伯來書", []string{"heb"}},
	{59, "James", "雅各書", []string{"jas", "jm"}},
	{60, "1 Peter", "彼得前書", []string{"1pet", "1pe"}},
	{61, "2 Peter", "彼得後書", []string{"2pet", "2pe"}},
	{62, "1 John", "約翰一書", []string{"1jn", "1jo"}},
	{63, "2 John", "約翰二書", []string{"2jn", "2jo"}},
	{64, "3 John", "約翰三書", []string{"3jn", "3jo"}},
	{65, "Jude", "猶大書", []string{"jud"}},
	{66, "Revelation", "啟示錄", []string{"rev", "re", "apoc"}},
}

var bookIndex = buildBookIndex()

func buildBookIndex() map[string]int {
	idx := make(map[string]int, len(Books)*5)
	for _, b := range Books {
		idx[normalizeBookName(b.Name)] = b.Number
		idx[b.Chinese] = b.Number
		for _, a := range b.Abbrevs {
			idx[a] = b.Number
		}
	}
	// Common alternates that don't fit a single row.
	idx["songofsolomon"] = 22
	idx["psalm"] = 19
	idx["revelations"] = 66
	return idx
}

// normalizeBookName lowercases and drops spaces and a trailing period,
// so "1 Sam." and "1sam" compare equal.
func normalizeBookName(name string) string {
	name = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), "."))
	name = strings.ToLower(name)
	return strings.Join(strings.Fields(name), "")
}

// LookupBook resolves a full name, abbreviation or Chinese name to a book number.
func LookupBook(name string) (int, bool) {
	n, ok := bookIndex[normalizeBookName(name)]
	return n, ok
}

// BookByNumber returns the book for a canonical number.
func BookByNumber(n int) (Book, error) {
	if n < 1 || n > len(Books) {
		return Book{}, fmt.Errorf("book number %d out of range 1..%d", n, len(Books))
	}
	return Books[n-1], nil
}

// BookName returns the display name of book n in the given language, or
// the number itself when n is out of range.
func BookName(n int, lang Language) string {
	b, err := BookByNumber(n)
	if err != nil {
		return fmt.Sprintf("%d", n)
	}
	if lang == TraditionalChinese {
		return b.Chinese
	}
	return b.Name
}
