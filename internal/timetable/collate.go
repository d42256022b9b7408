package timetable

import (
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collators keep scratch buffers and must not be shared between goroutines.
var japaneseCollators = sync.Pool{
	New: func() any { return collate.New(language.Japanese) },
}

// CompareJapaneseCollated compares a and b using Japanese collation rather than code
// point order, so hiragana and katakana spellings of a name sort together. It returns
// a negative number, zero or a positive number like strings.Compare.
func CompareJapaneseCollated(a, b string) int {
	c := japaneseCollators.Get().(*collate.Collator)
	defer japaneseCollators.Put(c)
	return c.CompareString(a, b)
}

func sortGroups(groups []Group, less func(a, b Group) int) {
	sort.SliceStable(groups, func(i, j int) bool {
		return less(groups[i], groups[j]) < 0
	})
}
