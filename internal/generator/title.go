package generator

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titler turns hyphenated directory names into display titles.
// A cases.Caser is stateful, so each scan owns its own titler.
type titler struct {
	caser cases.Caser
}

func newTitler() *titler {
	return &titler{caser: cases.Title(language.English, cases.NoLower)}
}

// Title capitalizes each hyphen-separated word and joins them with spaces,
// so "getting-started" becomes "Getting Started". The remaining letters of a
// word are left as written.
func (t *titler) Title(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' })
	for i, w := range words {
		words[i] = t.caser.String(w)
	}
	return strings.Join(words, " ")
}
