package gen

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xraph/batch"
)

// exportedIdent converts a declared name into an exported Go identifier
// with the given prefix. Runs of characters that are not letters or digits
// separate words; each word is capitalized.
//
//	"email-queue"  -> prefix + "EmailQueue"
//	"emails.v2"    -> prefix + "EmailsV2"
func exportedIdent(prefix, name string) (string, error) {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "", fmt.Errorf("%w: cannot derive a Go identifier from %q", batch.ErrInvalidValue, name)
	}

	var b strings.Builder
	b.WriteString(prefix)
	for _, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(w[size:])
	}
	return b.String(), nil
}
