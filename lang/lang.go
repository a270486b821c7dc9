// Package lang renders counts and lists for log lines and console output.
package lang

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gertd/go-pluralize"
)

const (
	DefaultPattern   = "%s"
	DefaultSeparator = ","
	DefaultOperator  = "and"
)

var plural = pluralize.NewClient()

// Enumerator joins elements into an English list, "a, b and c".
type Enumerator struct {
	Pattern   string
	Separator string
	Operator  string
}

func (e Enumerator) Do(elements ...string) string {
	pattern, separator, operator := DefaultPattern, DefaultSeparator, DefaultOperator
	if e.Pattern != "" {
		pattern = e.Pattern
	}
	if e.Separator != "" {
		separator = e.Separator
	}
	if e.Operator != "" {
		operator = e.Operator
	}
	res := &strings.Builder{}
	for idx, element := range elements {
		fmt.Fprintf(res, pattern, element)
		if idx+2 < len(elements) {
			fmt.Fprintf(res, "%s ", separator)
		} else if idx+1 < len(elements) {
			fmt.Fprintf(res, " %s ", operator)
		}
	}
	return res.String()
}

// Count renders n and word, pluralised unless n is 1: "1,024 scripts".
func Count(n int, word string) string {
	return fmt.Sprintf("%s %s", humanize.Comma(int64(n)), plural.Pluralize(word, n, false))
}
