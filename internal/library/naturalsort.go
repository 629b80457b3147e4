package library

import (
	"regexp"
	"strconv"
	"strings"
)

var tokenizer = regexp.MustCompile(`(\d+|\D+)`)

type naturalSortToken struct {
	str   string
	num   int
	isNum bool
}

func tokenize(s string) []naturalSortToken {
	parts := tokenizer.FindAllString(s, -1)
	tokens := make([]naturalSortToken, len(parts))
	for i, p := range parts {
		if num, err := strconv.Atoi(p); err == nil {
			tokens[i] = naturalSortToken{num: num, isNum: true}
		} else {
			tokens[i] = naturalSortToken{str: strings.ToLower(p)}
		}
	}
	return tokens
}

// naturalLess orders "02-x" before "10-x" by comparing digit runs numerically.
func naturalLess(s1, s2 string) bool {
	t1, t2 := tokenize(s1), tokenize(s2)
	for i := 0; i < min(len(t1), len(t2)); i++ {
		a, b := t1[i], t2[i]
		if a.isNum != b.isNum {
			return a.isNum
		}
		if a.isNum && a.num != b.num {
			return a.num < b.num
		}
		if !a.isNum && a.str != b.str {
			return a.str < b.str
		}
	}
	if len(t1) != len(t2) {
		return len(t1) < len(t2)
	}
	// Equal under natural comparison ("01" vs "1"); fall back to bytes so
	// the order stays total.
	return s1 < s2
}
