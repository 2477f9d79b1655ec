package components

import (
	"strconv"
	"strings"
)

// splitID breaks "<prefix>_<n>" into its parts. A malformed id sorts by
// its raw string with a zero sequence.
func splitID(s string) (string, uint64) {
	i := strings.LastIndexByte(s, '_')
	if i < 0 {
		return s, 0
	}
	n, err := strconv.ParseUint(s[i+1:], 10, 64)
	if err != nil {
		return s, 0
	}
	return s[:i], n
}

// Less orders ids by prefix, then numerically by suffix, so deer_2 sorts
// before deer_10.
func (a AnimalID) Less(b AnimalID) bool {
	ap, an := splitID(string(a))
	bp, bn := splitID(string(b))
	if ap != bp {
		return ap < bp
	}
	return an < bn
}

// Less orders corpse ids numerically by suffix.
func (c CorpseID) Less(d CorpseID) bool {
	cp, cn := splitID(string(c))
	dp, dn := splitID(string(d))
	if cp != dp {
		return cp < dp
	}
	return cn < dn
}
