// Package quantity parses storage size strings like "10Gi" into byte counts
// and compares them. Only binary suffixes are recognized; anything malformed
// parses to zero so that filters degrade to matching nothing rather than
// failing the whole query.
package quantity

import (
	"regexp"
	"strconv"
	"strings"
)

var sizePattern = regexp.MustCompile(`^(\d+)([KMGTP]i?)?$`)

var unitBytes = map[string]int64{
	"":   1,
	"Ki": 1 << 10,
	"Mi": 1 << 20,
	"Gi": 1 << 30,
	"Ti": 1 << 40,
	"Pi": 1 << 50,
}

// ParseBytes converts a size string to bytes. A bare "K" style suffix is
// treated as its binary counterpart. Malformed input yields 0.
func ParseBytes(s string) int64 {
	m := sizePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	unit := m[2]
	if len(unit) == 1 {
		unit += "i"
	}
	return n * unitBytes[unit]
}

// Compare evaluates "left op right" on the byte values of two size strings.
// Supported operators are ">", "<" and "=". Unknown operators return false.
func Compare(op, left, right string) bool {
	l, r := ParseBytes(left), ParseBytes(right)
	switch op {
	case ">":
		return l > r
	case "<":
		return l < r
	case "=":
		return l == r
	default:
		return false
	}
}
