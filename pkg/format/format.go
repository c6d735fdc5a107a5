// Package format builds the plain-text answers returned to users. Answer
// wording is part of the contract with the frontend, so every sentinel lives
// here instead of being scattered across inspectors.
package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Fixed answers for queries that cannot be routed.
const (
	UnknownCategory = "Unknown Resource Category"
	UnknownType     = "Unknown Resource Type"
)

const eventTimeLayout = "2006-01-02 15:04:05"

// NoneFound reports an empty result set, e.g. NoneFound("deployments")
// yields "No deployments found.".
func NoneFound(kind string) string {
	return fmt.Sprintf("No %s found.", kind)
}

// Unsupported reports an unknown action or missing required parameters for
// the given kind.
func Unsupported(kind string) string {
	return fmt.Sprintf("Unsupported action or missing required parameters for %s.", kind)
}

// Comma joins items with ", ".
func Comma(items []string) string {
	return strings.Join(items, ", ")
}

// Lines joins items with newlines.
func Lines(items []string) string {
	return strings.Join(items, "\n")
}

// Block renders a header line followed by one item per line.
func Block(header string, items []string) string {
	return header + "\n" + strings.Join(items, "\n")
}

// SortedKeys returns map keys in lexical order.
func SortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// KeyValues renders a string map as sorted "k: v" lines.
func KeyValues(m map[string]string) []string {
	lines := make([]string, 0, len(m))
	for _, k := range SortedKeys(m) {
		lines = append(lines, fmt.Sprintf("%s: %s", k, m[k]))
	}
	return lines
}

// SimpleName strips the replica-hash and pod-hash suffixes from a pod name,
// so "nginx-7c5ddbdf54-abcde" becomes "nginx". Names with fewer than three
// dash segments are returned unchanged.
func SimpleName(podName string) string {
	parts := strings.Split(podName, "-")
	if len(parts) <= 2 {
		return podName
	}
	return strings.Join(parts[:len(parts)-2], "-")
}

// CreationTime renders an object creation timestamp as RFC 3339.
func CreationTime(t metav1.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// EventTime renders an event timestamp in the compact form used in event
// listings. The zero time renders as "<unknown>".
func EventTime(t metav1.Time) string {
	if t.IsZero() {
		return "<unknown>"
	}
	return t.UTC().Format(eventTimeLayout)
}
