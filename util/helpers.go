// Package util provides small shared helpers: environment lookup, string
// predicates, database key sanitization, and text utilities used by the
// evidence search.
package util

import (
	"os"
	"regexp"
	"strings"
)

// GetEnvDefault is a convenience function for handling env vars
func GetEnvDefault(key, defVal string) string {
	val, ex := os.LookupEnv(key)
	if !ex {
		return defVal
	}
	return val
}

// IsEmpty checks if a string is empty or contains only whitespace
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}

// IsNotEmpty checks if a string is not empty
func IsNotEmpty(s string) bool {
	return !IsEmpty(s)
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// Contains checks if a string slice contains an item
func Contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

var keySanitizer = regexp.MustCompile(`[^a-zA-Z0-9_\-:.@()+,=;$!*'%]`)

// SanitizeKey replaces characters that are not valid in an ArangoDB document
// key with underscores.
func SanitizeKey(key string) string {
	return keySanitizer.ReplaceAllString(key, "_")
}

// TruncateRunes shortens s to at most n runes, appending an ellipsis when
// truncation occurred.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

var wordSplitter = regexp.MustCompile(`[^a-z0-9]+`)

// Tokenize lowercases s and splits it into search terms, dropping terms
// shorter than three characters.
func Tokenize(s string) []string {
	terms := []string{}
	for _, t := range wordSplitter.Split(strings.ToLower(s), -1) {
		if len(t) >= 3 {
			terms = append(terms, t)
		}
	}
	return terms
}
