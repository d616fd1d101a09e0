package form

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	tempIDPrefix   = "temp-"
	tempSuffixLen  = 9
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// IDFunc produces identifiers for sub-entities created during a session.
type IDFunc func() string

// NewTempID returns an identifier of the form temp-<unix-ms>-<9 base36 chars>.
// The catalog never assigns ids with this prefix, so they are safe to strip on
// submission.
func NewTempID() string {
	var b strings.Builder
	b.Grow(len(tempIDPrefix) + 14 + 1 + tempSuffixLen)
	b.WriteString(tempIDPrefix)
	b.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 10))
	b.WriteByte('-')
	for range tempSuffixLen {
		b.WriteByte(base36Alphabet[rand.IntN(len(base36Alphabet))])
	}
	return b.String()
}

// IsTempID reports whether id was produced by NewTempID.
func IsTempID(id string) bool {
	rest, ok := strings.CutPrefix(id, tempIDPrefix)
	if !ok {
		return false
	}
	ms, suffix, ok := strings.Cut(rest, "-")
	if !ok || ms == "" || len(suffix) != tempSuffixLen {
		return false
	}
	if _, err := strconv.ParseInt(ms, 10, 64); err != nil {
		return false
	}
	for i := 0; i < len(suffix); i++ {
		if !strings.ContainsRune(base36Alphabet, rune(suffix[i])) {
			return false
		}
	}
	return true
}

// SequenceIDs returns a deterministic IDFunc yielding prefix-1, prefix-2, ...
// Useful in tests.
func SequenceIDs(prefix string) IDFunc {
	var n int
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}
