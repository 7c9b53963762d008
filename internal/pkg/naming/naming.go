package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Placeholder substitutes original filenames that sanitize away to nothing.
const Placeholder = "unnamed"

// uuidLen is the length of the canonical UUID string prefixed to every stored name.
const uuidLen = 36

// maxCleanedLen bounds the sanitized part so "<uuid>-<cleaned>" stays within
// the common 255-byte filesystem name limit.
const maxCleanedLen = 255 - uuidLen - 1

// Sanitize cleans a client-supplied filename for on-disk use. It keeps letters,
// digits, '.', '-' and '_', drops everything else (path separators, traversal
// sequences, control characters, whitespace) and trims leading dots. An empty
// result is replaced with Placeholder.
func Sanitize(original string) string {
	var b strings.Builder
	for _, r := range original {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimLeft(b.String(), ".")
	cleaned = truncate(cleaned, maxCleanedLen)
	if cleaned == "" {
		return Placeholder
	}
	return cleaned
}

// NewStoredName generates a unique stored name for an original filename.
// Uniqueness comes from the random UUID prefix; existing entries are never consulted.
func NewStoredName(original string) string {
	return StoredName(uuid.New(), original)
}

// StoredName builds "<id>-<sanitized>" from an explicit UUID. Output is
// deterministic for a given id, which keeps the generation testable.
func StoredName(id uuid.UUID, original string) string {
	return id.String() + "-" + Sanitize(original)
}

// DisplayName recovers the original filename part of a stored name by stripping
// the UUID prefix. Names without a well-formed prefix are returned unchanged.
func DisplayName(storedName string) string {
	if len(storedName) > uuidLen+1 && storedName[uuidLen] == '-' {
		if _, err := uuid.Parse(storedName[:uuidLen]); err == nil {
			return storedName[uuidLen+1:]
		}
	}
	return storedName
}

// IsSafeStoredName reports whether a caller-supplied lookup key may be used as a
// flat filename. Sanitize never produces unsafe names; this guards lookup paths
// that receive the name verbatim from the client.
func IsSafeStoredName(name string) bool {
	if name == "" || name == "." || name == ".." || len(name) > 255 {
		return false
	}
	if strings.ContainsAny(name, "/\\") {
		return false
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}

// truncate cuts s to at most max bytes without splitting a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
