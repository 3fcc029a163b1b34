package storage

import (
	"path/filepath"
	"strings"
)

// FallbackName is used when sanitization leaves nothing usable.
const FallbackName = "unnamed_file"

// maxNameLen is the on-disk filename length limit in bytes.
const maxNameLen = 255

// Sanitize normalizes a client-supplied filename into a safe on-disk
// name: directory components are stripped, every character outside
// [A-Za-z0-9._-] becomes '_', leading dots are removed, empty results
// fall back to FallbackName, and names longer than 255 bytes are
// truncated at the stem so the extension survives.
func Sanitize(raw string) string {
	name := raw
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name = strings.TrimLeft(b.String(), ".")

	if name == "" {
		return FallbackName
	}

	if len(name) > maxNameLen {
		ext := filepath.Ext(name)
		stem := name[:len(name)-len(ext)]
		keep := maxNameLen - len(ext)
		if keep < 0 {
			keep = 0
		}
		if keep > len(stem) {
			keep = len(stem)
		}
		name = stem[:keep] + ext
	}

	return name
}
