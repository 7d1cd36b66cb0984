package playlist

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// fatReserved are characters FAT and exFAT refuse in file names.
const fatReserved = `<>:"\|?*`

// NormalizePath maps a relative path to a form portable players accept: every component is
// NFC-composed, reserved and control characters become "_", and trailing dots and spaces
// are trimmed.
func NormalizePath(rel string) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for i, part := range parts {
		parts[i] = normalizeComponent(part)
	}
	return filepath.Join(parts...)
}

func normalizeComponent(name string) string {
	name = norm.NFC.String(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(fatReserved, r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}

	out := strings.TrimRight(b.String(), ". ")
	if out == "" {
		return "_"
	}
	return out
}
