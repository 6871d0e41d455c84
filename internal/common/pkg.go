package common

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty. Major version suffixes ("/v2") are
// skipped, as the go tool does when naming an import.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if isMajorVersion(base) {
		if dir := path.Dir(pkgPath); dir != "." && dir != "/" {
			base = path.Base(dir)
		}
	}

	return strings.NewReplacer("-", "_", ".", "_").Replace(base)
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}

	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// Exported returns name with its first letter upper-cased.
func Exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return name
	}

	return string(unicode.ToUpper(r)) + name[size:]
}
