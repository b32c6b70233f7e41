package hdf5

import (
	"path"
	"strings"
)

// SplitPath splits a path into its non-empty components.
//
//	"/"        -> []
//	"/foo/bar" -> ["foo", "bar"]
func SplitPath(p string) []string {
	var out []string
	for _, part := range strings.Split(p, "/") {
		if part != "" && part != "." {
			out = append(out, part)
		}
	}
	return out
}

// CleanPath returns p as an absolute path without a trailing slash.
func CleanPath(p string) string {
	return path.Clean("/" + p)
}

// joinPath resolves target against the group at base. Absolute targets
// ignore base.
func joinPath(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return CleanPath(target)
	}
	return CleanPath(base + "/" + target)
}
