package blob

import (
	"fmt"
	"path"
	"strings"
)

// CleanKey rejects empty, absolute and escaping keys and normalises separators
func CleanKey(key string) (string, error) {
	k := strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if k == "" {
		return "", fmt.Errorf("blob: empty key")
	}
	if strings.HasPrefix(k, "/") {
		return "", fmt.Errorf("blob: absolute key %q", key)
	}
	k = path.Clean(k)
	if k == "." || k == ".." || strings.HasPrefix(k, "../") {
		return "", fmt.Errorf("blob: key %q escapes root", key)
	}
	return k, nil
}

// Join builds a key from parts
func Join(parts ...string) string { return path.Join(parts...) }
