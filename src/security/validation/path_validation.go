package validation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathEscapesRoot is returned when a request path resolves outside the served directory.
var ErrPathEscapesRoot = fmt.Errorf("%w: path escapes root", ErrValidationFailed)

// SafeJoin joins an already-decoded URL path onto root and canonicalises the result.
// It never touches the filesystem. Paths that resolve outside root, or that contain NUL
// bytes, yield ErrPathEscapesRoot.
func SafeJoin(root, requestPath string) (string, error) {
	if strings.IndexByte(requestPath, 0) >= 0 {
		return "", ErrPathEscapesRoot
	}
	base, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %q: %w", root, err)
	}

	// Keep the path relative so Join cannot discard base, then let Clean resolve "..".
	rel := filepath.FromSlash(strings.TrimLeft(requestPath, "/"))
	joined := filepath.Join(base, rel)

	within, err := filepath.Rel(base, joined)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) || filepath.IsAbs(within) {
		return "", ErrPathEscapesRoot
	}
	return joined, nil
}
