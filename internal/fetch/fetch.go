package fetch

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	getter "github.com/hashicorp/go-getter"
)

// Resolve returns a local path for src. An existing file is returned as is; anything
// else is treated as a go-getter address (http, s3, gcs, git, ...) and downloaded
// into workDir under its base name, keeping the extension the scene loaders key on.
func Resolve(ctx context.Context, src, workDir string) (string, error) {
	if src == "" {
		return "", fmt.Errorf("no input given")
	}
	if st, err := os.Stat(src); err == nil {
		if st.IsDir() {
			return "", fmt.Errorf("input %s is a directory", src)
		}
		return src, nil
	}

	name := baseName(src)
	if name == "" {
		return "", fmt.Errorf("cannot derive a file name from %s", src)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(workDir, name)
	if err := getter.GetFile(dst, src, getter.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("fetch %s: %w", src, err)
	}
	return dst, nil
}

// baseName strips a forced getter prefix, the query string and the subdirectory
// marker from src and returns the last path element.
func baseName(src string) string {
	if i := strings.Index(src, "::"); i >= 0 {
		src = src[i+2:]
	}
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	src = strings.TrimRight(strings.ReplaceAll(src, "//", "/"), "/")
	name := path.Base(src)
	if name == "." || name == "/" || strings.HasSuffix(name, ":") {
		return ""
	}
	return name
}
