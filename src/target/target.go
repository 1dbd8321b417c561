package target

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Target is a parsed archive destination.
// Example: dir:/mnt/nas/volume-backups
type Target struct {
	// Raw is the original input string.
	Raw string
	// Scheme is the destination scheme. Only "dir" exists today.
	Scheme string
	// DirPath is the cleaned absolute host directory that receives archives.
	DirPath string
}

// SupportedSchemes lists the schemes the parser accepts.
var SupportedSchemes = map[string]struct{}{
	"dir": {},
}

// Parse parses "dir:/path" or a bare absolute path into a Target.
func Parse(raw string) (Target, error) {
	t := Target{Raw: raw}
	s := strings.TrimSpace(raw)
	if s == "" {
		return t, fmt.Errorf("destination must not be empty; expected 'dir:/path' or an absolute path")
	}
	scheme, val := "dir", s
	if !filepath.IsAbs(s) {
		i := strings.Index(s, ":")
		if i <= 0 || i == len(s)-1 {
			return t, fmt.Errorf("invalid destination %q; expected format '<scheme>:<value>' (e.g., 'dir:/path')", raw)
		}
		scheme = strings.ToLower(strings.TrimSpace(s[:i]))
		val = strings.TrimSpace(s[i+1:])
	}
	if _, ok := SupportedSchemes[scheme]; !ok {
		return t, fmt.Errorf("unsupported destination scheme %q", scheme)
	}
	t.Scheme = scheme

	clean := filepath.Clean(val)
	if !filepath.IsAbs(clean) {
		// the helper container bind-mounts this path; engines reject relative sources
		return t, fmt.Errorf("directory destination must be an absolute path: %q", val)
	}
	t.DirPath = clean
	return t, nil
}

// Check verifies the destination exists and is a directory.
func (t Target) Check() error {
	info, err := os.Stat(t.DirPath)
	if err != nil {
		return fmt.Errorf("stat destination: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("destination is not a directory: %s", t.DirPath)
	}
	return nil
}

// String returns a canonical string form of the target.
func (t Target) String() string {
	if t.Scheme != "" && t.DirPath != "" {
		return fmt.Sprintf("%s:%s", t.Scheme, t.DirPath)
	}
	return t.Raw
}
