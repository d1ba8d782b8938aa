// Package audit keeps a copy of every uploaded import file so a run can be
// traced back to the exact bytes it processed.
package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// Create opens a new archive file for an upload and returns it with its name
// relative to AuditDir. An empty id gets a random UUID.
func (a *Auditor) Create(id, filename string) (io.WriteCloser, string, error) {
	// Ensure audit directory exists
	if err := a.ensureAuditDir(); err != nil {
		return nil, "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	if id == "" {
		id = uuid.NewString()
	}
	name := id + "-" + archiveName(filename)

	f, err := os.OpenFile(filepath.Join(a.AuditDir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0640)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create audit file: %w", err)
	}
	return f, name, nil
}

// Remove deletes an archive created by Create. Only plain names inside
// AuditDir are accepted, and a file that is already gone is not an error.
func (a *Auditor) Remove(name string) error {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("invalid audit file name %q", name)
	}
	if err := os.Remove(filepath.Join(a.AuditDir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove audit file: %w", err)
	}
	return nil
}

// archiveName reduces an uploaded filename to a safe base name.
func archiveName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == ".." || base == "_" {
		return "upload.csv"
	}
	return base
}

// ensureAuditDir creates the audit directory if it doesn't exist
func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
