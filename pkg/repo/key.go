package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// InstallKey writes the key material to the repository's fixed key location
// with owner-only permissions, overwriting any previous key silently. The
// material is additionally parsed as an SSH private key; a parse failure
// logs a warning but does not reject the install.
func (r *Repository) InstallKey(key PrivateKey) error {
	if key.Empty() {
		return errors.New("private key material is empty")
	}

	keyPath := r.KeyPath()
	if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	if err := os.WriteFile(keyPath, key.material, 0600); err != nil {
		return fmt.Errorf("failed to write key: %w", err)
	}

	// WriteFile leaves the old mode on an overwritten file.
	if err := os.Chmod(keyPath, 0600); err != nil {
		return fmt.Errorf("failed to restrict key permissions: %w", err)
	}

	if _, err := gitssh.NewPublicKeys("git", key.material, ""); err != nil {
		r.logger.Warn("Installed key does not parse as an SSH private key", "reason", err)
	}

	r.logger.Info("SSH key installed", "root", r.root)
	return nil
}
