package repo

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

// PublishRequest describes a single commit against the working copy.
type PublishRequest struct {
	// Files lists content-relative paths to stage. Only the listed paths are
	// staged, whatever else the working copy has pending.
	Files []string

	// Message is the commit message.
	Message string

	// AuthorName and AuthorEmail override the commit author when AuthorEmail
	// is set. AuthorName falls back to AuthorEmail when empty. The committer
	// identity always comes from the session environment.
	AuthorName  string
	AuthorEmail string

	// Push uploads the current branch to origin with upstream tracking after
	// the commit lands.
	Push bool
}

// PublishResult reports what a publish produced.
type PublishResult struct {
	Branch string
	Commit string
	Pushed bool
}

// PrivateKey holds decoded SSH private key material. The zero value is empty.
// The material never escapes through String, LogValue or error text; it is
// only ever written to the key file on disk.
type PrivateKey struct {
	material []byte
}

// ParsePrivateKey decodes base64-encoded key material as delivered by secret
// stores. Whitespace, including line wrapping, is tolerated.
func ParsePrivateKey(encoded string) (PrivateKey, error) {
	compact := strings.Map(dropSpace, encoded)
	if compact == "" {
		return PrivateKey{}, errors.New("private key material is empty")
	}

	material, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return PrivateKey{}, fmt.Errorf("failed to decode private key: %w", err)
	}

	return PrivateKey{material: material}, nil
}

func dropSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return -1
	}
	return r
}

// Empty reports whether the key holds no material.
func (k PrivateKey) Empty() bool {
	return len(k.material) == 0
}

// String implements fmt.Stringer and always redacts.
func (k PrivateKey) String() string {
	return "[redacted]"
}

// GoString implements fmt.GoStringer; %#v bypasses String, so it needs its
// own redaction.
func (k PrivateKey) GoString() string {
	return "repo.PrivateKey{material:[redacted]}"
}

// LogValue implements slog.LogValuer; key material is redacted from any log
// record it reaches.
func (k PrivateKey) LogValue() slog.Value {
	return slog.StringValue("[redacted]")
}
