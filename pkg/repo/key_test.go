package repo

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func encodedKey(t *testing.T, material string) PrivateKey {
	t.Helper()
	key, err := ParsePrivateKey(base64.StdEncoding.EncodeToString([]byte(material)))
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	return key
}

func TestInstallKeyWritesRestrictedFile(t *testing.T) {
	root := t.TempDir()
	r, err := New(Config{Root: root, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := r.InstallKey(encodedKey(t, "opaque material\n")); err != nil {
		t.Fatalf("InstallKey: %v", err)
	}

	info, err := os.Stat(r.KeyPath())
	if err != nil {
		t.Fatalf("stat key: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("key mode = %o, want 0600", info.Mode().Perm())
	}

	data, err := os.ReadFile(r.KeyPath())
	if err != nil {
		t.Fatalf("read key: %v", err)
	}
	if string(data) != "opaque material\n" {
		t.Errorf("key contents mismatch")
	}
}

func TestInstallKeyOverwritesSilently(t *testing.T) {
	root := t.TempDir()
	rec := &recordingHandler{}
	r, err := New(Config{Root: root, Logger: slog.New(rec)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Pre-existing key with looser permissions.
	if err := os.MkdirAll(root+"/.ssh", 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(r.KeyPath(), []byte("old key"), 0644); err != nil {
		t.Fatalf("seed key: %v", err)
	}

	if err := r.InstallKey(encodedKey(t, "new key")); err != nil {
		t.Fatalf("InstallKey: %v", err)
	}

	data, err := os.ReadFile(r.KeyPath())
	if err != nil {
		t.Fatalf("read key: %v", err)
	}
	if string(data) != "new key" {
		t.Errorf("key contents = %q, want the replacement", data)
	}

	info, err := os.Stat(r.KeyPath())
	if err != nil {
		t.Fatalf("stat key: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("key mode = %o, want 0600 after overwrite", info.Mode().Perm())
	}

	for _, msg := range rec.messages(slog.LevelError) {
		t.Errorf("unexpected error log during overwrite: %s", msg)
	}
}

func TestInstallKeyEmpty(t *testing.T) {
	r, err := New(Config{Root: t.TempDir(), Logger: discardLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := r.InstallKey(PrivateKey{}); err == nil {
		t.Error("expected empty key material to be rejected")
	}
}

func TestInstallKeyWarnsOnUnparsableMaterial(t *testing.T) {
	rec := &recordingHandler{}
	r, err := New(Config{Root: t.TempDir(), Logger: slog.New(rec)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := r.InstallKey(encodedKey(t, "definitely not a key")); err != nil {
		t.Fatalf("InstallKey: %v", err)
	}

	warned := false
	for _, msg := range rec.messages(slog.LevelWarn) {
		if strings.Contains(msg, "does not parse") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected a parse warning, got %v", rec.messages(slog.LevelWarn))
	}
}

func TestInstallKeyAcceptsRealKey(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(rsaKey),
	})

	rec := &recordingHandler{}
	r, err := New(Config{Root: t.TempDir(), Logger: slog.New(rec)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := r.InstallKey(encodedKey(t, string(pemBytes))); err != nil {
		t.Fatalf("InstallKey: %v", err)
	}

	if got := rec.count(slog.LevelWarn); got != 0 {
		t.Errorf("expected no warnings for a valid key, got %v", rec.messages(slog.LevelWarn))
	}
}

func TestSessionUsesInstalledKey(t *testing.T) {
	root := t.TempDir()
	factory := NewSessionFactory(SessionConfig{BaseEnv: []string{}, Logger: discardLogger()})
	r, err := New(Config{Root: root, Sessions: factory, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	before := factory.Open(root).SSHCommand()
	if strings.Contains(before, "IdentitiesOnly") {
		t.Fatalf("identity pinned before any key exists: %q", before)
	}

	if err := r.InstallKey(encodedKey(t, "material")); err != nil {
		t.Fatalf("InstallKey: %v", err)
	}

	after := factory.Open(root).SSHCommand()
	if !strings.Contains(after, "-i "+r.KeyPath()) {
		t.Errorf("session does not use the installed key: %q", after)
	}
}
