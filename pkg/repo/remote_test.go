package repo

import (
	"context"
	"log/slog"
	"testing"

	git "github.com/go-git/go-git/v5"

	"gitclerk/internal/testutil"
)

func TestNormalizeRemote(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		host       string
		want       string
	}{
		{name: "scp-like unchanged", identifier: "git@github.com:acme/site.git", host: "github.com", want: "git@github.com:acme/site.git"},
		{name: "scp-like gains suffix", identifier: "git@gitlab.example.com:acme/site", host: "github.com", want: "git@gitlab.example.com:acme/site.git"},
		{name: "ssh url unchanged", identifier: "ssh://git@github.com/acme/site.git", host: "github.com", want: "ssh://git@github.com/acme/site.git"},
		{name: "https converted", identifier: "https://github.com/acme/site.git", host: "github.com", want: "git@github.com:acme/site.git"},
		{name: "https without suffix", identifier: "https://gitlab.example.com/team/site", host: "github.com", want: "git@gitlab.example.com:team/site.git"},
		{name: "http converted", identifier: "http://git.local/team/site", host: "github.com", want: "git@git.local:team/site.git"},
		{name: "shorthand default host", identifier: "acme/site", host: "github.com", want: "git@github.com:acme/site.git"},
		{name: "shorthand custom host", identifier: "acme/site", host: "git.example.org", want: "git@git.example.org:acme/site.git"},
		{name: "shorthand with suffix", identifier: "acme/site.git", host: "github.com", want: "git@github.com:acme/site.git"},
		{name: "trailing slash", identifier: "https://github.com/acme/site/", host: "github.com", want: "git@github.com:acme/site.git"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRemote(tt.identifier, tt.host); got != tt.want {
				t.Errorf("NormalizeRemote(%q) = %q, want %q", tt.identifier, got, tt.want)
			}
		})
	}
}

func TestOriginAbsent(t *testing.T) {
	root := testutil.NewWorkRepo(t)

	rec := &recordingHandler{}
	r, err := New(Config{Root: root, ContentDir: "content", Logger: slog.New(rec)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	url, err := r.Origin()
	if err != nil {
		t.Fatalf("Origin: %v", err)
	}
	if url != "" {
		t.Errorf("url = %q, want empty for missing origin", url)
	}
	if got := rec.count(slog.LevelWarn); got != 1 {
		t.Errorf("expected exactly 1 warning, got %d: %v", got, rec.messages(slog.LevelWarn))
	}
}

func TestSetOriginFresh(t *testing.T) {
	root := testutil.NewWorkRepo(t)
	r := newTestRepo(t, root)

	url, err := r.SetOrigin("acme/site")
	if err != nil {
		t.Fatalf("SetOrigin: %v", err)
	}
	if url != "git@github.com:acme/site.git" {
		t.Errorf("url = %q, want normalized SSH form", url)
	}

	gr, err := git.PlainOpen(root)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	remote, err := gr.Remote("origin")
	if err != nil {
		t.Fatalf("origin not configured: %v", err)
	}
	if got := remote.Config().URLs[0]; got != url {
		t.Errorf("stored url = %q, want %q", got, url)
	}
}

func TestSetOriginReplaceLeavesSingleRemote(t *testing.T) {
	root := testutil.NewWorkRepo(t)

	rec := &recordingHandler{}
	r, err := New(Config{Root: root, ContentDir: "content", Logger: slog.New(rec)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := r.SetOrigin("acme/site"); err != nil {
		t.Fatalf("first SetOrigin: %v", err)
	}
	replaced, err := r.SetOrigin("acme/renamed")
	if err != nil {
		t.Fatalf("second SetOrigin: %v", err)
	}

	if got := rec.count(slog.LevelWarn); got != 1 {
		t.Errorf("expected 1 replacement warning, got %d: %v", got, rec.messages(slog.LevelWarn))
	}

	gr, err := git.PlainOpen(root)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	remotes, err := gr.Remotes()
	if err != nil {
		t.Fatalf("list remotes: %v", err)
	}
	if len(remotes) != 1 {
		t.Fatalf("remotes = %d, want exactly one", len(remotes))
	}
	if got := remotes[0].Config().URLs[0]; got != replaced {
		t.Errorf("stored url = %q, want %q", got, replaced)
	}
}

func TestOriginRoundTrip(t *testing.T) {
	root := testutil.NewWorkRepo(t)
	r := newTestRepo(t, root)

	want, err := r.SetOrigin("https://gitlab.example.com/team/site")
	if err != nil {
		t.Fatalf("SetOrigin: %v", err)
	}

	got, err := r.Origin()
	if err != nil {
		t.Fatalf("Origin: %v", err)
	}
	if got != want {
		t.Errorf("Origin = %q, want %q", got, want)
	}
}

func TestPingRemote(t *testing.T) {
	root := testutil.NewWorkRepo(t)
	r := newTestRepo(t, root)

	if err := r.PingRemote(context.Background()); err == nil {
		t.Error("expected error without an origin remote")
	}

	testutil.NewBareRemote(t, root)
	if err := r.PingRemote(context.Background()); err != nil {
		t.Errorf("PingRemote: %v", err)
	}
}

func TestSetOriginCustomHost(t *testing.T) {
	root := testutil.NewWorkRepo(t)

	r, err := New(Config{Root: root, ContentDir: "content", RemoteHost: "git.example.org", Logger: discardLogger()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	url, err := r.SetOrigin("acme/site")
	if err != nil {
		t.Fatalf("SetOrigin: %v", err)
	}
	if url != "git@git.example.org:acme/site.git" {
		t.Errorf("url = %q, want the configured host", url)
	}
}
