// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sciforge-cli/internal/ghrelease"
	"sciforge-cli/internal/lazyconf"
	"sciforge-cli/internal/prompt"
	"sciforge-cli/internal/sysinfo"
	"sciforge-cli/pkg/playbook"
)

func scriptedAsker(input string) *prompt.Asker {
	return prompt.New(prompt.WithInput(strings.NewReader(input)), prompt.WithOutput(&bytes.Buffer{}))
}

func TestDeclareFieldsTokenFromEnvironment(t *testing.T) {
	t.Parallel()

	store := lazyconf.New()
	// Empty input: any prompt would fail with EOF.
	DeclareFields(context.Background(), store, scriptedAsker(""), nil, &playbook.Playbook{}, "env-token")

	token, err := store.GetString(FieldGitHubToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "env-token" {
		t.Errorf("expected env token, got %q", token)
	}
}

func TestDeclareFieldsBuildThreadsDefault(t *testing.T) {
	t.Parallel()

	store := lazyconf.New()
	DeclareFields(context.Background(), store, scriptedAsker("\n"), nil, &playbook.Playbook{}, "t")

	max, err := store.GetInt(FieldMaxThreads)
	if err != nil {
		t.Fatalf("max threads must be concrete: %v", err)
	}
	if max != sysinfo.MaxBuildThreads() {
		t.Errorf("expected probed thread count, got %d", max)
	}

	threads, err := store.GetInt(FieldBuildThreads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if threads != max {
		t.Errorf("expected default %d, got %d", max, threads)
	}
}

func TestDeclareFieldsGitDefaultsFromPlaybook(t *testing.T) {
	t.Parallel()

	pb := &playbook.Playbook{Git: &playbook.GitIdentity{
		UserName:  "Ada Lovelace",
		Email:     "ada@example.org",
		KeyLength: 2048,
	}}

	store := lazyconf.New()
	// Accept every default with empty lines.
	DeclareFields(context.Background(), store, scriptedAsker("\n\n\n"), nil, pb, "t")

	name, err := store.GetString(FieldGitUserName)
	if err != nil || name != "Ada Lovelace" {
		t.Errorf("expected playbook default name, got %q (err %v)", name, err)
	}
	email, err := store.GetString(FieldGitEmail)
	if err != nil || email != "ada@example.org" {
		t.Errorf("expected playbook default email, got %q (err %v)", email, err)
	}
	keyLength, err := store.GetInt(FieldGitKeyLength)
	if err != nil || keyLength != 2048 {
		t.Errorf("expected playbook key length, got %d (err %v)", keyLength, err)
	}
}

func TestDeclareFieldsUnusedFieldsNeverPrompt(t *testing.T) {
	t.Parallel()

	store := lazyconf.New()
	// No input at all: reads of any deferred field would fail loudly.
	DeclareFields(context.Background(), store, scriptedAsker(""), nil, &playbook.Playbook{}, "t")

	// Only the eager field is touched; nothing prompts.
	if _, err := store.GetInt(FieldMaxThreads); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeclareFieldsTokenPromptValidatesAndRetries(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "token good" {
			w.Write([]byte(`{"data":{"repository":{"name":"root"}}}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	releases := ghrelease.NewClient(ghrelease.WithBaseURL(srv.URL))
	store := lazyconf.New()
	DeclareFields(context.Background(), store, scriptedAsker("bad\ngood\n"), releases, &playbook.Playbook{}, "")

	token, err := store.GetString(FieldGitHubToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "good" {
		t.Errorf("expected the re-prompted token, got %q", token)
	}
}
