// SPDX-License-Identifier: MPL-2.0

package playbook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullPlaybook = `
name:        "physics-workstation"
description: "Everything a detector-simulation laptop needs."

apt: ["cmake", "build-essential", "checkinstall"]

snaps: [
	{name: "code", classic: true},
	{name: "foliate"},
]

profileLines: [
	"export PYENV_ROOT=\"$HOME/.pyenv\"",
]

gsettings: [
	{schema: "org.gnome.desktop.interface", key: "color-scheme", value: "'prefer-dark'"},
]

git: {
	userName: "Ada Lovelace"
	email:    "ada@example.org"
}

scripts: [
	{id: "sensors", title: "Detect sensors", script: "sudo sensors-detect --auto"},
]

builds: [
	{owner: "root-project", repo: "root", cmakeFlags: ["-Dbuiltin_xrootd=ON"], checkinstall: true},
	{owner: "Geant4", repo: "geant4"},
]
`

func TestParseBytesFullPlaybook(t *testing.T) {
	t.Parallel()

	pb, err := ParseBytes([]byte(fullPlaybook), "playbook.cue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pb.Name != "physics-workstation" {
		t.Errorf("unexpected name %q", pb.Name)
	}
	if pb.FilePath != "playbook.cue" {
		t.Errorf("expected FilePath to be recorded, got %q", pb.FilePath)
	}
	if len(pb.Apt) != 3 || pb.Apt[0] != "cmake" {
		t.Errorf("unexpected apt list %v", pb.Apt)
	}
	if len(pb.Snaps) != 2 || !pb.Snaps[0].Classic || pb.Snaps[1].Classic {
		t.Errorf("unexpected snaps %+v", pb.Snaps)
	}
	if pb.Git == nil || pb.Git.KeyLength != 4096 {
		t.Errorf("expected schema default keyLength 4096, got %+v", pb.Git)
	}
	if len(pb.Builds) != 2 {
		t.Fatalf("expected 2 builds, got %d", len(pb.Builds))
	}
	if !pb.Builds[0].Checkinstall || pb.Builds[1].Checkinstall {
		t.Errorf("unexpected checkinstall flags %+v", pb.Builds)
	}
}

func TestParseBytesMinimalPlaybook(t *testing.T) {
	t.Parallel()

	pb, err := ParseBytes([]byte(`name: "tiny"`), "tiny.cue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pb.Name != "tiny" || pb.Git != nil || len(pb.Apt) != 0 {
		t.Errorf("unexpected playbook %+v", pb)
	}
}

func TestParseBytesMissingName(t *testing.T) {
	t.Parallel()

	_, err := ParseBytes([]byte(`apt: ["cmake"]`), "bad.cue")
	if err == nil {
		t.Fatal("expected a validation error for missing name")
	}
	if !strings.Contains(err.Error(), "bad.cue") {
		t.Errorf("expected file path in error, got %v", err)
	}
}

func TestParseBytesWrongType(t *testing.T) {
	t.Parallel()

	_, err := ParseBytes([]byte(`
name: "x"
snaps: [{name: "code", classic: "yes"}]
`), "bad.cue")
	if err == nil {
		t.Fatal("expected a type error for classic: string")
	}
}

func TestParseBytesDuplicateScriptID(t *testing.T) {
	t.Parallel()

	_, err := ParseBytes([]byte(`
name: "x"
scripts: [
	{id: "a", script: "echo 1"},
	{id: "a", script: "echo 2"},
]
`), "dup.cue")
	if err == nil || !strings.Contains(err.Error(), "duplicate script id") {
		t.Fatalf("expected duplicate script id error, got %v", err)
	}
}

func TestParseBytesMalformedScript(t *testing.T) {
	t.Parallel()

	_, err := ParseBytes([]byte(`
name: "x"
scripts: [{id: "broken", script: "if then fi"}]
`), "broken.cue")
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("expected shell syntax rejection, got %v", err)
	}
}

func TestParseFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "playbook.cue")
	if err := os.WriteFile(path, []byte(`name: "from-disk"`), 0o644); err != nil {
		t.Fatal(err)
	}

	pb, err := Parse(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pb.Name != "from-disk" || pb.FilePath != path {
		t.Errorf("unexpected playbook %+v", pb)
	}

	if _, err := Parse(filepath.Join(dir, "missing.cue")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestScriptDisplayTitle(t *testing.T) {
	t.Parallel()

	if got := (Script{ID: "a"}).DisplayTitle(); got != "a" {
		t.Errorf("expected id fallback, got %q", got)
	}
	if got := (Script{ID: "a", Title: "Apply"}).DisplayTitle(); got != "Apply" {
		t.Errorf("expected title, got %q", got)
	}
}
