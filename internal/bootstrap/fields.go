// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"context"
	"strconv"

	"sciforge-cli/internal/ghrelease"
	"sciforge-cli/internal/lazyconf"
	"sciforge-cli/internal/prompt"
	"sciforge-cli/internal/sysinfo"
	"sciforge-cli/pkg/playbook"
)

// Configuration field keys. Steps read these through the lazyconf store;
// nothing prompts until a step actually reads a deferred field.
const (
	FieldMaxThreads   = "max_system_threads"
	FieldBuildThreads = "build_threads"
	FieldGitUserName  = "git_user_name"
	FieldGitEmail     = "git_email"
	FieldGitKeyLength = "git_key_length"
	FieldGitHubToken  = "github_token"
)

// DeclareFields registers every interactive configuration field for a run.
// Defaults come from the playbook's git identity where present; the GitHub
// token is taken from envToken when non-empty and otherwise prompted for on
// first use, validated against the API so a typo fails before a build starts.
func DeclareFields(ctx context.Context, store *lazyconf.Store, asker *prompt.Asker, releases *ghrelease.Client, pb *playbook.Playbook, envToken string) {
	maxThreads := sysinfo.MaxBuildThreads()
	store.Set(FieldMaxThreads, maxThreads)

	store.SetDeferred(FieldBuildThreads, prompt.Deferred(asker, prompt.Question{
		Message:    "Enter number of build threads",
		Default:    strconv.Itoa(maxThreads),
		HasDefault: true,
		Convert:    sysinfo.ThreadCount(maxThreads),
	}))

	var gitName, gitEmail string
	keyLength := 4096
	if pb.Git != nil {
		gitName = pb.Git.UserName
		gitEmail = pb.Git.Email
		keyLength = pb.Git.KeyLength
	}

	store.SetDeferred(FieldGitUserName, prompt.Deferred(asker, prompt.Question{
		Message:    "Enter git user-name",
		Default:    gitName,
		HasDefault: gitName != "",
	}))
	store.SetDeferred(FieldGitEmail, prompt.Deferred(asker, prompt.Question{
		Message:    "Enter git email-address",
		Default:    gitEmail,
		HasDefault: gitEmail != "",
	}))
	store.SetDeferred(FieldGitKeyLength, prompt.Deferred(asker, prompt.Question{
		Message:    "Enter git key length",
		Default:    strconv.Itoa(keyLength),
		HasDefault: true,
		Convert:    prompt.Int,
	}))

	if envToken != "" {
		store.Set(FieldGitHubToken, envToken)
		return
	}
	store.SetDeferred(FieldGitHubToken, prompt.Deferred(asker, prompt.Question{
		Message: "Enter GitHub personal token",
		Convert: func(raw string) (any, error) {
			token, err := releases.ValidateToken(ctx, raw)
			if err != nil {
				return nil, err
			}
			return token, nil
		},
	}))
}
