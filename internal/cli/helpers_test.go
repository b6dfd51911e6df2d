package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Tests in this package that execute commands set XDG_CONFIG_HOME and
// CHANGEMOJI_* variables, so they do not run in parallel.

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs a fresh command tree with args.
func execute(t *testing.T, ctx context.Context, args ...string) result {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// isolate keeps the developer's own user config out of the run.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

// fixture is a repository with five commits and tags v1.0.0 (c3) and v1.1.0 (c4).
type fixture struct {
	dir     string
	repo    *git.Repository
	commits []plumbing.Hash
}

func signature(day int) *object.Signature {
	return &object.Signature{
		Name:  "Dev",
		Email: "dev@example.com",
		When:  time.Date(2024, time.January, day, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) commit(t *testing.T, msg string, day int) plumbing.Hash {
	t.Helper()

	wt, err := f.repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "notes.txt"), []byte(msg), 0o644))
	_, err = wt.Add("notes.txt")
	require.NoError(t, err)

	h, err := wt.Commit(msg, &git.CommitOptions{Author: signature(day), Committer: signature(day)})
	require.NoError(t, err)
	f.commits = append(f.commits, h)
	return h
}

func (f *fixture) tag(t *testing.T, name string, h plumbing.Hash) {
	t.Helper()
	_, err := f.repo.CreateTag(name, h, nil)
	require.NoError(t, err)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	f := &fixture{dir: dir, repo: repo}
	f.commit(t, "🎉 initial commit", 1)
	f.commit(t, "✨ add parser", 2)
	f.tag(t, "v1.0.0", f.commit(t, "🐛 fix crash", 3))
	f.tag(t, "v1.1.0", f.commit(t, "💄 polish output", 4))
	f.commit(t, "update readme", 5)
	return f
}

func (f *fixture) short(i int) string {
	return f.commits[i].String()[:7]
}

func (f *fixture) full(i int) string {
	return f.commits[i].String()
}
