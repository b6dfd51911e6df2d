// Package changelog builds an emoji-categorized changelog from git history.
//
// This package implements:
//   - Reference resolution: [first commit, tags..., last commit]
//   - Range extraction between adjacent reference points
//   - Commit classification against a fixed, ordered gitmoji rule table
//   - Release assembly with positional labels (pre-1.0.0, tag, Unreleased)
//   - Markdown, YAML and terminal rendering
//
// History is read through the Provider interface; internal/git supplies the
// go-git and git CLI implementations.
package changelog
