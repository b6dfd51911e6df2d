package cli

// Exit codes for the changemoji CLI
const (
	// ExitSuccess indicates the changelog was generated (or previewed).
	ExitSuccess = 0

	// ExitFailure indicates any failure: not a repository, unreadable
	// history, invalid flags or config, or an unwritable output file.
	// No output file is written in that case.
	ExitFailure = 1
)
