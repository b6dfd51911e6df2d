package errors

import "fmt"

// Common error messages for the changemoji CLI.

// NotARepository creates an error for a path that is not inside a git repository.
func NotARepository(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("the path is not a git repository: %s", path),
		"Pass the path of a git repository: changemoji <path>",
		"Or run changemoji from inside the repository",
	)
}

// ProviderFailure creates an error for a failed history query. The run is
// aborted and no changelog is written.
func ProviderFailure(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"reading git history failed",
		"Make sure the repository has at least one commit",
		"Re-run with --debug to see the failing git query",
		"Try the git CLI provider: changemoji --provider cli",
	)
}

// ConfigParseError creates an error for an unreadable or invalid config file.
func ConfigParseError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Check .changemoji.yml and ~/.config/changemoji/config.yml for syntax errors",
		"Environment overrides use the CHANGEMOJI_ prefix (e.g. CHANGEMOJI_OUTPUT)",
	)
}

// InvalidFlagValue creates an error for a flag with an unsupported value.
func InvalidFlagValue(flag, value string, valid ...string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid value %q for --%s", value, flag),
		fmt.Sprintf("Valid values: %v", valid),
		"Use 'changemoji --help' to see valid options",
	)
}

// FileNotWritable creates an error when the output file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure the parent directory exists and is writable",
	)
}
