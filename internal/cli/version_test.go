package cli

import (
	"bytes"
	"context"
	"runtime"
	"testing"

	"github.com/amoutonbrady/changemoji/internal/build"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Modifies build.Version; not parallel.
func TestVersionCommand(t *testing.T) {
	isolate(t)

	orig := build.Version
	build.Version = "v1.4.0"
	defer func() { build.Version = orig }()

	res := execute(t, context.Background(), "version", "--plain")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "changemoji v1.4.0\n")
	assert.Contains(t, res.stdout, "go: "+runtime.Version())

	res = execute(t, context.Background(), "v")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "changemoji v1.4.0")
	assert.NotContains(t, res.stdout, "development build")
}

func TestPrintPrettyVersion_DevBuild(t *testing.T) {
	orig := build.Version
	build.Version = "dev"
	defer func() { build.Version = orig }()

	var buf bytes.Buffer
	printPrettyVersion(&buf)
	assert.Contains(t, buf.String(), "development build")
}

func TestTruncateCommit(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		commit string
		want   string
	}{
		"full hash": {commit: "0123456789abcdef", want: "0123456"},
		"short":     {commit: "abc", want: "abc"},
		"unknown":   {commit: "unknown", want: "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, truncateCommit(tt.commit))
		})
	}
}
