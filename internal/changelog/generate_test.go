package changelog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taggedHistory() *fakeProvider {
	return &fakeProvider{
		first: ReferencePoint{Name: "aaa1111", Date: "2022-12-01"},
		tags: []ReferencePoint{
			{Name: "tagA", Date: "2023-01-01"},
			{Name: "tagB", Date: "2023-06-01"},
		},
		last: ReferencePoint{Name: "fff9999", Date: "2023-07-01"},
		ranges: map[string][]Commit{
			"aaa1111..tagA": {
				{Hash: "b000002", Subject: "🎉 initial release"},
			},
			"tagA..tagB": {
				{Hash: "c000003", Subject: "🐛 fix crash"},
				{Hash: "c000002", Subject: "✨ add thing"},
				{Hash: "c000001", Subject: "refactor"},
			},
			"tagB..fff9999": {
				{Hash: "fff9999", Subject: "🚧 wip"},
			},
		},
		hashes: map[string]string{
			"aaa1111": "aaa1111000",
			"tagA":    "b000002000",
			"tagB":    "c000003000",
		},
	}
}

func TestReleaseLabel(t *testing.T) {
	t.Parallel()

	tagA := ReferencePoint{Name: "tagA", Date: "2023-01-01"}
	tagB := ReferencePoint{Name: "tagB", Date: "2023-06-01"}

	tests := map[string]struct {
		i, pairs int
		want     string
	}{
		"first pair":       {i: 0, pairs: 3, want: "[pre-1.0.0](tagA...tagB)"},
		"middle pair":      {i: 1, pairs: 3, want: "[tagB](tagA...tagB) (2023-06-01)"},
		"last pair":        {i: 2, pairs: 3, want: "[Unreleased](tagA...tagB)"},
		"single pair":      {i: 0, pairs: 1, want: "[pre-1.0.0](tagA...tagB)"},
		"two pairs, first": {i: 0, pairs: 2, want: "[pre-1.0.0](tagA...tagB)"},
		"two pairs, last":  {i: 1, pairs: 2, want: "[Unreleased](tagA...tagB)"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ReleaseLabel(tt.i, tt.pairs, tagA, tagB))
		})
	}
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	log, err := NewGenerator(taggedHistory()).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DefaultTitle, log.Title)
	assert.Equal(t, []string{
		"[pre-1.0.0](aaa1111...tagA)",
		"[tagB](tagA...tagB) (2023-06-01)",
		"[Unreleased](tagB...fff9999)",
	}, log.Labels())

	middle, err := log.GetRelease("[tagB](tagA...tagB) (2023-06-01)")
	require.NoError(t, err)
	require.Len(t, middle.Categories, 3)
	assert.Equal(t, Category{Name: "New feature", Commits: []string{"✨ add thing ([c000002](#))"}}, middle.Categories[0])
	assert.Equal(t, Category{Name: "Bug fix", Commits: []string{"🐛 fix crash ([c000003](#))"}}, middle.Categories[1])
	assert.Equal(t, Category{
		Name:    OtherCategory,
		Commits: []string{" ([b000002000](#))", "refactor ([c000001](#))"},
	}, middle.Categories[2])
}

func TestGenerator_ReleaseCountMatchesPairs(t *testing.T) {
	t.Parallel()

	for _, tagCount := range []int{0, 1, 2, 5} {
		p := &fakeProvider{
			first: ReferencePoint{Name: "root"},
			last:  ReferencePoint{Name: "head"},
		}
		for i := 0; i < tagCount; i++ {
			p.tags = append(p.tags, ReferencePoint{Name: string(rune('a' + i)), Date: "2024-01-01"})
		}

		log, err := NewGenerator(p).Generate(context.Background())
		require.NoError(t, err)
		assert.Len(t, log.Releases, tagCount+1, "tags=%d", tagCount)
	}
}

func TestGenerator_NoTags(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		first: ReferencePoint{Name: "aaa1111", Date: "2024-01-01"},
		last:  ReferencePoint{Name: "bbb2222", Date: "2024-02-01"},
		ranges: map[string][]Commit{
			"aaa1111..bbb2222": {{Hash: "bbb2222", Subject: "✨ feature"}},
		},
	}

	log, err := NewGenerator(p).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, log.Releases, 1)
	assert.Equal(t, "[pre-1.0.0](aaa1111...bbb2222)", log.Releases[0].Label)
}

func TestGenerator_HeadOnTag(t *testing.T) {
	t.Parallel()

	// HEAD coincides with the newest tag: the trailing range only holds
	// its boundary commit.
	p := &fakeProvider{
		first: ReferencePoint{Name: "aaa1111"},
		tags:  []ReferencePoint{{Name: "v1.0.0", Date: "2024-03-01"}},
		last:  ReferencePoint{Name: "ccc3333"},
	}

	log, err := NewGenerator(p).Generate(context.Background())
	require.NoError(t, err)

	latest := log.GetLatest()
	require.NotNil(t, latest)
	assert.Equal(t, "[Unreleased](v1.0.0...ccc3333)", latest.Label)
	require.Len(t, latest.Categories, 1)
	assert.Equal(t, []string{" ([v1.0.0full](#))"}, latest.Categories[0].Commits)
}

func TestGenerator_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sequential, err := NewGenerator(taggedHistory()).Generate(ctx)
	require.NoError(t, err)

	parallel, err := NewGenerator(taggedHistory(), WithJobs(4)).Generate(ctx)
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func TestGenerator_ProviderFailureAborts(t *testing.T) {
	t.Parallel()

	for _, jobs := range []int{1, 3} {
		p := taggedHistory()
		p.failOn = "range:tagA..tagB"

		log, err := NewGenerator(p, WithJobs(jobs)).Generate(context.Background())
		require.Error(t, err, "jobs=%d", jobs)
		assert.ErrorIs(t, err, errFake)
		assert.Nil(t, log)
	}
}

func TestGenerator_Options(t *testing.T) {
	t.Parallel()

	g := NewGenerator(&fakeProvider{}, WithTitle("Release notes"), WithJobs(0), WithLogger(nil), WithClassifier(nil))
	assert.Equal(t, "Release notes", g.title)
	assert.Equal(t, 1, g.jobs)
	assert.NotNil(t, g.logger)
	assert.NotNil(t, g.classifier)
}
