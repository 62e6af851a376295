package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DigestCurator/internal/domain"
)

func TestClassifyContentTypePriority(t *testing.T) {
	t.Parallel()

	c := NewDefault()
	tests := []struct {
		name  string
		title string
		body  string
		want  domain.ContentType
	}{
		{name: "launch", title: "Introducing Cursor 2.0", want: domain.ContentProductLaunch},
		{name: "launch wins over pricing", title: "We launch new pricing", want: domain.ContentProductLaunch},
		{name: "security", title: "Critical vulnerability found", body: "Patch now.", want: domain.ContentSecurityIncident},
		{name: "funding", title: "Startup raises $40M", want: domain.ContentFundingMnA},
		{name: "promoted general", title: "How to write good prompts", body: "A short tutorial.", want: domain.ContentThoughtLeadership},
		{name: "general", title: "Notes from the week", want: domain.ContentGeneral},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Classify(tc.title, tc.body).ContentType)
		})
	}
}

func TestClassifyTagsAreUnion(t *testing.T) {
	t.Parallel()

	res := NewDefault().Classify(
		"Agentic code review with vector retrieval",
		"Observability and audit policy for the review agent.",
	)

	assert.Equal(t, domain.ContentGeneral, res.ContentType)
	assert.Equal(t, []string{"code_review", "retrieval", "agents", "observability", "governance"}, res.Tags)
}

func TestClassifyShortKeywordsMatchWholeWords(t *testing.T) {
	t.Parallel()

	res := NewDefault().Classify("Improve storage leverage", "Provide average side projects")
	assert.Empty(t, res.Tags)

	res = NewDefault().Classify("Open a PR in your IDE", "")
	assert.Equal(t, []string{"code_review", "ide"}, res.Tags)
}

func TestClassifyIsDeterministic(t *testing.T) {
	t.Parallel()

	c := NewDefault()
	title := "Announcing MCP support for agents in JetBrains"
	body := "Retrieval and documentation improvements with test coverage."

	first := c.Classify(title, body)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, c.Classify(title, body))
	}
}

func TestClassifyWithInjectedTables(t *testing.T) {
	t.Parallel()

	c := New(Tables{
		ContentTypes: []ContentRule{{ContentType: domain.ContentBenchmarkEval, Keywords: []string{"leaderboard"}}},
		Topics:       []TopicRule{{Tag: "search", Keywords: []string{"grep"}}},
	})

	res := c.Classify("New leaderboard for grep tools", "")
	assert.Equal(t, domain.ContentBenchmarkEval, res.ContentType)
	assert.Equal(t, []string{"search"}, res.Tags)

	res = c.Classify("How to grep", "")
	assert.Equal(t, domain.ContentGeneral, res.ContentType, "no promote keywords configured")
}

func TestApplyMergesExistingTags(t *testing.T) {
	t.Parallel()

	item := domain.CandidateItem{Title: "Pinecone adds hybrid search", Tags: []string{"starred", "retrieval"}}
	NewDefault().Apply(&item)

	assert.Equal(t, []string{"retrieval", "starred"}, item.Tags)
	assert.Equal(t, domain.ContentGeneral, item.ContentType)
}

func TestMergeTags(t *testing.T) {
	t.Parallel()

	got := MergeTags([]string{"search", " AI "}, nil, []string{"Search", "", "ai", "agents"})
	assert.Equal(t, []string{"search", "AI", "agents"}, got)
	assert.Nil(t, MergeTags(nil, []string{" "}))
}
