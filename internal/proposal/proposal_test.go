package proposal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FullProposal(t *testing.T) {
	t.Parallel()

	raw := `{
		"assistant_reply": "Adding a helper and fixing the typo.",
		"files_to_create": [
			{"path": "util/helper.go", "content": "package util\n"}
		],
		"files_to_edit": [
			{"path": "main.go", "original_snippet": "fmt.Pritnln", "new_snippet": "fmt.Println"}
		]
	}`

	p, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Adding a helper and fixing the typo.", p.AssistantReply)
	require.Len(t, p.FilesToCreate, 1)
	assert.Equal(t, "util/helper.go", p.FilesToCreate[0].Path)
	require.Len(t, p.FilesToEdit, 1)
	assert.Equal(t, "fmt.Pritnln", p.FilesToEdit[0].OriginalSnippet)
}

func TestParse_ReplyOnly(t *testing.T) {
	t.Parallel()

	p, err := Parse(`{"assistant_reply": "Just talking."}`)
	require.NoError(t, err)
	assert.Equal(t, "Just talking.", p.AssistantReply)
	assert.Empty(t, p.FilesToCreate)
	assert.Empty(t, p.FilesToEdit)
}

func TestParse_MissingReplyFails(t *testing.T) {
	t.Parallel()

	_, err := Parse(`{"files_to_create": [{"path": "a.go", "content": "x"}]}`)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Reason, "assistant_reply")
	// The raw payload is preserved for user inspection.
	assert.Contains(t, schemaErr.Raw, "files_to_create")
}

func TestParse_UnknownFieldsIgnored(t *testing.T) {
	t.Parallel()

	p, err := Parse(`{"assistant_reply": "ok", "confidence": 0.9, "thoughts": ["a"]}`)
	require.NoError(t, err)
	assert.Equal(t, "ok", p.AssistantReply)
}

func TestParse_IncompleteEditEntryVoidsWholeProposal(t *testing.T) {
	t.Parallel()

	raw := `{
		"assistant_reply": "ok",
		"files_to_edit": [{"path": "main.go", "original_snippet": "a"}]
	}`
	p, err := Parse(raw)
	assert.Nil(t, p)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Reason, "files_to_edit[0]")
}

func TestParse_WrongTypeFails(t *testing.T) {
	t.Parallel()

	_, err := Parse(`{"assistant_reply": 42}`)
	var schemaErr *SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestParse_EmptyResponse(t *testing.T) {
	t.Parallel()

	_, err := Parse("   \n ")
	var schemaErr *SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestParse_MarkdownFencedJSON(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"assistant_reply\": \"fenced\"}\n```"
	p, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "fenced", p.AssistantReply)
}

func TestParse_RepairsTrailingComma(t *testing.T) {
	t.Parallel()

	raw := `{"assistant_reply": "repaired", "files_to_create": [],}`
	p, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "repaired", p.AssistantReply)
}

func TestParse_GarbageStaysGarbage(t *testing.T) {
	t.Parallel()

	_, err := Parse("I decided not to return JSON today.")
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "I decided not to return JSON today.", schemaErr.Raw)
}

func TestParse_EmptyCreatePathFails(t *testing.T) {
	t.Parallel()

	raw := `{"assistant_reply": "ok", "files_to_create": [{"path": "", "content": "x"}]}`
	_, err := Parse(raw)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Reason, "path must not be empty")
}
