// Package proposal validates the model's structured output. The raw
// response is the trust boundary between the model and the filesystem:
// nothing in it is acted on before it passes schema validation here.
package proposal

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// FileCreate is a full-file write instruction.
type FileCreate struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// FileEdit is exactly one snippet substitution in an existing file.
type FileEdit struct {
	Path            string `json:"path"`
	OriginalSnippet string `json:"original_snippet"`
	NewSnippet      string `json:"new_snippet"`
}

// Proposal is a validated model response: the reply text plus optional
// create and edit batches, in the order the model emitted them.
type Proposal struct {
	AssistantReply string
	FilesToCreate  []FileCreate
	FilesToEdit    []FileEdit
}

// SchemaError reports a response that could not be validated. It is
// distinct from a transport failure; the raw payload is preserved so the
// user can inspect what the model actually sent.
type SchemaError struct {
	Reason string
	Raw    string
}

func (e *SchemaError) Error() string {
	return "invalid model response: " + e.Reason
}

// wire types use pointers so that a missing field is distinguishable from
// an empty one. Unknown fields are ignored by encoding/json.
type wireProposal struct {
	AssistantReply *string      `json:"assistant_reply"`
	FilesToCreate  []wireCreate `json:"files_to_create"`
	FilesToEdit    []wireEdit   `json:"files_to_edit"`
}

type wireCreate struct {
	Path    *string `json:"path"`
	Content *string `json:"content"`
}

type wireEdit struct {
	Path            *string `json:"path"`
	OriginalSnippet *string `json:"original_snippet"`
	NewSnippet      *string `json:"new_snippet"`
}

// Parse validates a raw model response against the proposal schema. Any
// structural mismatch voids the whole proposal; there is no partial
// recovery. Near-JSON output (markdown fences, trailing commas, unquoted
// keys) gets one repair pass before being rejected.
func Parse(raw string) (*Proposal, error) {
	text := stripFences(strings.TrimSpace(raw))
	if text == "" {
		return nil, &SchemaError{Reason: "empty response", Raw: raw}
	}

	var wire wireProposal
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return nil, &SchemaError{Reason: fmt.Sprintf("malformed JSON: %v", err), Raw: raw}
		}
		if err := json.Unmarshal([]byte(repaired), &wire); err != nil {
			return nil, &SchemaError{Reason: fmt.Sprintf("malformed JSON after repair: %v", err), Raw: raw}
		}
	}

	return validate(&wire, raw)
}

func validate(wire *wireProposal, raw string) (*Proposal, error) {
	if wire.AssistantReply == nil {
		return nil, &SchemaError{Reason: "missing required field assistant_reply", Raw: raw}
	}

	p := &Proposal{AssistantReply: *wire.AssistantReply}

	for idx, c := range wire.FilesToCreate {
		if c.Path == nil || c.Content == nil {
			return nil, &SchemaError{
				Reason: fmt.Sprintf("files_to_create[%d]: path and content are required", idx),
				Raw:    raw,
			}
		}
		if *c.Path == "" {
			return nil, &SchemaError{
				Reason: fmt.Sprintf("files_to_create[%d]: path must not be empty", idx),
				Raw:    raw,
			}
		}
		p.FilesToCreate = append(p.FilesToCreate, FileCreate{Path: *c.Path, Content: *c.Content})
	}

	for idx, e := range wire.FilesToEdit {
		if e.Path == nil || e.OriginalSnippet == nil || e.NewSnippet == nil {
			return nil, &SchemaError{
				Reason: fmt.Sprintf("files_to_edit[%d]: path, original_snippet and new_snippet are required", idx),
				Raw:    raw,
			}
		}
		if *e.Path == "" {
			return nil, &SchemaError{
				Reason: fmt.Sprintf("files_to_edit[%d]: path must not be empty", idx),
				Raw:    raw,
			}
		}
		p.FilesToEdit = append(p.FilesToEdit, FileEdit{
			Path:            *e.Path,
			OriginalSnippet: *e.OriginalSnippet,
			NewSnippet:      *e.NewSnippet,
		})
	}

	return p, nil
}

// stripFences unwraps a ```json ... ``` or ``` ... ``` block. Models wrap
// structured output in fences often enough that this is worth doing before
// the strict parse.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		// Drop the info string ("json", "JSON", ...) on the opening fence.
		body = body[nl+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}
