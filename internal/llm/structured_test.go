package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readinessPayload struct {
	Ready    bool    `json:"isReadyToGenerate"`
	Question string  `json:"questionToUser"`
	Summary  string  `json:"summarySoFar"`
	Score    float64 `json:"score"`
}

func TestExtractJSON_CleanJSON(t *testing.T) {
	raw := `{"isReadyToGenerate":true,"questionToUser":"","summarySoFar":"Artigo para gestores"}`
	result, err := ExtractJSON[readinessPayload](raw, nil)
	require.NoError(t, err)
	assert.True(t, result.Ready)
	assert.Equal(t, "Artigo para gestores", result.Summary)
}

func TestExtractJSON_FencedJSON(t *testing.T) {
	raw := "```json\n{\"isReadyToGenerate\":false,\"questionToUser\":\"Qual o objetivo?\"}\n```"
	result, err := ExtractJSON[readinessPayload](raw, nil)
	require.NoError(t, err)
	assert.False(t, result.Ready)
	assert.Equal(t, "Qual o objetivo?", result.Question)
}

func TestExtractJSON_SurroundingText(t *testing.T) {
	raw := "Segue a análise:\n{\"isReadyToGenerate\":true}\nAté mais!"
	result, err := ExtractJSON[readinessPayload](raw, nil)
	require.NoError(t, err)
	assert.True(t, result.Ready)
}

func TestExtractJSON_NestedBraces(t *testing.T) {
	type nested struct {
		Summary string            `json:"summarySoFar"`
		Meta    map[string]string `json:"meta"`
	}
	raw := `{"summarySoFar":"ok","meta":{"tom":"direto"}}`
	result, err := ExtractJSON[nested](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "direto", result.Meta["tom"])
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON[readinessPayload]("Não entendi a pergunta.", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	_, err := ExtractJSON[readinessPayload](`{"isReadyToGenerate":true, quebrado}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_WrongFieldType(t *testing.T) {
	_, err := ExtractJSON[readinessPayload](`{"isReadyToGenerate":"sim"}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidationFailure(t *testing.T) {
	validator := func(p readinessPayload) error {
		if !p.Ready && p.Question == "" {
			return errors.New("questionToUser required when not ready")
		}
		return nil
	}
	_, err := ExtractJSON(`{"isReadyToGenerate":false}`, validator)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")

	result, err := ExtractJSON(`{"isReadyToGenerate":false,"questionToUser":"Para quem?"}`, validator)
	require.NoError(t, err)
	assert.Equal(t, "Para quem?", result.Question)
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw := `{"summarySoFar":"use {chaves} e \"aspas\"","isReadyToGenerate":true}`
	result, err := ExtractJSON[readinessPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, `use {chaves} e "aspas"`, result.Summary)
}

func TestExtractJSON_CommentsAndLeadingDecimals(t *testing.T) {
	raw := "{\n  // confiança\n  \"score\": .8, /* ok */ \"isReadyToGenerate\": true\n}"
	result, err := ExtractJSON[readinessPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.8, result.Score)
	assert.True(t, result.Ready)
}

type testItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func TestExtractJSONArray_TopLevel(t *testing.T) {
	raw := "```json\n[{\"title\":\"A\",\"description\":\"a\"},{\"title\":\"B\",\"description\":\"b\"}]\n```"
	items, err := ExtractJSONArray[testItem](raw, nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "B", items[1].Title)
}

func TestExtractJSONArray_WrappedInObject(t *testing.T) {
	raw := `{"subtopics": [{"title":"A","description":"a [detalhe]"}]}`
	items, err := ExtractJSONArray[testItem](raw, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a [detalhe]", items[0].Description)
}

func TestExtractJSONArray_NoArray(t *testing.T) {
	_, err := ExtractJSONArray[testItem](`{"title":"A"}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "no JSON array")
}

func TestExtractJSONArray_ValidatorRejects(t *testing.T) {
	nonEmpty := func(items []testItem) error {
		if len(items) == 0 {
			return errors.New("empty")
		}
		return nil
	}
	_, err := ExtractJSONArray(`[]`, nonEmpty)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}
