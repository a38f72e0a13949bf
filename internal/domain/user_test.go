package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("s3cret"))
	assert.NotEqual(t, "s3cret", u.PasswordHash)
	assert.False(t, u.HasLegacyPassword())
	assert.True(t, u.CheckPassword("s3cret"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestUserLegacyPassword(t *testing.T) {
	u := &User{PasswordHash: "plain"}
	assert.True(t, u.HasLegacyPassword())
	assert.False(t, u.CheckPassword("plain"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
}

func TestTranscript(t *testing.T) {
	h := []ChatMessage{AssistantMessage("Olá"), UserMessage("Quero falar de drones")}
	assert.Equal(t, "Assistente: Olá\n\nUsuário: Quero falar de drones", Transcript(h, "Usuário", "Assistente"))

	cp := CloneHistory(h)
	cp[0].Content = "x"
	assert.Equal(t, "Olá", h[0].Content)
	assert.Nil(t, CloneHistory(nil))
}
