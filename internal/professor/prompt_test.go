package professor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	lines := strings.Split(BuildPrompt("O que é derivada?"), "\n")

	require.Len(t, lines, 5)
	assert.Equal(t, "Você é um professor experiente explicando conteúdos de forma clara e motivadora.", lines[0])
	assert.Contains(t, lines[1], "(1) Visão geral")
	assert.Contains(t, lines[1], "(5) Próximos passos.")
	assert.Equal(t, "Pergunta do estudante: O que é derivada?.", lines[3])
	assert.Equal(t, "Responda em português simples, mantendo tom acolhedor e encorajador.", lines[4])
}
