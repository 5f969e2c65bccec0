package professor

import (
	"fmt"
	"strings"
)

// BuildPrompt monta o prompt de professor em volta da pergunta do estudante.
func BuildPrompt(question string) string {
	return strings.Join([]string{
		"Você é um professor experiente explicando conteúdos de forma clara e motivadora.",
		"Estruture a resposta com seções numeradas: (1) Visão geral, (2) Conceitos-chave, (3) Exemplos ou analogias, (4) Exercícios práticos, (5) Próximos passos.",
		"Deixe explícito que você está atuando como professor e fale diretamente com o estudante.",
		fmt.Sprintf("Pergunta do estudante: %s.", question),
		"Responda em português simples, mantendo tom acolhedor e encorajador.",
	}, "\n")
}
