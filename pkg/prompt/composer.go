package prompt

import (
	"fmt"
	"strconv"

	"feedbackgen/pkg/ai"
)

// SystemInstruction is the fixed persona sent with every request.
const SystemInstruction = `Você é um assistente de feedback para professores, especializado em gerar mensagens de retorno personalizadas, motivacionais, explicativas e coerentes com o desempenho do aluno. Seu objetivo é ajudar o professor a fornecer uma devolutiva construtiva e inspiradora. O feedback deve ser amigável e encorajador.`

// Field names of the reply contract.
const (
	FieldFeedbackText = "feedbackText"
	FieldSuggestions  = "actionableSuggestions"
)

// Sampling is fixed; it is not tunable by the user.
var Sampling = ai.Sampling{
	Temperature:     0.8,
	TopP:            0.95,
	TopK:            64,
	MaxTokens:       1024,
	ReasoningBudget: 256,
}

// Input is what the composer embeds into the prompt.
type Input struct {
	StudentName           string
	ActivityTitle         string
	UC                    string
	Grade                 float64
	ActivityPromptContent string
}

var closed = false

// ResponseShape requires exactly feedbackText and actionableSuggestions.
func ResponseShape() *ai.Schema {
	return &ai.Schema{
		Type: "object",
		Properties: map[string]*ai.Schema{
			FieldFeedbackText: {
				Type:        "string",
				Description: "Uma mensagem de feedback motivacional, explicativa e coerente para o aluno.",
			},
			FieldSuggestions: {
				Type:        "array",
				Items:       &ai.Schema{Type: "string"},
				Description: "Sugestões específicas para melhoria, reorientação ou próximos passos com base na nota.",
			},
		},
		Required:             []string{FieldFeedbackText, FieldSuggestions},
		AdditionalProperties: &closed,
		PropertyOrdering:     []string{FieldFeedbackText, FieldSuggestions},
	}
}

// Compose builds the generation request. It never calls the service.
func Compose(in Input, tone string) ai.GenerationRequest {
	return ai.GenerationRequest{
		Prompt:            render(in, tone),
		SystemInstruction: SystemInstruction,
		ResponseShape:     ResponseShape(),
		Sampling:          Sampling,
	}
}

// FormatGrade prints the shortest decimal form: 8.5, 8, 9.25.
func FormatGrade(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}

func render(in Input, tone string) string {
	return fmt.Sprintf(`
Gere um feedback personalizado para o(a) aluno(a) %s na atividade "%s" da Unidade Curricular "%s".
A nota do(a) aluno(a) foi %s (em uma escala de 0 a 10).
Considerando esta nota, o feedback deve ter o seguinte foco: %s

O enunciado da atividade é:
`+"```"+`
%s
`+"```"+`

A mensagem deve ser clara, construtiva e motivacional. Inclua menção ao nome do aluno e ao título da atividade.
Forneça o feedback principal e uma lista separada de sugestões acionáveis ou pontos para reorientação, se aplicável.`,
		in.StudentName, in.ActivityTitle, in.UC, FormatGrade(in.Grade), tone, in.ActivityPromptContent)
}
