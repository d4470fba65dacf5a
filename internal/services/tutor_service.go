package services

import (
	"context"
	"fmt"

	"github.com/markdave123-py/Cluster/internal/core"
	"github.com/markdave123-py/Cluster/internal/core/persona"
)

// TutorService builds the persona prompts for each model call.
type TutorService struct {
	llm      core.LLMProvider
	personas *persona.Store
}

func NewTutorService(llm core.LLMProvider, personas *persona.Store) *TutorService {
	return &TutorService{llm: llm, personas: personas}
}

// Summarise condenses one chunk of lecture text.
func (s *TutorService) Summarise(ctx context.Context, chunk string) (string, error) {
	return s.llm.Generate(ctx, s.personas.Get(persona.Summarise), chunk)
}

// Query answers text in the voice of the student prompt, flavoured with a
// randomly chosen persona. An empty student means default_student.
func (s *TutorService) Query(ctx context.Context, text, student string) (string, error) {
	if student == "" {
		student = persona.DefaultStudent
	}
	key, err := s.personas.ChooseRandom()
	if err != nil {
		return "", err
	}
	system := fmt.Sprintf("%s\n\nPersona: %s", s.personas.Get(student), s.personas.Get(key))
	return s.llm.Generate(ctx, system, text)
}

// Evaluate grades an answer to a question.
func (s *TutorService) Evaluate(ctx context.Context, question, answer string) (string, error) {
	user := fmt.Sprintf("Question: %s\n\nAnswer: %s", question, answer)
	return s.llm.Generate(ctx, s.personas.Get(persona.EvaluateResponse), user)
}
