package ai

import (
	"encoding/json"
	"fmt"

	"github.com/vitalpoint/backend/internal/domain/providers"
)

const promptPreamble = `You are a health-information assistant. You provide general wellness information only, never a diagnosis, prescription or emergency guidance. Always recommend consulting a qualified clinician for medical decisions. Return ONLY valid JSON matching the requested schema, with no surrounding prose or Markdown.`

// specializationPrompts maps a specialization tag to the system prompt
// sent to the model. Unknown tags fall back to a generic prompt per
// request kind.
var specializationPrompts = map[string]string{
	"general_health": promptPreamble + `
Schema:
{
  "reply": string (conversational answer in plain language),
  "follow_up_questions": string[] (0-3 short questions),
  "see_doctor": boolean (true if the user should consult a clinician soon)
}`,

	"symptom_triage": promptPreamble + `
Schema:
{
  "summary": string (1-2 sentences restating the reported symptoms),
  "possible_causes": string[] (2-5 common, non-alarmist possibilities),
  "urgency": string (one of: self_care, routine_visit, urgent_visit, emergency),
  "self_care": string[] (0-4 general self-care suggestions),
  "red_flags": string[] (0-4 symptoms that would warrant urgent care)
}`,

	"nutrition": promptPreamble + `
Schema:
{
  "summary": string (1-2 sentences about the described diet or meal),
  "estimated_calories": number (rough estimate, 0 if unknowable),
  "macronutrients": {"protein_g": number, "carbs_g": number, "fat_g": number},
  "suggestions": string[] (2-4 practical improvements)
}`,

	"mental_health": promptPreamble + `
Schema:
{
  "reflection": string (empathetic, non-clinical reflection of the input),
  "mood": string (one word, lowercase),
  "coping_strategies": string[] (2-4 gentle, practical strategies),
  "seek_support": boolean (true if professional support is advisable)
}
Never attempt a diagnosis. If the input suggests crisis or self-harm, set seek_support to true and include a local emergency service reminder in the reflection.`,

	"fitness_planning": promptPreamble + `
Schema:
{
  "summary": string (1-2 sentences about the plan),
  "weekly_plan": [{"day": string, "activity": string, "duration_minutes": number}],
  "progression": string (how to advance over 4 weeks),
  "cautions": string[] (0-3 safety notes)
}`,

	"health_education": promptPreamble + `
Schema:
{
  "title": string,
  "summary": string (2-3 sentences in simple language),
  "sections": [{"heading": string, "body": string}],
  "sources_note": string (reminder that content is general information)
}`,
}

var kindPrompts = map[providers.RequestKind]string{
	providers.RequestKindChat:       specializationPrompts["general_health"],
	providers.RequestKindAnalysis:   specializationPrompts["symptom_triage"],
	providers.RequestKindPrediction: specializationPrompts["fitness_planning"],
	providers.RequestKindEducation:  specializationPrompts["health_education"],
	providers.RequestKindEmotion:    specializationPrompts["mental_health"],
}

// buildSystemPrompt returns the system prompt for a request. The
// specialization tag wins; unknown tags fall back to the kind default.
func buildSystemPrompt(req *providers.AIRequest) string {
	if prompt, ok := specializationPrompts[req.Specialization]; ok {
		return prompt
	}
	if prompt, ok := kindPrompts[req.Kind]; ok {
		return prompt
	}
	return promptPreamble
}

// buildUserPrompt serializes the opaque request input as the user message
func buildUserPrompt(req *providers.AIRequest) (string, error) {
	if len(req.Input) == 0 {
		return "", fmt.Errorf("request input is required")
	}
	payload, err := json.Marshal(req.Input)
	if err != nil {
		return "", fmt.Errorf("failed to encode request input: %w", err)
	}
	return string(payload), nil
}
