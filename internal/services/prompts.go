package services

import (
	"embed"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

const promptsYAMLEnv = "PROMPTS_YAML"

//go:embed prompts.yaml
var promptsFS embed.FS

// Fallback prompt texts used when the YAML is missing or invalid. They are
// byte-identical to the shipped prompts.yaml; the model contract (the 'yes'
// substring verdict, the trailing "Rewritten Question:" cue) depends on
// this exact wording.
const fallbackClassifyRelatedPrompt = `Determine if the following question is related to games. Answer with 'Yes' or 'No'.

Question: "{question}"`

const fallbackRewriteQueryPrompt = `
Please rewrite the following question by applying the following query rewriting techniques:

1. Correct any spelling mistakes.
2. Simplify the question to be more straightforward and easily understandable.
3. Replace words with synonyms where appropriate to broaden the search results.
4. Handle any negative queries correctly by rephrasing them to reflect the true intent.
5. Paraphrase the question while maintaining its original meaning.

Original Question: "{question}"

Rewritten Question:
`

const fallbackGenerateAnswerPrompt = `
You are a game instructor assistant. Use the following game information to answer the user's question.

Game Name: {game_name}
Description: {description}
Alternate Names: {alternate_names}
Subcategory: {subcategory}
Level: {level}
Players Max: {players_max}
Age Range: {age_range}
Duration: {duration}
Equipment Needed: {equipment_needed}
Objective: {objective}
Skills Developed: {skills_developed}
Setup Time: {setup_time}
Place: {place}
Physical Intensity Level: {physical_intensity_level}
Educational Benefits: {educational_benefits}
Category: {category}

User's Question: {question}

Answer:
`

type yamlPromptSpec struct {
	Prompts yamlPromptSet `yaml:"prompts"`
}

type yamlPromptSet struct {
	ClassifyRelated string `yaml:"classify_related"`
	RewriteQuery    string `yaml:"rewrite_query"`
	GenerateAnswer  string `yaml:"generate_answer"`
}

var promptsOnce sync.Once
var promptsCache *yamlPromptSet
var promptsErr error

func currentPromptSet(log *logger.Logger) *yamlPromptSet {
	promptsOnce.Do(func() {
		promptsCache, promptsErr = loadPromptSet()
	})
	if promptsErr != nil {
		if log != nil {
			log.Warn("prompt set load failed; using baked-in prompts", "error", promptsErr)
		}
		return nil
	}
	return promptsCache
}

func classifyRelatedPrompt(log *logger.Logger, question string) string {
	tmpl := fallbackClassifyRelatedPrompt
	if set := currentPromptSet(log); set != nil && strings.TrimSpace(set.ClassifyRelated) != "" {
		tmpl = set.ClassifyRelated
	}
	return renderPrompt(tmpl, map[string]string{"question": question})
}

func rewriteQueryPrompt(log *logger.Logger, question string) string {
	tmpl := fallbackRewriteQueryPrompt
	if set := currentPromptSet(log); set != nil && strings.TrimSpace(set.RewriteQuery) != "" {
		tmpl = set.RewriteQuery
	}
	return renderPrompt(tmpl, map[string]string{"question": question})
}

func generateAnswerPrompt(log *logger.Logger, vars map[string]string) string {
	tmpl := fallbackGenerateAnswerPrompt
	if set := currentPromptSet(log); set != nil && strings.TrimSpace(set.GenerateAnswer) != "" {
		tmpl = set.GenerateAnswer
	}
	return renderPrompt(tmpl, vars)
}

// renderPrompt substitutes {name} placeholders. Placeholders without a
// matching var pass through unchanged.
func renderPrompt(tmpl string, vars map[string]string) string {
	if len(vars) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func loadPromptSet() (*yamlPromptSet, error) {
	data, err := readPromptsFile()
	if err != nil {
		return nil, err
	}
	var spec yamlPromptSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	return &spec.Prompts, nil
}

func readPromptsFile() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(promptsYAMLEnv)); path != "" {
		return os.ReadFile(path)
	}
	return promptsFS.ReadFile("prompts.yaml")
}
