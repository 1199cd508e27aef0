package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/playdeck/gameguide-backend/internal/clients/openai"
	types "github.com/playdeck/gameguide-backend/internal/domain"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

// answerUnavailableMessage is the fixed apology returned when generation
// fails. It is user-visible and part of the pipeline contract.
const answerUnavailableMessage = "Sorry, I couldn't generate an answer at this time."

// AnswerGenService composes the grounded answer for one matched game.
type AnswerGenService interface {
	Generate(ctx context.Context, game types.GameRecord, question string) string
}

type answerGenService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewAnswerGenService(baseLog *logger.Logger, ai openai.Client) AnswerGenService {
	return &answerGenService{
		log: baseLog.With("service", "AnswerGenService"),
		ai:  ai,
	}
}

// Generate serializes every game attribute into the instructor prompt and
// asks the model to answer from that context alone. Failures return the
// apology string; one failed hit never aborts generation for the others.
func (s *answerGenService) Generate(ctx context.Context, game types.GameRecord, question string) string {
	out, err := s.ai.Complete(ctx, generateAnswerPrompt(s.log, answerPromptVars(game, question)))
	if err != nil {
		s.log.Warn("answer generation failed", "game_id", game.GameID, "error", err)
		return answerUnavailableMessage
	}
	return out
}

// answerPromptVars renders every attribute, never omitting one: blank
// strings become N/A (name and description carry their own defaults) and
// non-positive counts become N/A.
func answerPromptVars(game types.GameRecord, question string) map[string]string {
	return map[string]string{
		"game_name":                stringOr(game.GameName, "Unknown Game"),
		"description":              stringOr(game.Description, "No description available."),
		"alternate_names":          stringOr(game.AlternateNames, "N/A"),
		"subcategory":              stringOr(game.Subcategory, "N/A"),
		"level":                    stringOr(game.Level, "N/A"),
		"players_max":              intOrNA(game.PlayersMax),
		"age_range":                stringOr(game.AgeRange, "N/A"),
		"duration":                 intOrNA(game.Duration),
		"equipment_needed":         stringOr(game.EquipmentNeeded, "N/A"),
		"objective":                stringOr(game.Objective, "N/A"),
		"skills_developed":         stringOr(game.SkillsDeveloped, "N/A"),
		"setup_time":               intOrNA(game.SetupTime),
		"place":                    stringOr(game.Place, "N/A"),
		"physical_intensity_level": stringOr(game.PhysicalIntensityLevel, "N/A"),
		"educational_benefits":     stringOr(game.EducationalBenefits, "N/A"),
		"category":                 stringOr(game.Category, "N/A"),
		"question":                 question,
	}
}

func stringOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func intOrNA(v int) string {
	if v <= 0 {
		return "N/A"
	}
	return strconv.Itoa(v)
}
