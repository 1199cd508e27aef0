package domain

// GameRecord mirrors the properties of the Weaviate "Game" class. JSON
// tags match the stored property names so GraphQL hits decode directly.
// StoreID is the Weaviate object id from _additional, not a property.
type GameRecord struct {
	StoreID string `json:"-"`

	GameID                 string `json:"gameId"`
	GameName               string `json:"gameName"`
	AlternateNames         string `json:"alternateNames"`
	Subcategory            string `json:"subcategory"`
	Level                  string `json:"level"`
	Description            string `json:"description"`
	PlayersMax             int    `json:"playersMax"`
	AgeRange               string `json:"ageRange"`
	Duration               int    `json:"duration"`
	EquipmentNeeded        string `json:"equipmentNeeded"`
	Objective              string `json:"objective"`
	SkillsDeveloped        string `json:"skillsDeveloped"`
	SetupTime              int    `json:"setupTime"`
	Place                  string `json:"place"`
	PhysicalIntensityLevel string `json:"physicalIntensityLevel"`
	EducationalBenefits    string `json:"educationalBenefits"`
	Category               string `json:"category"`
}

// Answer is one generated response grounded in a single matched game.
// Field keys mirror the wire shape the chat endpoint returns.
type Answer struct {
	GameName    string `json:"game_name"`
	AnswerText  string `json:"answer"`
	GameID      string `json:"game_id"`
	Subcategory string `json:"subcategory"`
	Level       string `json:"level"`
	Category    string `json:"category"`
}

// AnswerResult is the pipeline outcome. Exactly one of three shapes:
// not related (message set), related with no match (message set), or
// related with answers. RewrittenQuestion is always populated.
type AnswerResult struct {
	IsRelated         bool     `json:"is_related"`
	Message           string   `json:"message,omitempty"`
	Answers           []Answer `json:"answers,omitempty"`
	RewrittenQuestion string   `json:"rewritten_question"`
}

// HasAnswers reports whether the result carries at least one answer.
func (r AnswerResult) HasAnswers() bool { return r.IsRelated && len(r.Answers) > 0 }
