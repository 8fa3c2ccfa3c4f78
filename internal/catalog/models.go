package catalog

// Question is one multiple-choice item from the master feed. Immutable once
// loaded; identity is ID, unique within a pool.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	// Correct is the 0-based index of the right option. Never serialized:
	// answer keys must not leave the server with a session payload.
	Correct int `json:"-"`
}

type Topic struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExamDefinition is static storefront configuration, loaded at process start.
type ExamDefinition struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Description          string  `json:"description,omitempty"`
	PriceCents           int     `json:"price_cents"` // 0 = free/practice
	QuestionCount        int     `json:"question_count"`
	PassThresholdPercent float64 `json:"pass_threshold_percent"`
	IsPractice           bool    `json:"is_practice"`
	DurationMinutes      int     `json:"duration_minutes,omitempty"`

	TopicIDs []string `json:"-"`
}
