package model

// GenerateRequest represents the request body for POST /generate
type GenerateRequest struct {
	BaseText       string `json:"baseText" validate:"required"`
	TargetLength   int    `json:"targetLength"`
	TargetEmotion  string `json:"targetEmotion"`
	TargetLanguage string `json:"targetLanguage"`
	AnalysisOnly   bool   `json:"analysisOnly"`
}

// GenerateResponse represents the response body for POST /generate.
// Error is only set on failure responses, in which case Emotion and
// Language are omitted.
type GenerateResponse struct {
	Text     string `json:"text"`
	Emotion  string `json:"emotion,omitempty"`
	Language string `json:"language,omitempty"`
	Error    string `json:"error,omitempty"`
}
