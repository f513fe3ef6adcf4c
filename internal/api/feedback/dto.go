package feedback

type LiveFeedbackRequest struct {
	EyeContactPercentage int    `json:"eyeContactPercentage" validate:"min=0,max=100"`
	WordsPerMinute       int    `json:"wordsPerMinute" validate:"min=0"`
	FillerWordsCount     int    `json:"fillerWordsCount" validate:"min=0"`
	ElapsedSeconds       int    `json:"elapsedSeconds" validate:"min=0"`
	Posture              string `json:"posture" validate:"omitempty,oneof=good slouching leaning unknown"`
}

type LiveFeedbackResponse struct {
	Feedback string `json:"feedback"`
	Score    int    `json:"score"`
	Source   string `json:"source"`
}
