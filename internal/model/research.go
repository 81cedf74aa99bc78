package model

// ResearchFinding is the verified answer to one open research question
type ResearchFinding struct {
	Question   string           `json:"question"`
	Answer     string           `json:"answer"`
	Confidence float64          `json:"confidence"`
	Sources    []VerifiedSource `json:"sources"`
	Unverified []string         `json:"unverified,omitempty"`
}

// ResearchedTopic is the rolled-up publish decision for one topic.
// It is derived state: always recomputed wholesale from its findings,
// never patched incrementally.
type ResearchedTopic struct {
	TopicID           string            `json:"topicId"`
	SourceID          string            `json:"sourceId"`
	SourceURL         string            `json:"sourceUrl"`
	Findings          []ResearchFinding `json:"findings"`
	OverallConfidence float64           `json:"overallConfidence"`
	CanPublish        bool              `json:"canPublish"`
}

// Topic is the input side of research: a discovered subject plus the open
// questions an article about it would have to answer.
type Topic struct {
	TopicID   string   `json:"topicId"`
	SourceID  string   `json:"sourceId"`
	SourceURL string   `json:"sourceUrl"`
	Title     string   `json:"title,omitempty"`
	Summary   string   `json:"summary,omitempty"`
	Questions []string `json:"questions"`
}
