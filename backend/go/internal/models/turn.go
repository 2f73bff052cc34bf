package models

// ConversationTurn 是一次用户/助手对话回合，事实提取的输入单位。
type ConversationTurn struct {
	UserID            string `json:"user_id"`
	UserMessage       string `json:"user_message"`
	AssistantResponse string `json:"assistant_response"`
	Source            string `json:"source,omitempty"` // voice 或 chat，缺省按 chat 处理
}

// CandidateFact is an unconfirmed fact proposed by the extractor for a single
// turn. It is consumed within the same request and never persisted directly.
type CandidateFact struct {
	FactType             FactType `json:"fact_type"`
	Value                string   `json:"value"`
	Confidence           float64  `json:"confidence"`
	RequiresConfirmation bool     `json:"requires_confirmation"`
	Context              string   `json:"context,omitempty"`
}
