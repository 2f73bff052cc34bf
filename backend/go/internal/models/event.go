package models

// EventType 枚举了通知通道上的事件类型。
type EventType string

const (
	EventNewConfirmation      EventType = "new_confirmation"
	EventConfirmationResolved EventType = "confirmation_resolved"
)

// ConfirmationResolution 是 confirmation_resolved 事件的载荷。
type ConfirmationResolution struct {
	ID     string             `json:"id"`
	Status ConfirmationStatus `json:"status"`
}

// NotificationEvent 是推送给审核端的瞬态事件，不做持久化：
// 断线期间错过的事件通过重连后的全量 List 补齐。
type NotificationEvent struct {
	Type         EventType               `json:"type"`
	Confirmation *PendingConfirmation    `json:"confirmation,omitempty"`
	Resolution   *ConfirmationResolution `json:"resolution,omitempty"`
}
