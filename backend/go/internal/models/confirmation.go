package models

import "time"

// ConfirmationStatus 定义了待确认记录的生命周期状态。
// 仅允许 pending → accepted 与 pending → rejected 两种迁移。
type ConfirmationStatus string

const (
	ConfirmationPending  ConfirmationStatus = "pending"  // 等待人工确认
	ConfirmationAccepted ConfirmationStatus = "accepted" // 已接受并提交
	ConfirmationRejected ConfirmationStatus = "rejected" // 已拒绝或被取代
)

// ReasonSuperseded marks a pending record closed because a newer candidate
// of the same fact type arrived.
const ReasonSuperseded = "superseded"

// PendingConfirmation 是确认队列持久化的一条待审记录。
// 解决后不删除，保留为审计记录。
type PendingConfirmation struct {
	ID         string             `gorm:"primarykey;size:36" json:"id"`
	UserID     string             `gorm:"index:idx_user_type_status;size:64;not null" json:"user_id"`
	FactType   FactType           `gorm:"index:idx_user_type_status;type:varchar(32);not null" json:"fact_type"`
	OldValue   *string            `gorm:"size:1024" json:"old_value"`
	NewValue   string             `gorm:"size:1024;not null" json:"new_value"`
	Source     string             `gorm:"size:32" json:"source"`
	Confidence float64            `json:"confidence"`
	Context    string             `gorm:"size:2048" json:"context,omitempty"`
	Status     ConfirmationStatus `gorm:"index:idx_user_type_status;type:varchar(16);default:'pending';not null" json:"status"`
	Reason     string             `gorm:"size:32" json:"reason,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func (PendingConfirmation) TableName() string {
	return "pending_confirmations"
}
