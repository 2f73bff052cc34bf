package models

import "time"

// FactType 枚举了用户画像中允许出现的事实类型。
// 未在此枚举中的类型会在入队阶段被直接拒绝。
type FactType string

const (
	FactTypeDestination     FactType = "destination"
	FactTypeOrigin          FactType = "origin"
	FactTypeBudget          FactType = "budget"
	FactTypeTimeline        FactType = "timeline"
	FactTypeName            FactType = "name"
	FactTypeNationality     FactType = "nationality"
	FactTypeProfession      FactType = "profession"
	FactTypeFamilyStatus    FactType = "family_status"
	FactTypeLanguage        FactType = "language"
	FactTypeVisaRequirement FactType = "visa_requirement"
)

// 事实来源标识。
const (
	SourceVoice     = "voice"     // 语音对话中提取
	SourceChat      = "chat"      // 文本对话中提取
	SourceConfirmed = "confirmed" // 人工确认后写入
)

var recognizedFactTypes = map[FactType]struct{}{
	FactTypeDestination:     {},
	FactTypeOrigin:          {},
	FactTypeBudget:          {},
	FactTypeTimeline:        {},
	FactTypeName:            {},
	FactTypeNationality:     {},
	FactTypeProfession:      {},
	FactTypeFamilyStatus:    {},
	FactTypeLanguage:        {},
	FactTypeVisaRequirement: {},
}

// RecognizedFactType 判断给定类型是否在允许的枚举内。
func RecognizedFactType(t FactType) bool {
	_, ok := recognizedFactTypes[t]
	return ok
}

// Fact 是用户画像中一条持久化的事实记录。
// 唯一索引保证每个 (user_id, fact_type) 至多一行，后写覆盖先写。
type Fact struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UserID    string    `gorm:"uniqueIndex:idx_user_fact_type;size:64;not null" json:"user_id"`
	FactType  FactType  `gorm:"uniqueIndex:idx_user_fact_type;type:varchar(32);not null" json:"fact_type"`
	Value     string    `gorm:"size:1024;not null" json:"value"`
	Source    string    `gorm:"size:32" json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Fact) TableName() string {
	return "user_facts"
}
