package schema

import (
	"time"

	"gorm.io/datatypes"
)

type CommitRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name       string `gorm:"index:idx_commit_name" json:"name"`
	Submitter  string `gorm:"index:idx_commit_submitter" json:"submitter"`
	Commitment string `json:"commitment"` // hex, not unique: resubmission is upstream's concern
}

type RegistrationRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name     string `gorm:"index:idx_reg_name" json:"name"`
	Caller   string `gorm:"index:idx_reg_caller" json:"caller"`
	Owner    string `json:"owner"`
	Duration int64  `json:"duration"` // uint s

	Base       string `json:"base"`    // wei
	Premium    string `json:"premium"` // wei
	ServiceFee string `json:"serviceFee"`
	Paid       string `json:"paid"`
	TotalCost  string `json:"totalCost"` // base + premium + serviceFee

	Data      datatypes.JSON `json:"data"` // json.marshal(resolver records)
	Timestamp int64          `json:"timestamp"`
}

// FeeConfig is the single persisted service-fee row, updated in place so the
// rate survives restarts.
type FeeConfig struct {
	ID         uint   `gorm:"primarykey"`
	ServiceFee string // wei
}
