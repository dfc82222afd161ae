package models

import (
	"time"
)

// Operator is a staff account allowed to change inventory.
type Operator struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type OperatorResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (o *Operator) ToResponse() OperatorResponse {
	return OperatorResponse{
		ID:        o.ID,
		Username:  o.Username,
		CreatedAt: o.CreatedAt,
	}
}
