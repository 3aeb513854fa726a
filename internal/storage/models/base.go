// internal/storage/models/base.go
package models

import "time"

// BaseModel is the common primary key and timestamps of journal tables. Rows are append-only.
type BaseModel struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index;default:CURRENT_TIMESTAMP"`
}
