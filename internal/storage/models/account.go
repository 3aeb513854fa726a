// internal/storage/models/account.go
package models

import "time"

// Account is one stored program account: a base58 key and its encoded body.
type Account struct {
	Key       string    `gorm:"primarykey;type:varchar(44)"`
	Data      []byte    `gorm:"type:bytea;not null"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}
