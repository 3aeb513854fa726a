// internal/storage/models/instruction.go
package models

// Instruction is one journal entry: an executed program instruction and its outcome.
type Instruction struct {
	BaseModel
	InstructionID string `gorm:"unique;not null;type:varchar(36)"`
	Name          string `gorm:"index;not null;type:varchar(32)"`
	Signer        string `gorm:"index;type:varchar(44)"`
	Mint          string `gorm:"index;type:varchar(44)"`
	Status        string `gorm:"not null;type:varchar(20)"`
	ErrorCode     uint32
	ErrorMessage  string  `gorm:"type:text"`
	AmountIn      uint64  `gorm:"type:numeric(20,0)"`
	AmountOut     uint64  `gorm:"type:numeric(20,0)"`
	ExecutionTime float64 `gorm:"type:decimal(10,3)"`
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)
