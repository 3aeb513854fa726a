// internal/events/types.go
package events

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// EventType represents the type of event.
type EventType string

const (
	// Curve lifecycle
	CurveLaunched  EventType = "curve.launched"
	CurveCompleted EventType = "curve.completed"
	CurveMigrated  EventType = "curve.migrated"
	CurveWithdrawn EventType = "curve.withdrawn"

	// Trading
	SwapExecuted EventType = "swap.executed"

	// Governance
	ConfigUpdated     EventType = "config.updated"
	AuthorityAccepted EventType = "authority.accepted"

	// OperationFailed is emitted by background workers.
	OperationFailed EventType = "operation.failed"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	EventType EventType
	EventTime time.Time
	// InstructionID correlates the event with the journal entry that produced it.
	InstructionID string
}

func NewBase(t EventType, instructionID string) BaseEvent {
	return BaseEvent{EventType: t, EventTime: time.Now(), InstructionID: instructionID}
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

// CurveLaunchedEvent is emitted when a new token starts trading on its curve.
type CurveLaunchedEvent struct {
	BaseEvent
	Creator        solana.PublicKey
	Mint           solana.PublicKey
	Curve          solana.PublicKey
	TokenSupply    uint64
	ReserveLamport uint64
}

// CurveCompletedEvent is emitted once, by the swap that moves a curve's base reserve to the
// curve limit.
type CurveCompletedEvent struct {
	BaseEvent
	Actor solana.PublicKey
	Mint  solana.PublicKey
	Curve solana.PublicKey
}

// SwapExecutedEvent is emitted for every committed swap.
type SwapExecutedEvent struct {
	BaseEvent
	Trader         solana.PublicKey
	Mint           solana.PublicKey
	Direction      string
	AmountIn       uint64
	Fee            uint64
	AmountOut      uint64
	ReserveToken   uint64
	ReserveLamport uint64
}

// CurveMigratedEvent is emitted when a completed curve's liquidity has moved to an AMM pool.
type CurveMigratedEvent struct {
	BaseEvent
	Signer     solana.PublicKey
	Mint       solana.PublicKey
	Pool       solana.PublicKey
	SeedToken  uint64
	SeedBase   uint64
	FeeLamport uint64
	FeeToken   uint64
}

// CurveWithdrawnEvent is emitted when the authority has drained a completed curve.
type CurveWithdrawnEvent struct {
	BaseEvent
	Authority solana.PublicKey
	Mint      solana.PublicKey
	Lamport   uint64
	Token     uint64
}

// ConfigUpdatedEvent is emitted after Configure.
type ConfigUpdatedEvent struct {
	BaseEvent
	Authority solana.PublicKey
	Created   bool
}

// AuthorityAcceptedEvent is emitted when a nominated admin takes over.
type AuthorityAcceptedEvent struct {
	BaseEvent
	Previous solana.PublicKey
	Current  solana.PublicKey
}

// OperationFailedEvent is emitted when a background operation gives up.
type OperationFailedEvent struct {
	BaseEvent
	Operation string
	Mint      solana.PublicKey
	Attempts  int
	Error     error
}
