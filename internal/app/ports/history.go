package ports

import (
	"context"
	"time"
)

type SolveRecord struct {
	ID        string        `json:"id"`
	Signature string        `json:"signature"`
	Days      float64       `json:"days"`
	Groupings string        `json:"groupings"`
	Materials int           `json:"materials"`
	Outcome   SolveOutcome  `json:"outcome"`
	Objective float64       `json:"objective"`
	Arrays    float64       `json:"arrays"`
	Elapsed   time.Duration `json:"elapsed_ns"`
	CreatedAt time.Time     `json:"created_at"`
}

type SolveHistory interface {
	Append(ctx context.Context, record SolveRecord) error
	Recent(ctx context.Context, limit int) ([]SolveRecord, error)
}
