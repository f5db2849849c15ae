package ports

import (
	"context"
	"errors"
	"time"

	"eveanchor/internal/domain/manager"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a name that is already taken.
	ErrConflict = errors.New("conflict")
)

// TxManager runs fn in one transaction. Repositories called with the ctx
// passed to fn join it.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AllianceRecord struct {
	ID   int64
	Name string
}

type CorporationRecord struct {
	ID         int64
	Name       string
	AllianceID *int64
}

type MemberRecord struct {
	ID            int64
	Name          string
	CorporationID int64
}

type CapsuleerRecord struct {
	ID            int64
	Name          string
	MemberID      int64
	CorporationID int64
	Skills        manager.Skills
}

type OutpostRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	System      string `json:"system"`
	Planets     int    `json:"planets"`
	Arrays      int    `json:"arrays"`
	CapsuleerID int64  `json:"capsuleer_id"`
	ProblemID   *int64 `json:"problem_id,omitempty"`
}

type ProblemRecord struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Requirements  string    `json:"requirements"`
	Active        bool      `json:"active"`
	MemberID      int64     `json:"member_id"`
	CorporationID int64     `json:"corporation_id"`
	AllianceID    *int64    `json:"alliance_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type AllianceRepository interface {
	Create(ctx context.Context, alliance AllianceRecord) (int64, error)
	FindByName(ctx context.Context, name string) (AllianceRecord, error)
}

type CorporationRepository interface {
	Create(ctx context.Context, corporation CorporationRecord) (int64, error)
	FindByName(ctx context.Context, name string) (CorporationRecord, error)
	FindByAlliance(ctx context.Context, allianceID int64) ([]CorporationRecord, error)
}

type MemberRepository interface {
	Create(ctx context.Context, member MemberRecord) (int64, error)
	FindByName(ctx context.Context, name string) (MemberRecord, error)
	FindByCorporation(ctx context.Context, corporationID int64) ([]MemberRecord, error)
}

type CapsuleerRepository interface {
	Create(ctx context.Context, capsuleer CapsuleerRecord) (int64, error)
	Get(ctx context.Context, id int64) (CapsuleerRecord, error)
	FindByName(ctx context.Context, name string) (CapsuleerRecord, error)
	FindByMember(ctx context.Context, memberID int64) ([]CapsuleerRecord, error)
	UpdateSkills(ctx context.Context, capsuleerID int64, skills manager.Skills) error
}

type OutpostRepository interface {
	Create(ctx context.Context, outpost OutpostRecord) (int64, error)
	FindByName(ctx context.Context, name string) (OutpostRecord, error)
	FindByCapsuleer(ctx context.Context, capsuleerID int64) ([]OutpostRecord, error)
	FindByProblem(ctx context.Context, problemID int64) ([]OutpostRecord, error)
	List(ctx context.Context) ([]OutpostRecord, error)
	AssignProblem(ctx context.Context, outpostID int64, problemID *int64) error
	DeleteByName(ctx context.Context, name string) error
}

type ProblemRepository interface {
	Create(ctx context.Context, problem ProblemRecord) (int64, error)
	FindByName(ctx context.Context, name string) (ProblemRecord, error)
	FindByMember(ctx context.Context, memberID int64) ([]ProblemRecord, error)
	Deactivate(ctx context.Context, problemID int64) error
}

// ManagerStore persists the outpost book of a manager.
type ManagerStore interface {
	Load(ctx context.Context, m manager.Manager) error
	Save(ctx context.Context, m manager.Manager) error
}
