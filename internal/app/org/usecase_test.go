package org

import (
	"context"
	"errors"
	"testing"

	"eveanchor/internal/adapter/repo/memory"
)

func newUseCase(store *memory.Store) UseCase {
	return UseCase{
		TxManager:    memory.NewTxManager(store),
		Alliances:    memory.NewAllianceRepo(store),
		Corporations: memory.NewCorporationRepo(store),
	}
}

func TestEnsure_IsIdempotent(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store)

	first, err := uc.Ensure(context.Background(), "Anchor Alliance", "Anchor Corp")
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if first.AllianceID == nil || first.CorporationID == 0 {
		t.Fatalf("Ensure()=%+v", first)
	}
	second, err := uc.Ensure(context.Background(), "Anchor Alliance", "Anchor Corp")
	if err != nil {
		t.Fatalf("second Ensure() error = %v", err)
	}
	if *second.AllianceID != *first.AllianceID || second.CorporationID != first.CorporationID {
		t.Fatalf("Ensure() created new rows: %+v vs %+v", second, first)
	}
}

func TestEnsure_IndependentCorporation(t *testing.T) {
	uc := newUseCase(memory.NewStore())
	got, err := uc.Ensure(context.Background(), " ", "Solo Corp")
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if got.AllianceID != nil {
		t.Fatalf("AllianceID=%v want nil", *got.AllianceID)
	}
	if _, err := uc.Ensure(context.Background(), "A", ""); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("empty corporation error = %v", err)
	}
}

func TestEnsureMember(t *testing.T) {
	store := memory.NewStore()
	members := memory.NewMemberRepo(store)
	ctx := context.Background()
	a, err := EnsureMember(ctx, members, "pilot#0001", 1)
	if err != nil {
		t.Fatalf("EnsureMember() error = %v", err)
	}
	b, _ := EnsureMember(ctx, members, "pilot#0001", 1)
	if a != b {
		t.Fatalf("EnsureMember() ids %d != %d", a, b)
	}
}
