// Package org resolves the alliance and corporation a deployment serves.
package org

import (
	"context"
	"errors"
	"strings"

	"eveanchor/internal/app/ports"
)

var ErrInvalidRequest = errors.New("corporation name is required")

// Organisation is the home corporation, and its alliance when it has one.
type Organisation struct {
	AllianceID      *int64
	AllianceName    string
	CorporationID   int64
	CorporationName string
}

type UseCase struct {
	TxManager    ports.TxManager
	Alliances    ports.AllianceRepository
	Corporations ports.CorporationRepository
}

// Ensure finds or creates the named corporation and alliance. An empty
// alliance name leaves the corporation independent.
func (u UseCase) Ensure(ctx context.Context, allianceName, corporationName string) (Organisation, error) {
	allianceName = strings.TrimSpace(allianceName)
	corporationName = strings.TrimSpace(corporationName)
	if corporationName == "" {
		return Organisation{}, ErrInvalidRequest
	}
	out := Organisation{AllianceName: allianceName, CorporationName: corporationName}
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if allianceName != "" {
			id, err := findOrCreate(txCtx,
				func(ctx context.Context) (int64, error) {
					a, err := u.Alliances.FindByName(ctx, allianceName)
					return a.ID, err
				},
				func(ctx context.Context) (int64, error) {
					return u.Alliances.Create(ctx, ports.AllianceRecord{Name: allianceName})
				})
			if err != nil {
				return err
			}
			out.AllianceID = &id
		}
		id, err := findOrCreate(txCtx,
			func(ctx context.Context) (int64, error) {
				c, err := u.Corporations.FindByName(ctx, corporationName)
				return c.ID, err
			},
			func(ctx context.Context) (int64, error) {
				return u.Corporations.Create(ctx, ports.CorporationRecord{Name: corporationName, AllianceID: out.AllianceID})
			})
		out.CorporationID = id
		return err
	})
	if err != nil {
		return Organisation{}, err
	}
	return out, nil
}

func findOrCreate(ctx context.Context, find, create func(context.Context) (int64, error)) (int64, error) {
	id, err := find(ctx)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return 0, err
	}
	return create(ctx)
}

// EnsureMember finds the member by name or registers it in the corporation.
func EnsureMember(ctx context.Context, members ports.MemberRepository, name string, corporationID int64) (int64, error) {
	return findOrCreate(ctx,
		func(ctx context.Context) (int64, error) {
			m, err := members.FindByName(ctx, name)
			return m.ID, err
		},
		func(ctx context.Context) (int64, error) {
			return members.Create(ctx, ports.MemberRecord{Name: name, CorporationID: corporationID})
		})
}
