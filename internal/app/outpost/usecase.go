package outpost

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eveanchor/internal/app/objective"
	"eveanchor/internal/app/org"
	"eveanchor/internal/app/ports"
	"eveanchor/internal/domain/manager"
)

var ErrInvalidRequest = errors.New("invalid outpost request")

type SystemResolver interface {
	SystemIDByName(name string) (int64, bool)
}

type RegisterRequest struct {
	Member    string `json:"member"`
	Capsuleer string `json:"capsuleer"`
	Name      string `json:"name"`
	System    string `json:"system"`
	Planets   int    `json:"planets"`
	Arrays    int    `json:"arrays"`
}

type RegisterResponse struct {
	Outpost ports.OutpostRecord `json:"outpost"`
	Message string              `json:"message"`
}

type UseCase struct {
	TxManager  ports.TxManager
	Members    ports.MemberRepository
	Capsuleers ports.CapsuleerRepository
	Outposts   ports.OutpostRepository
	Systems    SystemResolver
	Org        org.Organisation
}

// Register records an outpost for a capsuleer, creating the member and the
// capsuleer on first use.
func (u UseCase) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	req.Member = strings.TrimSpace(req.Member)
	req.Capsuleer = strings.TrimSpace(req.Capsuleer)
	req.Name = strings.TrimSpace(req.Name)
	req.System = strings.TrimSpace(req.System)
	if req.Member == "" || req.Capsuleer == "" || req.Name == "" || req.System == "" || req.Planets < 0 || req.Arrays < 0 {
		return RegisterResponse{}, ErrInvalidRequest
	}
	if _, ok := u.Systems.SystemIDByName(req.System); !ok {
		err := &objective.UnknownNameError{Kind: "system", Name: req.System}
		if s, ok := u.Systems.(interface{ Suggest(string) []string }); ok {
			err.Suggestions = s.Suggest(req.System)
		}
		return RegisterResponse{}, err
	}

	var out RegisterResponse
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		memberID, err := org.EnsureMember(txCtx, u.Members, req.Member, u.Org.CorporationID)
		if err != nil {
			return err
		}
		capsuleerID, err := u.ensureCapsuleer(txCtx, req.Capsuleer, memberID)
		if err != nil {
			return err
		}
		record := ports.OutpostRecord{
			Name:        req.Name,
			System:      req.System,
			Planets:     req.Planets,
			Arrays:      req.Arrays,
			CapsuleerID: capsuleerID,
		}
		record.ID, err = u.Outposts.Create(txCtx, record)
		if err != nil {
			return fmt.Errorf("outpost %q: %w", req.Name, err)
		}
		out.Outpost = record
		return nil
	})
	if err != nil {
		return RegisterResponse{}, err
	}
	out.Message = fmt.Sprintf("**Register**: %s to %s in %s with %d arrays for each of %d planets",
		req.Name, req.Member, req.System, req.Arrays, req.Planets)
	return out, nil
}

func (u UseCase) ensureCapsuleer(ctx context.Context, name string, memberID int64) (int64, error) {
	c, err := u.Capsuleers.FindByName(ctx, name)
	if err == nil {
		return c.ID, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return 0, err
	}
	return u.Capsuleers.Create(ctx, ports.CapsuleerRecord{
		Name:          name,
		MemberID:      memberID,
		CorporationID: u.Org.CorporationID,
	})
}

// List returns every outpost with its capsuleer name.
func (u UseCase) List(ctx context.Context) ([]manager.Outpost, error) {
	records, err := u.Outposts.List(ctx)
	if err != nil {
		return nil, err
	}
	return u.resolve(ctx, records)
}

func (u UseCase) ListForMember(ctx context.Context, member string) ([]manager.Outpost, error) {
	records, err := u.memberOutposts(ctx, member)
	if err != nil {
		return nil, err
	}
	return u.resolve(ctx, records)
}

func (u UseCase) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidRequest
	}
	return u.Outposts.DeleteByName(ctx, name)
}

func (u UseCase) memberOutposts(ctx context.Context, member string) ([]ports.OutpostRecord, error) {
	m, err := u.Members.FindByName(ctx, strings.TrimSpace(member))
	if err != nil {
		return nil, err
	}
	capsuleers, err := u.Capsuleers.FindByMember(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	var out []ports.OutpostRecord
	for _, c := range capsuleers {
		records, err := u.Outposts.FindByCapsuleer(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}
	return out, nil
}

func (u UseCase) resolve(ctx context.Context, records []ports.OutpostRecord) ([]manager.Outpost, error) {
	names := map[int64]string{}
	out := make([]manager.Outpost, 0, len(records))
	for _, r := range records {
		name, ok := names[r.CapsuleerID]
		if !ok {
			c, err := u.Capsuleers.Get(ctx, r.CapsuleerID)
			if err != nil && !errors.Is(err, ports.ErrNotFound) {
				return nil, err
			}
			name = c.Name
			names[r.CapsuleerID] = name
		}
		out = append(out, manager.Outpost{
			Name:      r.Name,
			System:    r.System,
			Planets:   r.Planets,
			Arrays:    r.Arrays,
			Capsuleer: name,
		})
	}
	return out, nil
}
