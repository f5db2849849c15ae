package memory

import (
	"context"
	"sort"

	"eveanchor/internal/app/ports"
)

type AllianceRepo struct {
	store *Store
}

func NewAllianceRepo(store *Store) AllianceRepo {
	return AllianceRepo{store: store}
}

func (r AllianceRepo) Create(_ context.Context, alliance ports.AllianceRecord) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := findByName(r.store.alliances, alliance.Name, allianceName); ok {
		return 0, ports.ErrConflict
	}
	alliance.ID = r.store.newID()
	r.store.alliances[alliance.ID] = alliance
	return alliance.ID, nil
}

func (r AllianceRepo) FindByName(_ context.Context, name string) (ports.AllianceRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	a, ok := findByName(r.store.alliances, name, allianceName)
	if !ok {
		return ports.AllianceRecord{}, ports.ErrNotFound
	}
	return a, nil
}

type CorporationRepo struct {
	store *Store
}

func NewCorporationRepo(store *Store) CorporationRepo {
	return CorporationRepo{store: store}
}

func (r CorporationRepo) Create(_ context.Context, corporation ports.CorporationRecord) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := findByName(r.store.corporations, corporation.Name, corporationName); ok {
		return 0, ports.ErrConflict
	}
	corporation.ID = r.store.newID()
	r.store.corporations[corporation.ID] = corporation
	return corporation.ID, nil
}

func (r CorporationRepo) FindByName(_ context.Context, name string) (ports.CorporationRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := findByName(r.store.corporations, name, corporationName)
	if !ok {
		return ports.CorporationRecord{}, ports.ErrNotFound
	}
	return c, nil
}

func (r CorporationRepo) FindByAlliance(_ context.Context, allianceID int64) ([]ports.CorporationRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []ports.CorporationRecord
	for _, c := range r.store.corporations {
		if c.AllianceID != nil && *c.AllianceID == allianceID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type MemberRepo struct {
	store *Store
}

func NewMemberRepo(store *Store) MemberRepo {
	return MemberRepo{store: store}
}

func (r MemberRepo) Create(_ context.Context, member ports.MemberRecord) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := findByName(r.store.members, member.Name, memberName); ok {
		return 0, ports.ErrConflict
	}
	member.ID = r.store.newID()
	r.store.members[member.ID] = member
	return member.ID, nil
}

func (r MemberRepo) FindByName(_ context.Context, name string) (ports.MemberRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	m, ok := findByName(r.store.members, name, memberName)
	if !ok {
		return ports.MemberRecord{}, ports.ErrNotFound
	}
	return m, nil
}

func (r MemberRepo) FindByCorporation(_ context.Context, corporationID int64) ([]ports.MemberRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []ports.MemberRecord
	for _, m := range r.store.members {
		if m.CorporationID == corporationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func allianceName(a ports.AllianceRecord) string       { return a.Name }
func corporationName(c ports.CorporationRecord) string { return c.Name }
func memberName(m ports.MemberRecord) string           { return m.Name }
