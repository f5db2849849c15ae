package memory

import (
	"context"
	"sort"

	"eveanchor/internal/app/ports"
	"eveanchor/internal/domain/manager"
)

type CapsuleerRepo struct {
	store *Store
}

func NewCapsuleerRepo(store *Store) CapsuleerRepo {
	return CapsuleerRepo{store: store}
}

func (r CapsuleerRepo) Create(_ context.Context, capsuleer ports.CapsuleerRecord) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := findByName(r.store.capsuleers, capsuleer.Name, capsuleerName); ok {
		return 0, ports.ErrConflict
	}
	capsuleer.ID = r.store.newID()
	capsuleer.Skills = capsuleer.Skills.Clamp()
	r.store.capsuleers[capsuleer.ID] = capsuleer
	return capsuleer.ID, nil
}

func (r CapsuleerRepo) Get(_ context.Context, id int64) (ports.CapsuleerRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.capsuleers[id]
	if !ok {
		return ports.CapsuleerRecord{}, ports.ErrNotFound
	}
	return c, nil
}

func (r CapsuleerRepo) FindByName(_ context.Context, name string) (ports.CapsuleerRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := findByName(r.store.capsuleers, name, capsuleerName)
	if !ok {
		return ports.CapsuleerRecord{}, ports.ErrNotFound
	}
	return c, nil
}

func (r CapsuleerRepo) FindByMember(_ context.Context, memberID int64) ([]ports.CapsuleerRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []ports.CapsuleerRecord
	for _, c := range r.store.capsuleers {
		if c.MemberID == memberID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r CapsuleerRepo) UpdateSkills(_ context.Context, capsuleerID int64, skills manager.Skills) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.capsuleers[capsuleerID]
	if !ok {
		return ports.ErrNotFound
	}
	c.Skills = skills.Clamp()
	r.store.capsuleers[capsuleerID] = c
	return nil
}

func capsuleerName(c ports.CapsuleerRecord) string { return c.Name }
