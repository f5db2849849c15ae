package memory

import (
	"context"
	"sort"

	"eveanchor/internal/app/ports"
)

type OutpostRepo struct {
	store *Store
}

func NewOutpostRepo(store *Store) OutpostRepo {
	return OutpostRepo{store: store}
}

func (r OutpostRepo) Create(_ context.Context, outpost ports.OutpostRecord) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := findByName(r.store.outposts, outpost.Name, outpostName); ok {
		return 0, ports.ErrConflict
	}
	outpost.ID = r.store.newID()
	r.store.outposts[outpost.ID] = outpost
	return outpost.ID, nil
}

func (r OutpostRepo) FindByName(_ context.Context, name string) (ports.OutpostRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	o, ok := findByName(r.store.outposts, name, outpostName)
	if !ok {
		return ports.OutpostRecord{}, ports.ErrNotFound
	}
	return o, nil
}

func (r OutpostRepo) FindByCapsuleer(_ context.Context, capsuleerID int64) ([]ports.OutpostRecord, error) {
	return r.filter(func(o ports.OutpostRecord) bool { return o.CapsuleerID == capsuleerID }), nil
}

func (r OutpostRepo) FindByProblem(_ context.Context, problemID int64) ([]ports.OutpostRecord, error) {
	return r.filter(func(o ports.OutpostRecord) bool { return o.ProblemID != nil && *o.ProblemID == problemID }), nil
}

func (r OutpostRepo) List(_ context.Context) ([]ports.OutpostRecord, error) {
	return r.filter(func(ports.OutpostRecord) bool { return true }), nil
}

func (r OutpostRepo) AssignProblem(_ context.Context, outpostID int64, problemID *int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.outposts[outpostID]
	if !ok {
		return ports.ErrNotFound
	}
	if problemID != nil {
		id := *problemID
		problemID = &id
	}
	o.ProblemID = problemID
	r.store.outposts[outpostID] = o
	return nil
}

func (r OutpostRepo) DeleteByName(_ context.Context, name string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := findByName(r.store.outposts, name, outpostName)
	if !ok {
		return ports.ErrNotFound
	}
	delete(r.store.outposts, o.ID)
	return nil
}

func (r OutpostRepo) filter(keep func(ports.OutpostRecord) bool) []ports.OutpostRecord {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []ports.OutpostRecord
	for _, o := range r.store.outposts {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].System != out[j].System {
			return out[i].System < out[j].System
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func outpostName(o ports.OutpostRecord) string { return o.Name }
