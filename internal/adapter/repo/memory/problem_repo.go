package memory

import (
	"context"
	"sort"

	"eveanchor/internal/app/ports"
)

type ProblemRepo struct {
	store *Store
}

func NewProblemRepo(store *Store) ProblemRepo {
	return ProblemRepo{store: store}
}

func (r ProblemRepo) Create(_ context.Context, problem ports.ProblemRecord) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := findByName(r.store.problems, problem.Name, problemName); ok {
		return 0, ports.ErrConflict
	}
	problem.ID = r.store.newID()
	r.store.problems[problem.ID] = problem
	return problem.ID, nil
}

func (r ProblemRepo) FindByName(_ context.Context, name string) (ports.ProblemRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := findByName(r.store.problems, name, problemName)
	if !ok {
		return ports.ProblemRecord{}, ports.ErrNotFound
	}
	return p, nil
}

func (r ProblemRepo) FindByMember(_ context.Context, memberID int64) ([]ports.ProblemRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []ports.ProblemRecord
	for _, p := range r.store.problems {
		if p.MemberID == memberID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r ProblemRepo) Deactivate(_ context.Context, problemID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.problems[problemID]
	if !ok {
		return ports.ErrNotFound
	}
	p.Active = false
	r.store.problems[problemID] = p
	return nil
}

func problemName(p ports.ProblemRecord) string { return p.Name }
