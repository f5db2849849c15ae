package gormrepo

import (
	"context"

	"eveanchor/internal/adapter/repo/gorm/model"
	"eveanchor/internal/app/ports"

	"gorm.io/gorm"
)

type OutpostRepo struct {
	db *gorm.DB
}

func NewOutpostRepo(db *gorm.DB) OutpostRepo {
	return OutpostRepo{db: db}
}

func (r OutpostRepo) Create(ctx context.Context, outpost ports.OutpostRecord) (int64, error) {
	row := model.Outpost{
		Name:        outpost.Name,
		System:      outpost.System,
		Planets:     int32(outpost.Planets),
		Arrays:      int32(outpost.Arrays),
		CapsuleerID: outpost.CapsuleerID,
		ProblemID:   outpost.ProblemID,
	}
	if err := getDBFromCtx(ctx, r.db).Create(&row).Error; err != nil {
		return 0, mapWriteError(err)
	}
	return row.ID, nil
}

func (r OutpostRepo) FindByName(ctx context.Context, name string) (ports.OutpostRecord, error) {
	var row model.Outpost
	if err := getDBFromCtx(ctx, r.db).Where(&model.Outpost{Name: name}).First(&row).Error; err != nil {
		return ports.OutpostRecord{}, mapReadError(err)
	}
	return toOutpostRecord(row), nil
}

func (r OutpostRepo) FindByCapsuleer(ctx context.Context, capsuleerID int64) ([]ports.OutpostRecord, error) {
	return r.list(getDBFromCtx(ctx, r.db).Where(&model.Outpost{CapsuleerID: capsuleerID}))
}

func (r OutpostRepo) FindByProblem(ctx context.Context, problemID int64) ([]ports.OutpostRecord, error) {
	return r.list(getDBFromCtx(ctx, r.db).Where("problem_id = ?", problemID))
}

func (r OutpostRepo) List(ctx context.Context) ([]ports.OutpostRecord, error) {
	return r.list(getDBFromCtx(ctx, r.db))
}

func (r OutpostRepo) AssignProblem(ctx context.Context, outpostID int64, problemID *int64) error {
	res := getDBFromCtx(ctx, r.db).
		Model(&model.Outpost{}).
		Where("id = ?", outpostID).
		Update("problem_id", problemID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r OutpostRepo) DeleteByName(ctx context.Context, name string) error {
	res := getDBFromCtx(ctx, r.db).Where("name = ?", name).Delete(&model.Outpost{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r OutpostRepo) list(q *gorm.DB) ([]ports.OutpostRecord, error) {
	var rows []model.Outpost
	if err := q.Order("system").Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.OutpostRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, toOutpostRecord(row))
	}
	return out, nil
}

func toOutpostRecord(row model.Outpost) ports.OutpostRecord {
	return ports.OutpostRecord{
		ID:          row.ID,
		Name:        row.Name,
		System:      row.System,
		Planets:     int(row.Planets),
		Arrays:      int(row.Arrays),
		CapsuleerID: row.CapsuleerID,
		ProblemID:   row.ProblemID,
	}
}
