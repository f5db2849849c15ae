package gormrepo

import (
	"context"
	"time"

	"eveanchor/internal/adapter/repo/gorm/model"
	"eveanchor/internal/app/ports"

	"gorm.io/gorm"
)

type ProblemRepo struct {
	db *gorm.DB
}

func NewProblemRepo(db *gorm.DB) ProblemRepo {
	return ProblemRepo{db: db}
}

func (r ProblemRepo) Create(ctx context.Context, problem ports.ProblemRecord) (int64, error) {
	createdAt := problem.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	row := model.Problem{
		Name:          problem.Name,
		Requirements:  problem.Requirements,
		Active:        problem.Active,
		MemberID:      problem.MemberID,
		CorporationID: problem.CorporationID,
		AllianceID:    problem.AllianceID,
		CreatedAt:     createdAt,
	}
	db := getDBFromCtx(ctx, r.db)
	if err := db.Create(&row).Error; err != nil {
		return 0, mapWriteError(err)
	}
	// The column default wins over a zero-valued Active on insert.
	if !problem.Active {
		if err := db.Model(&row).Update("active", false).Error; err != nil {
			return 0, err
		}
	}
	return row.ID, nil
}

func (r ProblemRepo) FindByName(ctx context.Context, name string) (ports.ProblemRecord, error) {
	var row model.Problem
	if err := getDBFromCtx(ctx, r.db).Where(&model.Problem{Name: name}).First(&row).Error; err != nil {
		return ports.ProblemRecord{}, mapReadError(err)
	}
	return toProblemRecord(row), nil
}

func (r ProblemRepo) FindByMember(ctx context.Context, memberID int64) ([]ports.ProblemRecord, error) {
	var rows []model.Problem
	if err := getDBFromCtx(ctx, r.db).Where(&model.Problem{MemberID: memberID}).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.ProblemRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, toProblemRecord(row))
	}
	return out, nil
}

func (r ProblemRepo) Deactivate(ctx context.Context, problemID int64) error {
	res := getDBFromCtx(ctx, r.db).Model(&model.Problem{}).Where("id = ?", problemID).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func toProblemRecord(row model.Problem) ports.ProblemRecord {
	return ports.ProblemRecord{
		ID:            row.ID,
		Name:          row.Name,
		Requirements:  row.Requirements,
		Active:        row.Active,
		MemberID:      row.MemberID,
		CorporationID: row.CorporationID,
		AllianceID:    row.AllianceID,
		CreatedAt:     row.CreatedAt,
	}
}
