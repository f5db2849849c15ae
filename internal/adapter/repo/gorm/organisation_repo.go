package gormrepo

import (
	"context"
	"errors"

	"eveanchor/internal/adapter/repo/gorm/model"
	"eveanchor/internal/app/ports"

	"gorm.io/gorm"
)

type AllianceRepo struct {
	db *gorm.DB
}

func NewAllianceRepo(db *gorm.DB) AllianceRepo {
	return AllianceRepo{db: db}
}

func (r AllianceRepo) Create(ctx context.Context, alliance ports.AllianceRecord) (int64, error) {
	row := model.Alliance{Name: alliance.Name}
	if err := getDBFromCtx(ctx, r.db).Create(&row).Error; err != nil {
		return 0, mapWriteError(err)
	}
	return row.ID, nil
}

func (r AllianceRepo) FindByName(ctx context.Context, name string) (ports.AllianceRecord, error) {
	var row model.Alliance
	if err := getDBFromCtx(ctx, r.db).Where(&model.Alliance{Name: name}).First(&row).Error; err != nil {
		return ports.AllianceRecord{}, mapReadError(err)
	}
	return ports.AllianceRecord{ID: row.ID, Name: row.Name}, nil
}

type CorporationRepo struct {
	db *gorm.DB
}

func NewCorporationRepo(db *gorm.DB) CorporationRepo {
	return CorporationRepo{db: db}
}

func (r CorporationRepo) Create(ctx context.Context, corporation ports.CorporationRecord) (int64, error) {
	row := model.Corporation{Name: corporation.Name, AllianceID: corporation.AllianceID}
	if err := getDBFromCtx(ctx, r.db).Create(&row).Error; err != nil {
		return 0, mapWriteError(err)
	}
	return row.ID, nil
}

func (r CorporationRepo) FindByName(ctx context.Context, name string) (ports.CorporationRecord, error) {
	var row model.Corporation
	if err := getDBFromCtx(ctx, r.db).Where(&model.Corporation{Name: name}).First(&row).Error; err != nil {
		return ports.CorporationRecord{}, mapReadError(err)
	}
	return toCorporationRecord(row), nil
}

func (r CorporationRepo) FindByAlliance(ctx context.Context, allianceID int64) ([]ports.CorporationRecord, error) {
	var rows []model.Corporation
	if err := getDBFromCtx(ctx, r.db).Where("alliance_id = ?", allianceID).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.CorporationRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCorporationRecord(row))
	}
	return out, nil
}

func toCorporationRecord(row model.Corporation) ports.CorporationRecord {
	return ports.CorporationRecord{ID: row.ID, Name: row.Name, AllianceID: row.AllianceID}
}

type MemberRepo struct {
	db *gorm.DB
}

func NewMemberRepo(db *gorm.DB) MemberRepo {
	return MemberRepo{db: db}
}

func (r MemberRepo) Create(ctx context.Context, member ports.MemberRecord) (int64, error) {
	row := model.Member{Name: member.Name, CorporationID: member.CorporationID}
	if err := getDBFromCtx(ctx, r.db).Create(&row).Error; err != nil {
		return 0, mapWriteError(err)
	}
	return row.ID, nil
}

func (r MemberRepo) FindByName(ctx context.Context, name string) (ports.MemberRecord, error) {
	var row model.Member
	if err := getDBFromCtx(ctx, r.db).Where(&model.Member{Name: name}).First(&row).Error; err != nil {
		return ports.MemberRecord{}, mapReadError(err)
	}
	return ports.MemberRecord{ID: row.ID, Name: row.Name, CorporationID: row.CorporationID}, nil
}

func (r MemberRepo) FindByCorporation(ctx context.Context, corporationID int64) ([]ports.MemberRecord, error) {
	var rows []model.Member
	if err := getDBFromCtx(ctx, r.db).Where(&model.Member{CorporationID: corporationID}).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.MemberRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.MemberRecord{ID: row.ID, Name: row.Name, CorporationID: row.CorporationID})
	}
	return out, nil
}

func mapReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.ErrNotFound
	}
	return err
}

func mapWriteError(err error) error {
	if isUniqueViolation(err) {
		return ports.ErrConflict
	}
	return err
}
