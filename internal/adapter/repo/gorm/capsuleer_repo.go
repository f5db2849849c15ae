package gormrepo

import (
	"context"
	"time"

	"eveanchor/internal/adapter/repo/gorm/model"
	"eveanchor/internal/app/ports"
	"eveanchor/internal/domain/manager"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CapsuleerRepo struct {
	db *gorm.DB
}

func NewCapsuleerRepo(db *gorm.DB) CapsuleerRepo {
	return CapsuleerRepo{db: db}
}

// Create inserts the capsuleer and its skill row together.
func (r CapsuleerRepo) Create(ctx context.Context, capsuleer ports.CapsuleerRecord) (int64, error) {
	row := model.Capsuleer{
		Name:          capsuleer.Name,
		MemberID:      capsuleer.MemberID,
		CorporationID: capsuleer.CorporationID,
	}
	err := getDBFromCtx(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return mapWriteError(err)
		}
		skill := toSkillRow(row.ID, capsuleer.Skills)
		return tx.Create(&skill).Error
	})
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (r CapsuleerRepo) Get(ctx context.Context, id int64) (ports.CapsuleerRecord, error) {
	return r.findOne(getDBFromCtx(ctx, r.db), &model.Capsuleer{ID: id})
}

func (r CapsuleerRepo) FindByName(ctx context.Context, name string) (ports.CapsuleerRecord, error) {
	return r.findOne(getDBFromCtx(ctx, r.db), &model.Capsuleer{Name: name})
}

func (r CapsuleerRepo) findOne(db *gorm.DB, where *model.Capsuleer) (ports.CapsuleerRecord, error) {
	var row model.Capsuleer
	if err := db.Where(where).First(&row).Error; err != nil {
		return ports.CapsuleerRecord{}, mapReadError(err)
	}
	skills, err := r.skillsFor(db, []int64{row.ID})
	if err != nil {
		return ports.CapsuleerRecord{}, err
	}
	return toCapsuleerRecord(row, skills[row.ID]), nil
}

func (r CapsuleerRepo) FindByMember(ctx context.Context, memberID int64) ([]ports.CapsuleerRecord, error) {
	var rows []model.Capsuleer
	db := getDBFromCtx(ctx, r.db)
	if err := db.Where(&model.Capsuleer{MemberID: memberID}).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	skills, err := r.skillsFor(db, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ports.CapsuleerRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCapsuleerRecord(row, skills[row.ID]))
	}
	return out, nil
}

func (r CapsuleerRepo) UpdateSkills(ctx context.Context, capsuleerID int64, skills manager.Skills) error {
	row := toSkillRow(capsuleerID, skills)
	return getDBFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "capsuleer_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"planetology", "advanced_planetology", "expert_planetology", "updated_at"}),
		}).
		Create(&row).Error
}

func (r CapsuleerRepo) skillsFor(db *gorm.DB, ids []int64) (map[int64]manager.Skills, error) {
	out := make(map[int64]manager.Skills, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.Skill
	if err := db.Where("capsuleer_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CapsuleerID] = manager.Skills{
			Planetology:         int(row.Planetology),
			AdvancedPlanetology: int(row.AdvancedPlanetology),
			ExpertPlanetology:   int(row.ExpertPlanetology),
		}
	}
	return out, nil
}

func toSkillRow(capsuleerID int64, skills manager.Skills) model.Skill {
	skills = skills.Clamp()
	return model.Skill{
		CapsuleerID:         capsuleerID,
		Planetology:         int16(skills.Planetology),
		AdvancedPlanetology: int16(skills.AdvancedPlanetology),
		ExpertPlanetology:   int16(skills.ExpertPlanetology),
		UpdatedAt:           time.Now().UTC(),
	}
}

func toCapsuleerRecord(row model.Capsuleer, skills manager.Skills) ports.CapsuleerRecord {
	return ports.CapsuleerRecord{
		ID:            row.ID,
		Name:          row.Name,
		MemberID:      row.MemberID,
		CorporationID: row.CorporationID,
		Skills:        skills,
	}
}
