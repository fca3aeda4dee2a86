package gormrepo

import (
	"context"
	"errors"
	"time"

	"mensaplan/internal/adapter/repo/gorm/model"
	"mensaplan/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AvatarSourceRepo struct {
	db *gorm.DB
}

var _ ports.AvatarSourceRepository = AvatarSourceRepo{}

func NewAvatarSourceRepo(db *gorm.DB) AvatarSourceRepo {
	return AvatarSourceRepo{db: db}
}

func (r AvatarSourceRepo) Upsert(ctx context.Context, source ports.AvatarSourceRecord) error {
	updatedAt := source.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	row := model.AvatarSource{
		UserID:    source.UserID,
		AvatarURL: source.AvatarURL,
		UpdatedAt: updatedAt,
	}
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"avatar_url", "updated_at"}),
	}).Create(&row).Error
}

func (r AvatarSourceRepo) GetByUserID(ctx context.Context, userID string) (ports.AvatarSourceRecord, error) {
	var row model.AvatarSource
	if err := conn(ctx, r.db).Where(&model.AvatarSource{UserID: userID}).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.AvatarSourceRecord{}, ports.ErrNotFound
		}
		return ports.AvatarSourceRecord{}, err
	}
	return ports.AvatarSourceRecord{
		UserID:    row.UserID,
		AvatarURL: row.AvatarURL,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
