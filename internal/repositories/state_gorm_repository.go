package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"dairydrop/internal/apperrors"
	"dairydrop/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMStateRepository persists named client-state blobs (cart contents,
// shipping address) keyed by user and name. It implements cart.StateStore.
type GORMStateRepository struct {
	db *gorm.DB
}

// NewGORMStateRepository creates a new instance of GORMStateRepository.
func NewGORMStateRepository(db *gorm.DB) *GORMStateRepository {
	return &GORMStateRepository{
		db: db,
	}
}

// Save upserts the named value for the user.
func (r *GORMStateRepository) Save(userID, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, fmt.Sprintf("failed to encode state %q", name), err)
	}
	row := models.ClientState{UserID: userID, Name: name, Value: string(data)}
	if err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, fmt.Sprintf("failed to save state %q", name), err)
	}
	return nil
}

// Load reads the named value for the user into dest.
func (r *GORMStateRepository) Load(userID, name string, dest any) error {
	var row models.ClientState
	if err := r.db.First(&row, "user_id = ? AND name = ?", userID, name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.ErrNotFound, fmt.Sprintf("no saved state %q", name))
		}
		return apperrors.Wrap(apperrors.ErrPersistence, fmt.Sprintf("failed to load state %q", name), err)
	}
	if err := json.Unmarshal([]byte(row.Value), dest); err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, fmt.Sprintf("failed to decode state %q", name), err)
	}
	return nil
}

// Delete removes the named value for the user. Deleting absent state is a
// no-op.
func (r *GORMStateRepository) Delete(userID, name string) error {
	if err := r.db.Delete(&models.ClientState{}, "user_id = ? AND name = ?", userID, name).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrPersistence, fmt.Sprintf("failed to delete state %q", name), err)
	}
	return nil
}
