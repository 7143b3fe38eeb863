package repositories

import (
	"database/sql"
	"time"

	"brandgate/internal/platform/brand"
	"brandgate/internal/platform/database"
	"brandgate/internal/platform/models"
)

// ProfileRepository reads and writes profile rows within a single brand's
// schema. The *sql.DB it wraps comes from the tenant pool, so every query is
// implicitly brand-scoped.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(profile *models.Profile) error {
	_, err := r.db.Exec(`
		INSERT INTO profiles (user_id, email, brand_id, display_name, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, profile.UserID, profile.Email, profile.BrandID, profile.DisplayName, profile.AvatarURL, profile.CreatedAt, profile.UpdatedAt)
	return err
}

func (r *ProfileRepository) GetByUserID(userID string) (*models.Profile, error) {
	profile := &models.Profile{}
	err := r.db.QueryRow(`
		SELECT user_id, email, brand_id, display_name, avatar_url, created_at, updated_at
		FROM profiles WHERE user_id = ?
	`, userID).Scan(&profile.UserID, &profile.Email, &profile.BrandID, &profile.DisplayName, &profile.AvatarURL, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

func (r *ProfileRepository) UpdateDisplayName(userID, displayName string) error {
	_, err := r.db.Exec(`UPDATE profiles SET display_name = ?, updated_at = ? WHERE user_id = ?`,
		displayName, time.Now().Unix(), userID)
	return err
}

// TenantProfileStore adapts the tenant pool to the gateway's ProfileStore
// contract: pick the brand's schema, then write.
type TenantProfileStore struct {
	pool *database.TenantDBPool
}

func NewTenantProfileStore(pool *database.TenantDBPool) *TenantProfileStore {
	return &TenantProfileStore{pool: pool}
}

func (s *TenantProfileStore) CreateProfile(brandID brand.ID, profile *models.Profile) error {
	client, err := s.pool.Client(brandID)
	if err != nil {
		return err
	}
	return NewProfileRepository(client.DB).Create(profile)
}
