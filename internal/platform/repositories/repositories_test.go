package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"brandgate/internal/platform/models"
)

func TestProfileRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProfileRepository(db)

	profile := &models.Profile{
		UserID:      "usr_1",
		Email:       "test@acme.com",
		BrandID:     "acme",
		DisplayName: "Test User",
		CreatedAt:   1234567890,
		UpdatedAt:   1234567890,
	}

	mock.ExpectExec("INSERT INTO profiles").
		WithArgs("usr_1", "test@acme.com", "acme", "Test User", "", int64(1234567890), int64(1234567890)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(profile); err != nil {
		t.Errorf("Create failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestProfileRepository_GetByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProfileRepository(db)

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"user_id", "email", "brand_id", "display_name", "avatar_url", "created_at", "updated_at"}).
			AddRow("usr_1", "test@acme.com", "acme", "Test User", "", 1234567890, 1234567890)

		mock.ExpectQuery("SELECT (.+) FROM profiles WHERE user_id = ?").
			WithArgs("usr_1").
			WillReturnRows(rows)

		profile, err := repo.GetByUserID("usr_1")
		if err != nil {
			t.Fatalf("GetByUserID failed: %v", err)
		}
		if profile == nil || profile.BrandID != "acme" {
			t.Errorf("Expected acme profile, got %+v", profile)
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM profiles WHERE user_id = ?").
			WithArgs("usr_missing").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "brand_id", "display_name", "avatar_url", "created_at", "updated_at"}))

		profile, err := repo.GetByUserID("usr_missing")
		if err != nil {
			t.Fatalf("GetByUserID failed: %v", err)
		}
		if profile != nil {
			t.Errorf("Expected nil for missing profile, got %+v", profile)
		}
	})
}

func TestProfileRepository_UpdateDisplayName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewProfileRepository(db)

	mock.ExpectExec("UPDATE profiles SET display_name").
		WithArgs("New Name", sqlmock.AnyArg(), "usr_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateDisplayName("usr_1", "New Name"); err != nil {
		t.Errorf("UpdateDisplayName failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}
