package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/grantbridge/grant-management-api/internal/models"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

func setupMockRepository(t *testing.T) (OrganizationRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewOrganizationRepository(db), mock
}

func setupSQLiteEnv(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// A content save from a stale struct must never write status or
// created_at: a concurrent transition stays in effect.
func TestUpdate_NeverWritesStatusOrCreatedAt(t *testing.T) {
	db := setupSQLiteEnv(t)
	repo := NewOrganizationRepository(db)

	user := &models.User{
		Email:        "partner@example.org",
		PasswordHash: "hashed",
		Role:         workflow.RolePartner,
	}
	require.NoError(t, db.Create(user).Error)

	org := &models.Organization{
		Name:      "Open Wells",
		Status:    workflow.StatusChangesRequested,
		OwnerID:   user.ID,
		CreatedAt: time.Now().AddDate(0, 0, -10),
	}
	require.NoError(t, db.Create(org).Error)
	createdAt := org.CreatedAt

	stale, err := repo.FindByID(org.ID)
	require.NoError(t, err)

	// Another request restarts the organization while this struct is
	// held in memory.
	swapped, err := repo.UpdateStatusFrom(org.ID, workflow.StatusChangesRequested, workflow.StatusSectionAPending)
	require.NoError(t, err)
	require.True(t, swapped)

	stale.Mission = "Revised mission"
	require.NoError(t, repo.Update(stale))

	var persisted models.Organization
	require.NoError(t, db.First(&persisted, org.ID).Error)
	require.Equal(t, workflow.StatusSectionAPending, persisted.Status)
	require.Equal(t, "Revised mission", persisted.Mission)
	require.WithinDuration(t, createdAt, persisted.CreatedAt, time.Second)
}

// The status swap must be guarded on the expected source status in the
// WHERE clause; that guard is what serializes concurrent decisions.
func TestUpdateStatusFrom_GuardsOnSourceStatus(t *testing.T) {
	repo, mock := setupMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "organizations" SET`)).
		WithArgs(
			workflow.StatusUnderReviewCOO, // status
			sqlmock.AnyArg(),              // updated_at
			42,                            // id
			workflow.StatusUnderReviewGM,  // expected source status
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	swapped, err := repo.UpdateStatusFrom(42, workflow.StatusUnderReviewGM, workflow.StatusUnderReviewCOO)
	require.NoError(t, err)
	require.True(t, swapped)

	require.NoError(t, mock.ExpectationsWereMet())
}

// Zero rows affected means the organization already moved on; the
// caller must see that as a lost race, not a success.
func TestUpdateStatusFrom_ReportsLostRace(t *testing.T) {
	repo, mock := setupMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "organizations" SET`)).
		WithArgs(
			workflow.StatusRejected,
			sqlmock.AnyArg(),
			42,
			workflow.StatusUnderReviewGM,
		).
		WillReturnResult(sqlmock.NewResult(0, 0))

	swapped, err := repo.UpdateStatusFrom(42, workflow.StatusUnderReviewGM, workflow.StatusRejected)
	require.NoError(t, err)
	require.False(t, swapped)

	require.NoError(t, mock.ExpectationsWereMet())
}
