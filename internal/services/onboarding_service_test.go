package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/grantbridge/grant-management-api/internal/models"
	"github.com/grantbridge/grant-management-api/internal/repository"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

type onboardingTestEnv struct {
	db      *gorm.DB
	service *OnboardingService
}

func setupOnboardingTestEnv(t *testing.T) onboardingTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
	)
	require.NoError(t, err)

	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	service := NewOnboardingService(orgRepo, userRepo)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return onboardingTestEnv{
		db:      db,
		service: service,
	}
}

func createPartnerWithOrganization(t *testing.T, db *gorm.DB, status workflow.Status) *models.User {
	t.Helper()

	user := &models.User{
		Email:             "partner@example.org",
		PasswordHash:      "hashed",
		FirstName:         "Pat",
		LastName:          "Partner",
		Role:              workflow.RolePartner,
		VerificationToken: "abcd-ef01-2345",
	}
	require.NoError(t, db.Create(user).Error)

	org := &models.Organization{
		Name:    "Pat's organization",
		Status:  status,
		OwnerID: user.ID,
	}
	require.NoError(t, db.Create(org).Error)
	return user
}

func TestOnboardingService_VerifyEmail(t *testing.T) {
	env := setupOnboardingTestEnv(t)
	user := createPartnerWithOrganization(t, env.db, workflow.StatusEmailPending)

	org, err := env.service.VerifyEmail(user.ID, "abcd-ef01-2345")
	require.NoError(t, err)
	require.Equal(t, workflow.StatusSectionAPending, org.Status)

	var persisted models.User
	require.NoError(t, env.db.First(&persisted, user.ID).Error)
	require.True(t, persisted.EmailVerified)
	require.Empty(t, persisted.VerificationToken)
}

func TestOnboardingService_VerifyEmail_BadToken(t *testing.T) {
	env := setupOnboardingTestEnv(t)
	user := createPartnerWithOrganization(t, env.db, workflow.StatusEmailPending)

	_, err := env.service.VerifyEmail(user.ID, "wrong-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestOnboardingService_VerifyEmail_AlreadyVerified(t *testing.T) {
	env := setupOnboardingTestEnv(t)
	user := createPartnerWithOrganization(t, env.db, workflow.StatusEmailPending)

	_, err := env.service.VerifyEmail(user.ID, "abcd-ef01-2345")
	require.NoError(t, err)

	// The token is consumed, so a replay fails on the token check.
	_, err = env.service.VerifyEmail(user.ID, "abcd-ef01-2345")
	require.ErrorIs(t, err, ErrInvalidToken)
}

type unreachableUserRepository struct {
	repository.UserRepository
}

func (unreachableUserRepository) MarkVerifiedWithTransition(user *models.User, orgID uint64, from, to workflow.Status) (bool, error) {
	return false, errors.New("connection reset by peer")
}

// A store failure during verification must leave no partial state: the
// token survives and the same call succeeds once the store recovers.
func TestOnboardingService_VerifyEmail_StoreFailureKeepsToken(t *testing.T) {
	env := setupOnboardingTestEnv(t)
	user := createPartnerWithOrganization(t, env.db, workflow.StatusEmailPending)

	orgRepo := repository.NewOrganizationRepository(env.db)
	userRepo := repository.NewUserRepository(env.db)
	broken := NewOnboardingService(orgRepo, unreachableUserRepository{userRepo})

	_, err := broken.VerifyEmail(user.ID, "abcd-ef01-2345")
	require.Error(t, err)

	var persistedUser models.User
	require.NoError(t, env.db.First(&persistedUser, user.ID).Error)
	require.False(t, persistedUser.EmailVerified)
	require.Equal(t, "abcd-ef01-2345", persistedUser.VerificationToken)

	var persistedOrg models.Organization
	require.NoError(t, env.db.Where("owner_id = ?", user.ID).First(&persistedOrg).Error)
	require.Equal(t, workflow.StatusEmailPending, persistedOrg.Status)

	org, err := env.service.VerifyEmail(user.ID, "abcd-ef01-2345")
	require.NoError(t, err)
	require.Equal(t, workflow.StatusSectionAPending, org.Status)
}

func TestOnboardingService_SectionFlowAdvancesToReview(t *testing.T) {
	env := setupOnboardingTestEnv(t)
	user := createPartnerWithOrganization(t, env.db, workflow.StatusSectionAPending)

	org, err := env.service.SubmitSectionA(user.ID, SectionAInput{
		Name:    "Open Wells",
		Sector:  "water",
		Country: "KE",
	})
	require.NoError(t, err)
	require.Equal(t, workflow.StatusSectionBPending, org.Status)

	org, err = env.service.SubmitSectionB(user.ID, SectionBInput{
		Mission: "Clean water access",
		Website: "https://openwells.example.org",
	})
	require.NoError(t, err)
	require.Equal(t, workflow.StatusSectionCPending, org.Status)

	org, err = env.service.SubmitSectionC(user.ID, SectionCInput{DocumentCount: 3})
	require.NoError(t, err)
	require.Equal(t, workflow.StatusUnderReviewGM, org.Status)
	require.Equal(t, 3, org.DocumentCount)
}

func TestOnboardingService_SubmitOutOfOrderRejected(t *testing.T) {
	env := setupOnboardingTestEnv(t)
	user := createPartnerWithOrganization(t, env.db, workflow.StatusSectionAPending)

	_, err := env.service.SubmitSectionB(user.ID, SectionBInput{Mission: "too early"})
	require.ErrorIs(t, err, ErrInvalidState)

	var persisted models.Organization
	require.NoError(t, env.db.Where("owner_id = ?", user.ID).First(&persisted).Error)
	require.Equal(t, workflow.StatusSectionAPending, persisted.Status)
}

func TestOnboardingService_ChangesRequestedRevisionKeepsStatus(t *testing.T) {
	env := setupOnboardingTestEnv(t)
	user := createPartnerWithOrganization(t, env.db, workflow.StatusChangesRequested)

	// Revising a section under changes_requested updates content only;
	// the status moves via Restart.
	org, err := env.service.SubmitSectionA(user.ID, SectionAInput{Name: "Open Wells v2"})
	require.NoError(t, err)
	require.Equal(t, workflow.StatusChangesRequested, org.Status)
	require.Equal(t, "Open Wells v2", org.Name)

	org, err = env.service.Restart(user.ID)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusSectionAPending, org.Status)
}

func TestOnboardingService_RestartRequiresChangesRequested(t *testing.T) {
	env := setupOnboardingTestEnv(t)
	user := createPartnerWithOrganization(t, env.db, workflow.StatusSectionBPending)

	_, err := env.service.Restart(user.ID)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestOnboardingService_OrganizationNotFound(t *testing.T) {
	env := setupOnboardingTestEnv(t)

	user := &models.User{
		Email:        "orphan@example.org",
		PasswordHash: "hashed",
		Role:         workflow.RolePartner,
	}
	require.NoError(t, env.db.Create(user).Error)

	_, err := env.service.SubmitSectionA(user.ID, SectionAInput{Name: "Orphaned"})
	require.ErrorIs(t, err, ErrOrganizationNotFound)
}
