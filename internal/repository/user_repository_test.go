package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grantbridge/grant-management-api/internal/models"
	"github.com/grantbridge/grant-management-api/internal/workflow"
)

func TestMarkVerifiedWithTransition_ConsumesTokenWithSwap(t *testing.T) {
	db := setupSQLiteEnv(t)
	repo := NewUserRepository(db)

	user := &models.User{
		Email:             "partner@example.org",
		PasswordHash:      "hashed",
		Role:              workflow.RolePartner,
		VerificationToken: "abcd-ef01-2345",
	}
	require.NoError(t, db.Create(user).Error)

	org := &models.Organization{
		Name:    "Open Wells",
		Status:  workflow.StatusEmailPending,
		OwnerID: user.ID,
	}
	require.NoError(t, db.Create(org).Error)

	swapped, err := repo.MarkVerifiedWithTransition(user, org.ID, workflow.StatusEmailPending, workflow.StatusSectionAPending)
	require.NoError(t, err)
	require.True(t, swapped)

	var persistedUser models.User
	require.NoError(t, db.First(&persistedUser, user.ID).Error)
	require.True(t, persistedUser.EmailVerified)
	require.Empty(t, persistedUser.VerificationToken)

	var persistedOrg models.Organization
	require.NoError(t, db.First(&persistedOrg, org.ID).Error)
	require.Equal(t, workflow.StatusSectionAPending, persistedOrg.Status)
}

// A failed swap must leave the token alive: the whole verification is
// one transaction, so the partner can retry with the same token.
func TestMarkVerifiedWithTransition_StaleStatusKeepsToken(t *testing.T) {
	db := setupSQLiteEnv(t)
	repo := NewUserRepository(db)

	user := &models.User{
		Email:             "partner@example.org",
		PasswordHash:      "hashed",
		Role:              workflow.RolePartner,
		VerificationToken: "abcd-ef01-2345",
	}
	require.NoError(t, db.Create(user).Error)

	// Already past email verification.
	org := &models.Organization{
		Name:    "Open Wells",
		Status:  workflow.StatusSectionAPending,
		OwnerID: user.ID,
	}
	require.NoError(t, db.Create(org).Error)

	swapped, err := repo.MarkVerifiedWithTransition(user, org.ID, workflow.StatusEmailPending, workflow.StatusSectionAPending)
	require.NoError(t, err)
	require.False(t, swapped)

	var persistedUser models.User
	require.NoError(t, db.First(&persistedUser, user.ID).Error)
	require.False(t, persistedUser.EmailVerified)
	require.Equal(t, "abcd-ef01-2345", persistedUser.VerificationToken)

	var persistedOrg models.Organization
	require.NoError(t, db.First(&persistedOrg, org.ID).Error)
	require.Equal(t, workflow.StatusSectionAPending, persistedOrg.Status)
}
