package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/grantbridge/grant-management-api/internal/models"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model interface{}
		name  string
	}{
		// Queue listing filters on status and sorts on created_at.
		{&models.Organization{}, "idx_organizations_status"},
		{&models.Organization{}, "idx_organizations_created_at"},

		// Decision audit lookups per organization
		{&models.DecisionAudit{}, "idx_decision_audits_organization_id"},
	}

	migrator := db.Migrator()

	columns := map[string]string{
		"idx_organizations_status":            "status",
		"idx_organizations_created_at":        "created_at",
		"idx_decision_audits_organization_id": "organization_id",
	}

	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, columns[idx.name])
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
