package voting

import (
	"context"
	"fmt"

	"github.com/m3rciful/awardsbot/core/logger"
	"log/slog"
)

// DefaultAdminPassword is the placeholder admin password seeded on first run.
// Override it by editing the settings row directly.
const DefaultAdminPassword = "admin123"

// SeedCategories is the fixed award category list; display order is the slice
// position plus one.
var SeedCategories = []string{
	"Best Dresser Award",
	"Office Comedian Award",
	"Mr./Ms. Friendly Award",
	"Team Player Award",
	"Positive Energy Award",
	"Tech Guru Award",
	"Always Hungry Award",
	"Silent Hero Award",
	"Best Smile Award",
	"Coffee Lover Award",
	"Team Spirit Award",
	"Best Sketcher Award",
}

// Seed loads reference data: the fixed category list and default settings.
// Idempotent: rows already present are left untouched.
func (s *Store) Seed(ctx context.Context) error {
	insertCategory := s.db.Rebind(`INSERT INTO categories (name, display_order)
		VALUES (?, ?) ON CONFLICT (name) DO NOTHING`)
	for i, name := range SeedCategories {
		if _, err := s.db.ExecContext(ctx, insertCategory, name, i+1); err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}

	insertSetting := s.db.Rebind(`INSERT INTO settings (key, value)
		VALUES (?, ?) ON CONFLICT (key) DO NOTHING`)
	defaults := [][2]string{
		{settingVotingOpen, "true"},
		{settingAdminPassword, DefaultAdminPassword},
	}
	for _, kv := range defaults {
		if _, err := s.db.ExecContext(ctx, insertSetting, kv[0], kv[1]); err != nil {
			return fmt.Errorf("seed setting %q: %w", kv[0], err)
		}
	}

	logger.Info(ctx, "db.seed", "seed.complete",
		slog.Int("categories", len(SeedCategories)),
	)
	return nil
}
