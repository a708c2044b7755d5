package database

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Migrate runs every "*.up.sql" file from the FS in lexical order.
// The migrations are expected to be idempotent.
func (s *Service) Migrate(ctx context.Context, migrations fs.FS) error {

	names, err := fs.Glob(migrations, "*.up.sql")
	if err != nil {
		return err
	}

	slices.Sort(names)

	for _, name := range names {
		query, err := fs.ReadFile(migrations, name)
		if err != nil {
			return fmt.Errorf("could not read migration %s: %w", name, err)
		}

		if strings.TrimSpace(string(query)) == "" {
			continue
		}

		if _, err = s.Pool.Exec(ctx, string(query)); err != nil {
			return fmt.Errorf("migration %s failed: %w", name, err)
		}

		s.log.Info("migration applied", zap.String("name", name))
	}

	return nil
}
