package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/missioncontrol/internal/config"
)

// Boosters handles the boosters command.
//
// It indexes the configured catalog and lists the boosters it holds. No
// GitHub or cluster credentials are needed.
func Boosters(ctx context.Context, configPath, output string) error {
	if err := validateOutput(output); err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	catalog, _, err := newCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, config.LoadTimeouts().CatalogIndex)
	defer cancel()

	if err := catalog.WaitForIndex(ctx); err != nil {
		return fmt.Errorf("failed to index booster catalog: %w", err)
	}

	boosters := catalog.Boosters()
	return writeOutput(stdout, output, boosters, func() string { return renderBoosters(boosters) })
}
