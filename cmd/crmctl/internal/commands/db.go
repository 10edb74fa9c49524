package commands

import (
	"context"
	"fmt"

	"github.com/spec-kit/crm-service/internal/persistence"
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/internal/service"
)

type CreateDBCmd struct{}

func (c *CreateDBCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	return createDB(ctx, e)
}

type DropDBCmd struct{}

func (c *DropDBCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	return dropDB(ctx, e)
}

type SeedDBCmd struct{}

func (c *SeedDBCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	return seedDB(ctx, e)
}

type ResetDBCmd struct{}

func (c *ResetDBCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	if err := dropDB(ctx, e); err != nil {
		return err
	}
	if err := createDB(ctx, e); err != nil {
		return err
	}
	if err := seedDB(ctx, e); err != nil {
		return err
	}
	fmt.Println("Database has been reset and seeded with initial data.")
	return nil
}

type DBUpgradeCmd struct{}

func (c *DBUpgradeCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	if err := persistence.RunMigrations(ctx, e.pg.PoolHandle(), e.logger); err != nil {
		return fmt.Errorf("failed to upgrade database: %w", err)
	}
	fmt.Println("Database upgraded successfully!")
	return nil
}

func createDB(ctx context.Context, e *env) error {
	if err := persistence.RunMigrations(ctx, e.pg.PoolHandle(), e.logger); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	fmt.Println("Database and tables created successfully.")
	return nil
}

func dropDB(ctx context.Context, e *env) error {
	if err := persistence.DropSchema(ctx, e.pg.PoolHandle(), e.logger); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	fmt.Println("All tables dropped successfully.")
	return nil
}

func seedDB(ctx context.Context, e *env) error {
	exists, err := persistence.HasTable(ctx, e.pg.PoolHandle(), "workers")
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if !exists {
		return fmt.Errorf("workers table does not exist, run create-db first")
	}

	workers := service.NewWorkerService(*e.cfg, repository.NewWorkerRepository(e.pg.PoolHandle()), e.logger)
	_, created, err := workers.SeedAdmin(ctx, e.cfg.Bootstrap)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	if created {
		fmt.Println("Admin user seeded into the database.")
	} else {
		fmt.Println("Admin user already exists.")
	}
	return nil
}
