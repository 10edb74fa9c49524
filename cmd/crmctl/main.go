package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/spec-kit/crm-service/cmd/crmctl/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		CreateDB    commands.CreateDBCmd    `cmd:"" name:"create-db" help:"Create the database tables"`
		DropDB      commands.DropDBCmd      `cmd:"" name:"drop-db" help:"Drop all tables"`
		SeedDB      commands.SeedDBCmd      `cmd:"" name:"seed-db" help:"Seed the initial admin worker"`
		ResetDB     commands.ResetDBCmd     `cmd:"" name:"reset-db" help:"Drop, create and seed the database"`
		ListWorkers commands.ListWorkersCmd `cmd:"" name:"list-workers" help:"List all workers"`
		DBUpgrade   commands.DBUpgradeCmd   `cmd:"" name:"db-upgrade" help:"Apply pending migrations"`
		Debug       bool                    `help:"Enable debug logging."`
		Version     kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("crmctl"),
		kong.Description("CRM service database management."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
