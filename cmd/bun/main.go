package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	roundmigrations "github.com/Black-And-White-Club/golf-bot/app/modules/round/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/golf-bot/config"
	"github.com/Black-And-White-Club/golf-bot/internal/db/bundb"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "golf-bot database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			newDBCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withMigrator opens the database named by --config and hands fn the round
// migrator.
func withMigrator(fn func(c *cli.Context, m *migrate.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.LoadConfig(c.String("config"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		dbService, err := bundb.NewBunDBService(c.Context, cfg.Postgres.DSN, nil)
		if err != nil {
			return err
		}
		defer dbService.Close()

		return fn(c, migrate.NewMigrator(dbService.GetDB(), roundmigrations.Migrations))
	}
}

// locked holds the migration lock for the duration of fn.
func locked(fn func(c *cli.Context, m *migrate.Migrator) error) func(*cli.Context, *migrate.Migrator) error {
	return func(c *cli.Context, m *migrate.Migrator) error {
		if err := m.Lock(c.Context); err != nil {
			return err
		}
		defer m.Unlock(c.Context) //nolint:errcheck
		return fn(c, m)
	}
}

func reportGroup(group *migrate.MigrationGroup, err error, done, empty string) error {
	if err != nil {
		return err
	}
	if group.IsZero() {
		fmt.Println(empty)
		return nil
	}
	fmt.Printf("%s %s\n", done, group)
	return nil
}

func newDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrator) error {
					return m.Init(c.Context)
				}),
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: withMigrator(locked(func(c *cli.Context, m *migrate.Migrator) error {
					group, err := m.Migrate(c.Context)
					return reportGroup(group, err, "Migrated to", "No new migrations to run")
				})),
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: withMigrator(locked(func(c *cli.Context, m *migrate.Migrator) error {
					group, err := m.Rollback(c.Context)
					return reportGroup(group, err, "Rolled back", "No groups to roll back")
				})),
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<name words...>",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrator) error {
					if c.NArg() == 0 {
						return fmt.Errorf("create_go needs a migration name")
					}
					name := strings.Join(c.Args().Slice(), "_")
					mf, err := m.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration %s (%s)\n", mf.Name, mf.Path)
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrator) error {
					ms, err := m.MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("Migrations: %s\n", ms)
					fmt.Printf("Applied: %s\n", ms.Applied())
					fmt.Printf("Unapplied: %s\n", ms.Unapplied())
					return nil
				}),
			},
		},
	}
}
