package roundmigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()

func init() {
	// create_go writes new files next to this one.
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
