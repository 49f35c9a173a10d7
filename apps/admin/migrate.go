package main

import (
	"github.com/nafasihq/nafasi/storage/database"
)

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrate() error {
	return migrateFunc(cli.db, cli.conf)
}
