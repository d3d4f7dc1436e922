package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"taxdesk/internal/config"
)

const usage = `Usage: migrate <command>

Commands:
  up         apply all pending migrations
  down       revert all migrations
  steps N    apply N migrations (negative N reverts)
  force V    set schema version to V and clear the dirty flag
  version    print current schema version
`

func main() {
	log.SetFlags(0)
	log.SetPrefix("migrate: ")

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("open migrations: %v", err)
	}
	defer m.Close()

	switch cmd := os.Args[1]; cmd {
	case "up":
		run(m.Up, "schema is up to date")

	case "down":
		run(m.Down, "all migrations reverted")

	case "steps":
		n := intArg("steps")
		run(func() error { return m.Steps(n) }, fmt.Sprintf("applied %d steps", n))

	case "force":
		v := intArg("force")
		if err := m.Force(v); err != nil {
			log.Fatalf("force version %d: %v", v, err)
		}
		log.Printf("schema version forced to %d", v)

	case "version":
		v, dirty, err := m.Version()
		if err == migrate.ErrNilVersion {
			log.Println("no migrations applied")
			return
		}
		if err != nil {
			log.Fatalf("read version: %v", err)
		}
		log.Printf("schema version %d (dirty=%v)", v, dirty)

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
}

func run(fn func() error, ok string) {
	err := fn()
	switch {
	case err == migrate.ErrNoChange:
		log.Println("no change")
	case err != nil:
		log.Fatal(err)
	default:
		log.Println(ok)
	}
}

func intArg(cmd string) int {
	if len(os.Args) < 3 {
		log.Fatalf("%s requires a numeric argument", cmd)
	}
	n, err := strconv.Atoi(os.Args[2])
	if err != nil {
		log.Fatalf("%s: invalid argument %q", cmd, os.Args[2])
	}
	return n
}
