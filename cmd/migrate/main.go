package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, reading environment directly")
	}

	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		log.Fatal("DB_URL must be set")
	}

	dir, err := findMigrationsDir()
	if err != nil {
		log.Fatal(err)
	}

	m, err := migrate.New("file://"+dir, dbUrl)
	if err != nil {
		log.Fatalf("open migrations at %s: %v", dir, err)
	}

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		log.Fatalf("unknown direction %q (want up or down)", direction)
	}

	if err == migrate.ErrNoChange {
		log.Println("schema already current, nothing to apply")
		return
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", direction, err)
	}
	log.Printf("migrations applied (%s)", direction)
}

// findMigrationsDir looks for migrations/ near the working directory and the
// binary, walking upward a few levels, so the command works from the repo
// root, a subpackage, or a build output directory.
func findMigrationsDir() (string, error) {
	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		dir := cwd
		for i := 0; i < 6; i++ {
			candidates = append(candidates, filepath.Join(dir, "migrations"))
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	if exe, err := os.Executable(); err == nil {
		base := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(base, "migrations"),
			filepath.Join(base, "..", "migrations"),
			filepath.Join(base, "..", "..", "migrations"),
		)
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return filepath.Abs(candidate)
		}
	}
	return "", fmt.Errorf("no migrations directory found (%d locations checked)", len(candidates))
}
