package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ApplyMigrations пересоздает схему истории: сначала .down.sql в обратном порядке,
// затем .up.sql по возрастанию номера. Тесты получают схему текущей версии
// даже если база осталась от прошлого запуска.
func ApplyMigrations(db *sqlx.DB, dir string, logger *zap.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var ups, downs []string
	for _, e := range entries {
		switch name := e.Name(); {
		case strings.HasSuffix(name, ".up.sql"):
			ups = append(ups, name)
		case strings.HasSuffix(name, ".down.sql"):
			downs = append(downs, name)
		}
	}
	sort.Strings(ups)
	sort.Sort(sort.Reverse(sort.StringSlice(downs)))

	for _, name := range append(downs, ups...) {
		if err := execFile(db, filepath.Join(dir, name)); err != nil {
			return err
		}
		logger.Debug("Applied migration", zap.String("file", name))
	}
	return nil
}

func execFile(db *sqlx.DB, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", filepath.Base(path), err)
	}
	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("apply migration %s: %w", filepath.Base(path), err)
	}
	return nil
}
