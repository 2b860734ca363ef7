package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/foltheorem/folprove/internal/config"
	"github.com/foltheorem/folprove/internal/store"
)

// readFileTrimmed reads path and trims surrounding whitespace, so a
// trailing newline in a .fol file doesn't trip up the parser.
func readFileTrimmed(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// newStoreOnly opens a store without rebuilding a session, for commands
// that only need persisted records (e.g. theorems export).
func newStoreOnly(_ *config.Config, log *slog.Logger) *store.SQLiteStore {
	return store.NewSQLiteStore(log)
}
