package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foltheorem/folprove/internal/store"
	"github.com/foltheorem/folprove/pkg/fol/session"
)

func TestAxiomWatchStopsOnContextCancellation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "session.db")
	watchDir := t.TempDir()

	root := NewRootCommand("test")
	root.SetArgs([]string{"--store-path", dbPath, "axiom", "watch", watchDir})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// PersistentPreRunE derives its own context from the one passed to
	// ExecuteContext via context.WithValue, so the cancellation here
	// survives into the subcommand's RunE.
	err := root.ExecuteContext(ctx)
	assert.Error(t, err)
}

func TestAddAxiomFromFilePersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "session.db")
	st := store.NewSQLiteStore(nil)
	require.NoError(t, st.Open(dbPath))
	defer st.Close()
	require.NoError(t, st.InitSchema())

	sess := session.New(nil, nil)

	path := filepath.Join(t.TempDir(), "a.fol")
	require.NoError(t, writeTestFile(path, "P(A)\n"))

	require.NoError(t, addAxiomFromFile(sess, st, path))
	assert.Len(t, sess.Axioms(), 1)

	records, err := st.ListAxioms()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "P(A)", records[0].Source)
}
