package repositories

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestParseCredentials(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a file with padding, a malformed line, and a colon in a password
	input := strings.NewReader(
		"alice:wonder\n" +
			"  bob : builder \n" +
			"no-delimiter-here\n" +
			"carol:pa:ss:word\n")

	// When it is parsed
	store, err := ParseCredentials(input, log)

	// Then trimmed entries load and the malformed line is skipped
	req.NoError(err)
	req.Equal(3, store.Size())

	password, ok := store.Lookup("alice")
	req.True(ok)
	req.Equal("wonder", password)

	password, ok = store.Lookup("bob")
	req.True(ok)
	req.Equal("builder", password)

	// Only the first colon delimits; the rest belongs to the password
	password, ok = store.Lookup("carol")
	req.True(ok)
	req.Equal("pa:ss:word", password)

	_, ok = store.Lookup("ghost")
	req.False(ok)
}

func TestLoadCredentials_MissingFile(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	_, err := LoadCredentials(filepath.Join(t.TempDir(), "absent.txt"), log)

	req.Error(err)
}

func TestLoadCredentials_FromDisk(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	path := filepath.Join(t.TempDir(), "users.txt")
	req.NoError(os.WriteFile(path, []byte("alice:wonder\n"), 0o600))

	store, err := LoadCredentials(path, log)

	req.NoError(err)
	req.Equal(1, store.Size())
}
