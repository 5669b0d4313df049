package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEnv_FirstNonBlankWins(t *testing.T) {
	t.Setenv("STRATINT_TEST_A", "   ")
	t.Setenv("STRATINT_TEST_B", "  second ")
	t.Setenv("STRATINT_TEST_C", "third")

	assert.Equal(t, "second", ReadEnv("STRATINT_TEST_MISSING", "STRATINT_TEST_A", "STRATINT_TEST_B", "STRATINT_TEST_C"))
	assert.Equal(t, "", ReadEnv("STRATINT_TEST_MISSING"))
}

func TestLoadDotEnvFrom(t *testing.T) {
	dir := t.TempDir()
	content := "# comment\nSTRATINT_DOTENV_NEW=from-file\nSTRATINT_DOTENV_SET=from-file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	t.Setenv("STRATINT_DOTENV_SET", "from-process")
	t.Setenv("STRATINT_DOTENV_NEW", "")
	require.NoError(t, os.Unsetenv("STRATINT_DOTENV_NEW"))

	require.NoError(t, LoadDotEnvFrom(dir))

	assert.Equal(t, "from-file", os.Getenv("STRATINT_DOTENV_NEW"))
	assert.Equal(t, "from-process", os.Getenv("STRATINT_DOTENV_SET"))
}

func TestLoadDotEnvFrom_MissingFileIsNotAnError(t *testing.T) {
	assert.NoError(t, LoadDotEnvFrom(t.TempDir()))
}
