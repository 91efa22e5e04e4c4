package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestDataProvider []struct {
	description string
	args        []string
	expectedOut string
}

func newTestRootCmd() *cobra.Command {
	cmd := createRootCmd()
	cmd.AddCommand(
		createPatientCmd(),
		createVitalsCmd(),
		createHistoryCmd(),
		createMigrateCmd(),
	)

	return cmd
}

// setupTestEnv points the CLI at the test config with its data in temp directories
func setupTestEnv(t *testing.T) (configFile string, photoDir string) {
	path, err := os.Getwd()
	require.NoError(t, err)

	photoDir = filepath.Join(t.TempDir(), "images")
	t.Setenv("DATABASE_SQLITE_DIR", t.TempDir())
	t.Setenv("PHOTOS_DIR", photoDir)

	return filepath.Join(path, "test-fixtures", "clinic.yml"), photoDir
}

func executeCmd(configFile string, args []string) string {
	buff := new(bytes.Buffer)

	cmd := newTestRootCmd()
	cmd.SetOut(buff)
	cmd.SetErr(buff)
	cmd.SetArgs(append(args, "--config", configFile))
	cmd.Execute()

	return buff.String()
}

func TestClinicCmd(t *testing.T) {
	configFile, _ := setupTestEnv(t)

	// Cases share one database and run in order
	cases := TestDataProvider{
		{
			description: "Should create tables",
			args:        []string{"migrate"},
			expectedOut: "Clinic tables are up to date",
		},
		{
			description: "Should fail when name flag is not provided",
			args:        []string{"patient", "add", "--address", "12 Elm St"},
			expectedOut: "\"name\" not set",
		},
		{
			description: "Should register patient",
			args: []string{"patient", "add", "--name", "Asha", "--address", "12 Elm St",
				"--phone", "5550100123", "--national-id", "NID-0001"},
			expectedOut: "Patient Asha has been registered with id 1",
		},
		{
			description: "Should NOT register patient with a taken national id",
			args: []string{"patient", "add", "--name", "Asha", "--address", "12 Elm St",
				"--national-id", "NID-0001"},
			expectedOut: "a patient with the given national id already exists",
		},
		{
			description: "Should register patient with placeholders",
			args:        []string{"patient", "add", "--name", "Ravi", "--address", "4 Oak Ave"},
			expectedOut: "no national id given, using placeholder",
		},
		{
			description: "Should show patient",
			args:        []string{"patient", "show", "1"},
			expectedOut: "NID-0001",
		},
		{
			description: "Should NOT show patient that does not exist",
			args:        []string{"patient", "show", "99"},
			expectedOut: "no patient with id 99",
		},
		{
			description: "Should NOT accept invalid patient id",
			args:        []string{"patient", "show", "abc"},
			expectedOut: "invalid patient id \"abc\"",
		},
		{
			description: "Should list patients",
			args:        []string{"patient", "list"},
			expectedOut: "page 1 of 1 (2 patients)",
		},
		{
			description: "Should record vitals with converted units",
			args:        []string{"vitals", "add", "1", "--weight", "70", "--height", "175", "--temperature", "37"},
			expectedOut: "70.0 kg (154.3 lbs)",
		},
		{
			description: "Should NOT record vitals for unknown patient",
			args:        []string{"vitals", "add", "99", "--weight", "70"},
			expectedOut: "patient does not exist",
		},
		{
			description: "Should show latest vitals",
			args:        []string{"vitals", "list", "1", "--latest"},
			expectedOut: "37.0 °C (98.6 °F)",
		},
		{
			description: "Should warn when patient has no vitals",
			args:        []string{"vitals", "list", "2"},
			expectedOut: "no vitals recorded for patient 2",
		},
		{
			description: "Should record visit",
			args:        []string{"history", "add", "1", "--date", "2022-01-31", "--medicine", "Paracetamol"},
			expectedOut: "Visit on 2022-01-31 has been recorded for patient 1",
		},
		{
			description: "Should warn when recording visit without vitals",
			args:        []string{"history", "add", "2", "--medicine", "Ibuprofen"},
			expectedOut: "no vitals recorded for patient 2 yet",
		},
		{
			description: "Should NOT record visit with invalid date",
			args:        []string{"history", "add", "1", "--date", "31/01/2022"},
			expectedOut: "--date must look like 2006-01-02",
		},
		{
			description: "Should list visits",
			args:        []string{"history", "list", "1"},
			expectedOut: "Paracetamol",
		},
		{
			description: "Should delete patient",
			args:        []string{"patient", "delete", "1"},
			expectedOut: "Patient 1 has been deleted",
		},
		{
			description: "Should NOT delete patient twice",
			args:        []string{"patient", "delete", "1"},
			expectedOut: "no patient with id 1",
		},
		{
			description: "Should drop visits of deleted patient",
			args:        []string{"history", "list", "1"},
			expectedOut: "no visits recorded for patient 1",
		},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			actualOut := executeCmd(configFile, c.args)
			if !strings.Contains(actualOut, c.expectedOut) {
				t.Errorf("Expected: \n\"%s\" \nTo contain: \n\"%s\"", actualOut, c.expectedOut)
			}
		})
	}
}

func TestPatientAddWithPhoto(t *testing.T) {
	configFile, photoDir := setupTestEnv(t)

	photoPath := filepath.Join(t.TempDir(), "upload.png")
	require.NoError(t, os.WriteFile(photoPath, []byte("png bytes"), 0644))

	out := executeCmd(configFile, []string{"patient", "add", "--name", "Asha", "--address", "12 Elm St",
		"--phone", "5550100123", "--national-id", "NID-0001", "--photo", photoPath})
	assert.Contains(t, out, "has been registered")

	content, err := os.ReadFile(filepath.Join(photoDir, "Asha_5550100123_NID-0001.png"))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(content))

	out = executeCmd(configFile, []string{"patient", "delete", "1"})
	assert.Contains(t, out, "has been deleted")

	_, err = os.Stat(filepath.Join(photoDir, "Asha_5550100123_NID-0001.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadConfig(t *testing.T) {
	configFile, photoDir := setupTestEnv(t)

	savedCfgFile := cfgFile
	defer func() {
		cfgFile = savedCfgFile
	}()

	t.Run("Should override config with env vars", func(t *testing.T) {
		cfgFile = configFile
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_PORT", "3307")

		clinicConfig, err := loadConfig()
		require.NoError(t, err)

		assert.Equal(t, "sqlite", clinicConfig.Database.Driver)
		assert.Equal(t, os.Getenv("DATABASE_SQLITE_DIR"), clinicConfig.Database.Sqlite.Dir)
		assert.Equal(t, photoDir, clinicConfig.Photos.Dir)
		assert.Equal(t, "db.internal", clinicConfig.Database.Mysql.Host)
		assert.Equal(t, 3307, clinicConfig.Database.Mysql.Port)
	})

	t.Run("Should reject unknown database driver", func(t *testing.T) {
		badConfig := filepath.Join(t.TempDir(), "clinic.yml")
		require.NoError(t, os.WriteFile(badConfig, []byte("database:\n  driver: oracle\nphotos:\n  backend: local\n"), 0600))
		cfgFile = badConfig

		_, err := loadConfig()
		assert.Error(t, err)
	})
}
