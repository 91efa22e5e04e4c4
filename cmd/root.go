/*
Copyright © 2021 Edmond Cotterell

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator"
	"github.com/joho/godotenv"
	"github.com/sanfx/clinc-app/clinic"
	"github.com/sanfx/clinc-app/colors"
	devConfig "github.com/sanfx/clinc-app/dev/config"
	"github.com/sanfx/clinc-app/server/logger"
	"github.com/sanfx/clinc-app/shared"
	"github.com/sanfx/clinc-app/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const DATA_DIR = ".clinic"

var (
	cfgFile  string
	config   *viper.Viper
	isDevEnv bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd *cobra.Command

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd = createRootCmd()
	rootCmd.Version = fmt.Sprintf("v%s", version.Version)

	rootCmd.AddCommand(
		createPatientCmd(),
		createVitalsCmd(),
		createHistoryCmd(),
		createMigrateCmd(),
		createServerCmd(),
	)
}

func createRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use: "clinic",
		Short: `clinic keeps patient records for a small clinic.

It registers patients with their photo, records vitals measured at each visit
and keeps each patient's clinical history, in an encrypted sqlite file or in mysql.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.clinic.yaml)")
	cmd.PersistentFlags().BoolVarP(&isDevEnv, "dev", "", false, "run in development mode")

	return cmd
}

// loadConfig reads the config file and ENV variables into a validated ClinicConfig.
// A missing default config file is created from the dev template.
func loadConfig() (shared.ClinicConfig, error) {
	clinicConfig := shared.ClinicConfig{}

	// A .env file is optional
	_ = godotenv.Load()

	config = viper.New()

	configFilePath := cfgFile
	if configFilePath == "" {
		configName, configDir, err := defaultCfgNameAndDir()
		if err != nil {
			return clinicConfig, err
		}

		// If config file is not found, create one using CLINIC_YML
		configFilePath = filepath.Join(configDir, configName)
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			err = os.WriteFile(configFilePath, []byte(devConfig.CLINIC_YML), 0600)
			if err != nil {
				return clinicConfig, err
			}
		}
	}

	config.SetConfigFile(configFilePath)
	config.SetConfigType("yaml")

	// e.g. database.sqlite.dir can be overridden with DATABASE_SQLITE_DIR
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	// FYI: The env vars override whatever is in the config file
	config.BindEnv("database.mysql.user", "DB_USER")
	config.BindEnv("database.mysql.password", "DB_PASS")
	config.BindEnv("database.mysql.host", "DB_HOST")
	config.BindEnv("database.mysql.port", "DB_PORT")
	config.BindEnv("database.mysql.name", "DB_NAME")

	if err := config.ReadInConfig(); err != nil {
		return clinicConfig, formattedError("error reading config file: %v", err)
	}

	if err := config.Unmarshal(&clinicConfig); err != nil {
		return clinicConfig, formattedError("invalid config in %s: %v", config.ConfigFileUsed(), err)
	}

	if err := validator.New().Struct(clinicConfig); err != nil {
		return clinicConfig, formattedError("invalid config in %s: %v", config.ConfigFileUsed(), err)
	}

	// Empty directories resolve next to the config file
	dataDir := filepath.Join(filepath.Dir(config.ConfigFileUsed()), DATA_DIR)
	if clinicConfig.Database.Sqlite.Dir == "" {
		clinicConfig.Database.Sqlite.Dir = dataDir
	}
	if clinicConfig.Photos.Dir == "" {
		clinicConfig.Photos.Dir = filepath.Join(dataDir, "images")
	}

	return clinicConfig, nil
}

func defaultCfgNameAndDir() (configName string, configDir string, err error) {
	configName = ".clinic.yaml"

	// Use home directory for production
	configDir, err = os.UserHomeDir()
	if err != nil {
		return "", "", err
	}

	if isDevEnv {
		configName = ".clinic.dev.yaml"
		configDir, err = os.Getwd()
		if err != nil {
			return "", "", err
		}
	}

	return configName, configDir, err
}

// openClinic loads the config and opens the clinic it describes. The caller closes it.
func openClinic(ctx context.Context) (*clinic.Clinic, shared.ClinicConfig, *zap.SugaredLogger, error) {
	clinicConfig, err := loadConfig()
	if err != nil {
		return nil, clinicConfig, nil, err
	}

	logg := logger.NewLogger(clinicConfig.Logger.Level)

	c, err := clinic.Open(ctx, clinicConfig, logg)
	if err != nil {
		return nil, clinicConfig, nil, err
	}

	return c, clinicConfig, logg, nil
}

func formattedError(format string, a ...interface{}) error {
	return fmt.Errorf(colors.Red(format), a...)
}
