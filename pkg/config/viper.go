// Package config is responsible for initializing the narrator's configuration.
// It uses the Viper library to read settings from a config file, environment
// variables, and command-line flags, providing a unified configuration system.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	settings "github.com/JakeFAU/route-narrator/internal/config"
)

// InitConfig prepares v with defaults, search paths and NARRATOR_* environment
// overrides, then reads the config file. An explicit cfgFile must exist; when
// it is empty a missing "config" file in the search paths is not an error.
// The returned path is the file that was read, or "" when none was found.
func InitConfig(v *viper.Viper, cfgFile string) (string, error) {
	settings.SetDefaults(v)
	settings.BindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/route-narrator/")
		v.AddConfigPath("$HOME/.route-narrator")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("read config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}
