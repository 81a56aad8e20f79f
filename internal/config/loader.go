// Copyright 2025 CineFeed Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file implements the hierarchical configuration loader. It first reads
// a base configuration file and then overwrites values with a second,
// environment-specific file (e.g. .env.local.toml, .env.test.toml). The
// directory and runtime are selected through environment variables.
package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	ConfigFileBaseName  = ".env"                     // The base name for configuration files (e.g. ".env.toml").
	ConfigFileExtension = ".toml"                    // The file extension for configuration files.
	ConfigSeparator     = "."                        // The separator used in config file names (e.g. ".env.local.toml").
	EnvConfigFilePrefix = "MOVIE_ETL_CONFIG_PREFIX"  // The environment variable for specifying the config directory.
	EnvConfigRuntime    = "MOVIE_ETL_RUNTIME"        // The environment variable for specifying the runtime context (e.g. "local", "test").
)

// fileExists checks if a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig populates cfg from a base TOML file and an optional
// environment-specific override file. The config directory is read from
// MOVIE_ETL_CONFIG_PREFIX and the runtime (which selects the override file)
// from MOVIE_ETL_RUNTIME, defaulting to "test". Either file may be absent;
// values already set on cfg survive unless a loaded file overrides them.
func LoadConfig(cfg *Config) {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	// Base file, e.g. "configs/.env.toml".
	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	// Override file, e.g. "configs/.env.test.toml".
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension

	if fileExists(baseConfigFileName) {
		if _, err := toml.DecodeFile(baseConfigFileName, cfg); err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseConfigFileName, err)
		}
	}

	if fileExists(envConfigFileName) {
		if _, err := toml.DecodeFile(envConfigFileName, cfg); err != nil {
			log.Fatalf("failed to decode environment configuration file: %s with error: %s", envConfigFileName, err)
		}
	}
}
