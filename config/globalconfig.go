// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

const AppName = "maycharts"
const configFileName = "chartconfig.yaml"
const configFileVersion = 1

var ErrNewerVersion = errors.New("configuration file is from a newer release")

type GlobalConfig struct {
	dir            string
	loaded         bool
	version        VersionConfig
	appConfig      AppConfig
	appConfigMutex sync.Mutex
}

type VersionConfig struct {
	FileVersion int `yaml:"fileVersion"`
}

// NewGlobalConfig stores the configuration in the user config dir.
func NewGlobalConfig() *GlobalConfig {
	return NewGlobalConfigInDir("")
}

// NewGlobalConfigInDir stores the configuration in dir, or in the user config dir if dir is empty.
func NewGlobalConfigInDir(dir string) *GlobalConfig {
	return &GlobalConfig{
		dir: dir,
		version: VersionConfig{
			FileVersion: configFileVersion,
		},
		appConfig: NewAppConfig(),
	}
}

func (g *GlobalConfig) GetAppName() string {
	return AppName
}

func (g *GlobalConfig) Lock() (*AppConfig, error) {
	g.appConfigMutex.Lock()
	if !g.loaded {
		err := g.read()
		if err != nil {
			g.appConfigMutex.Unlock()
			return nil, err
		}
	}
	appConfigCopy := g.appConfig.deepCopy()
	return &appConfigCopy, nil
}

// Unlock writes the configuration before unlocking if it was changed.
func (g *GlobalConfig) Unlock(c *AppConfig) error {
	var err error
	if !cmp.Equal(g.appConfig, *c) {
		g.appConfig = c.deepCopy()
		err = g.write()
	}
	g.appConfigMutex.Unlock()
	return err
}

func (g *GlobalConfig) Copy() (AppConfig, error) {
	g.appConfigMutex.Lock()
	defer g.appConfigMutex.Unlock()
	if !g.loaded {
		err := g.read()
		if err != nil {
			return AppConfig{}, err
		}
	}
	return g.appConfig.deepCopy(), nil
}

func (g *GlobalConfig) getAppConfigDir() (string, error) {
	if g.dir != "" {
		return g.dir, nil
	}
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("unable to determine configuration path: %w", err)
	}
	return filepath.Join(userConfigDir, g.GetAppName()), nil
}

func (g *GlobalConfig) read() error {
	appConfigDir, err := g.getAppConfigDir()
	if err != nil {
		return err
	}
	fileName := filepath.Join(appConfigDir, configFileName)
	file, err := os.ReadFile(fileName)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("Configuration file \"%s\" does not yet exist, using defaults.", fileName)
		g.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read configuration file: %w", err)
	}
	var version VersionConfig
	err = yaml.Unmarshal(file, &version)
	if err != nil {
		return fmt.Errorf("failed to parse configuration version: %w", err)
	}
	// Avoid removing new unknown settings if an old release is started with a newer config file.
	if version.FileVersion > configFileVersion {
		return fmt.Errorf("%w: version %d instead of %d", ErrNewerVersion, version.FileVersion, configFileVersion)
	}
	appConfig := NewAppConfig()
	err = yaml.Unmarshal(file, &appConfig)
	if err != nil {
		return fmt.Errorf("failed to parse app configuration: %w", err)
	}
	appConfig.Sanitize()
	g.appConfig = appConfig
	g.loaded = true
	return nil
}

func (g *GlobalConfig) write() error {
	appConfigDir, err := g.getAppConfigDir()
	if err != nil {
		return err
	}
	err = os.MkdirAll(appConfigDir, 0700)
	if err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}
	g.appConfig.Sanitize()
	g.appConfig.RemoveDefaults()
	fileVersion, err := yaml.Marshal(&g.version)
	if err != nil {
		return fmt.Errorf("error generating configuration version: %w", err)
	}
	fileAppConfig, err := yaml.Marshal(&g.appConfig)
	g.appConfig.RestoreDefaults()
	if err != nil {
		return fmt.Errorf("error generating app configuration: %w", err)
	}

	file := append(fileVersion, fileAppConfig...)
	fileName := filepath.Join(appConfigDir, configFileName)
	tmpFileName := fileName + ".tmp"
	// Writing may fail, so we write to a temporary file and replace afterwards.
	err = os.WriteFile(tmpFileName, file, 0600)
	if err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	err = os.Rename(tmpFileName, fileName)
	if err != nil {
		return fmt.Errorf("failed to replace configuration file: %w", err)
	}
	return nil
}
