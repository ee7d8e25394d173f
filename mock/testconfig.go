// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package mock

import "maycharts/config"

type TestConfig struct {
	appConfig config.AppConfig
	// Number of Unlock calls.
	Writes int
}

// Test configurations are not stored and not thread safe.
// Intended only for use in unit tests.
func NewTestConfig() *TestConfig {
	return &TestConfig{
		appConfig: config.NewAppConfig(),
	}
}

func (t *TestConfig) GetAppName() string {
	return "test"
}

func (t *TestConfig) Lock() (*config.AppConfig, error) {
	return &t.appConfig, nil
}

func (t *TestConfig) Unlock(c *config.AppConfig) error {
	t.appConfig = *c
	t.Writes++
	return nil
}

func (t *TestConfig) Copy() (config.AppConfig, error) {
	return t.appConfig, nil
}
