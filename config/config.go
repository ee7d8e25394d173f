// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

type Config interface {
	GetAppName() string
	// Lock returns a copy which can be modified. Unlock needs to be called afterwards, if no error was returned.
	Lock() (*AppConfig, error)
	Unlock(c *AppConfig) error
	Copy() (AppConfig, error)
}
