// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"log"
	"maycharts/chartapi"
	"maycharts/chartapi/indicators"
)

type IndicatorConfig struct {
	ID         chartapi.IndicatorID `yaml:"id"`
	Properties map[string]string    `yaml:"properties,omitempty"`
	Color      string               `yaml:"color,omitempty"`
}

func NewIndicatorConfig() []IndicatorConfig {
	return []IndicatorConfig{
		{ID: indicators.DefaultID, Properties: make(map[string]string)},
	}
}

// sanitize returns false for unknown indicators.
func (c *IndicatorConfig) sanitize() bool {
	if _, err := indicators.DefaultProperties(c.ID); err != nil {
		log.Printf("Indicator %q was removed from the configuration: %v", c.ID, err)
		return false
	}
	if c.Properties == nil {
		c.Properties = make(map[string]string)
	}
	return true
}

func (c *IndicatorConfig) removeDefaults() {
	def, err := indicators.DefaultProperties(c.ID)
	if err != nil {
		return
	}
	for key, value := range c.Properties {
		if def[key] == value {
			delete(c.Properties, key)
		}
	}
}

func (c *IndicatorConfig) restoreDefaults() {
	def, err := indicators.DefaultProperties(c.ID)
	if err != nil {
		return
	}
	if c.Properties == nil {
		c.Properties = make(map[string]string)
	}
	for key, value := range def {
		if _, ok := c.Properties[key]; !ok {
			c.Properties[key] = value
		}
	}
}
