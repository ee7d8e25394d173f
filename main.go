// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package main

import (
	"context"
	"log"
	"maycharts/config"
	"maycharts/initapp"
)

func main() {
	c := config.NewGlobalConfig()
	var loader initapp.BarLoader
	cache, err := initapp.NewBarCache(c)
	if err != nil {
		log.Printf("Bar cache is not available: %v", err)
	} else {
		loader = cache
	}
	if _, err := initapp.NewInitApp(c, loader).Run(context.Background()); err != nil {
		log.Fatalf("Failed to build chart: %v", err)
	}
}
