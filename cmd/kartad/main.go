/*
 * Karta
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Kartad is the non-interactive Karta vault server binary: it takes the
vault root as a command line argument and runs until its lockfile is
touched. See cmd/karta for the interactive vault picker.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kartaio/karta/config"
	"github.com/kartaio/karta/server"
)

func main() {
	configFile := flag.String("config", "", "Path to a JSON configuration file")
	flag.Parse()

	if *configFile != "" {
		if err := config.LoadConfigFile(*configFile); err != nil {
			fmt.Fprintln(os.Stderr, "Could not load config file:", err)
			os.Exit(1)
		}
	} else {
		config.LoadDefaultConfig()
	}

	vaultRoot := flag.Arg(0)
	if vaultRoot == "" {
		fmt.Fprintln(os.Stderr, "Usage: kartad [-config <file>] <vault root>")
		os.Exit(1)
	}

	server.StartServer(vaultRoot)
}
