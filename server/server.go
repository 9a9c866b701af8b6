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
Package server contains the code which starts the Karta vault server -
the way EliasDB's server package assembles its GraphManager and starts
its HTTP server, adapted to Karta's own VaultService and plain HTTP
surface (spec.md's Non-goals exclude clustering and TLS is not named in
the HTTP surface, unlike EliasDB's).
*/
package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/common/httputil"
	"devt.de/krotik/common/lockutil"
	"devt.de/krotik/common/timeutil"

	"github.com/kartaio/karta/api"
	v1 "github.com/kartaio/karta/api/v1"
	"github.com/kartaio/karta/config"
	"github.com/kartaio/karta/graph"
	"github.com/kartaio/karta/vault"
)

/*
Using a custom consolelogger type so log.Fatal calls can be swapped out in
unit tests without exiting the test process.
*/
type consolelogger func(v ...interface{})

var fatal = consolelogger(log.Fatal)

var print = consolelogger(func(v ...interface{}) {
	log.Print(append([]interface{}{timeutil.MakeTimestamp(), " "}, v...)...)
})

// basepath is the directory the server's web folder is resolved against
// (overridden by unit tests).
var basepath = ""

/*
StartServer runs the Karta vault server against vaultRoot, the
user-selected directory that becomes "/vault". Blocks until the server is
shut down via its lockfile.
*/
func StartServer(vaultRoot string) {
	print(fmt.Sprintf("Karta %v", config.ProductVersion))

	if config.Config == nil {
		config.LoadDefaultConfig()
	}
	config.Config[config.VaultRoot] = vaultRoot

	storageDir := filepath.Join(vaultRoot, config.Str(config.StorageDirName))

	print("Opening vault: ", vaultRoot)
	print("Storage directory: ", storageDir)

	ensurePath(storageDir)

	gm, err := graph.Open(filepath.Join(storageDir, "graph.db"))
	if err != nil {
		fatal("Failed to open graph store:", err)
		return
	}

	defer func() {
		print("Closing graph store")
		if err := gm.Close(); err != nil {
			fatal(err)
		}
	}()

	api.Service = vault.Open(gm, vaultRoot, storageDir)
	api.APIHost = config.Str(config.HTTPHost) + ":" + config.Str(config.HTTPPort)

	print("Registering REST endpoints")

	api.RegisterRestEndpoints(api.GeneralEndpointMap)
	api.RegisterRestEndpoints(v1.V1EndpointMap)

	if config.Bool(config.EnableWebFolder) {
		webFolder := filepath.Join(basepath, config.Str(config.LocationWebFolder))

		print("Ensuring web folder: ", webFolder)
		ensurePath(webFolder)

		fs := http.FileServer(http.Dir(webFolder))
		api.HandleFunc("/", fs.ServeHTTP)
	}

	hs := &httputil.HTTPServer{}

	var wg sync.WaitGroup
	wg.Add(1)

	port := config.Str(config.HTTPPort)

	print("Starting server on: ", api.APIHost)

	go hs.RunHTTPServer(":"+port, &wg)

	wg.Wait()

	if hs.LastError != nil {
		fatal(hs.LastError)
		return
	}

	lf := lockutil.NewLockFile(filepath.Join(storageDir, config.Str(config.LockFile)), 2*time.Second)
	lf.Start()

	go func() {
		for lf.WatcherRunning() {
			time.Sleep(time.Second)
		}
		print("Lockfile was modified")
		hs.Shutdown()
	}()

	wg.Add(1)

	print("Waiting for shutdown")
	wg.Wait()

	print("Shutting down")
}

/*
ensurePath ensures that a given path exists.
*/
func ensurePath(path string) {
	if res, _ := fileutil.PathExists(path); !res {
		if err := os.MkdirAll(path, 0770); err != nil {
			fatal("Could not create directory:", err.Error())
			return
		}
	}
}
