/*
 * Karta
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package server

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	"devt.de/krotik/common/fileutil"

	"github.com/kartaio/karta/config"
)

const testvault = "testvault"

var printLog = []string{}
var errorLog = []string{}
var printLogging = false

func TestMain(m *testing.M) {
	flag.Parse()

	print = func(v ...interface{}) {
		if printLogging {
			fmt.Println(v...)
		}
		printLog = append(printLog, fmt.Sprint(v...))
	}
	fatal = func(v ...interface{}) {
		if printLogging {
			fmt.Println(v...)
		}
		errorLog = append(errorLog, fmt.Sprint(v...))
	}

	defer func() { fatal = log.Fatal }()

	if res, _ := fileutil.PathExists(testvault); res {
		os.RemoveAll(testvault)
	}
	ensurePath(testvault)

	res := m.Run()

	os.RemoveAll(testvault)

	os.Exit(res)
}

/*
TestStartAndShutdown starts the server against a scratch vault, waits for
it to come up, then shuts it down by touching its lockfile - the same
mechanism an operator uses to stop the process.
*/
func TestStartAndShutdown(t *testing.T) {
	defer func() { http.DefaultServeMux = http.NewServeMux() }()

	printLog = nil
	errorLog = nil

	config.LoadDefaultConfig()
	config.Config[config.HTTPPort] = "0"

	done := make(chan struct{})
	go func() {
		StartServer(testvault)
		close(done)
	}()

	// Give the server a moment to open the graph store and register routes.
	time.Sleep(300 * time.Millisecond)

	lockfile := testvault + "/" + config.Str(config.StorageDirName) + "/" + config.Str(config.LockFile)

	for i := 0; i < 20; i++ {
		if ok, _ := fileutil.PathExists(lockfile); ok {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Touch the lockfile to signal shutdown.
	os.WriteFile(lockfile, []byte("shutdown"), 0644)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after lockfile was touched")
	}

	if len(errorLog) != 0 {
		t.Error("unexpected fatal errors:", errorLog)
	}
}
