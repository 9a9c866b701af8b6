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
Package config reads and provides access to the Karta configuration file,
the way EliasDB's config package does: a global map loaded once from JSON,
with typed accessors and a hardcoded default for every key that is missing
from the file on disk.
*/
package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strconv"
)

// ProductVersion is the current version of the Karta server.
const ProductVersion = "1.0.0"

// Configuration keys.
const (
	VaultRoot         = "VaultRoot"
	StorageDirName    = "StorageDirName"
	HTTPHost          = "HTTPHost"
	HTTPPort          = "HTTPPort"
	LocationWebFolder = "LocationWebFolder"
	EnableWebFolder   = "EnableWebFolder"
	LockFile          = "LockFile"
	SearchResultLimit = "SearchResultLimit"
)

/*
DefaultConfig is the default configuration. Every value is stored as a
string and converted on demand by Str, Bool and Int - this mirrors
EliasDB's config.DefaultConfig exactly.
*/
var DefaultConfig = map[string]string{
	VaultRoot:         "",
	StorageDirName:    ".karta",
	HTTPHost:          "localhost",
	HTTPPort:          "9040",
	LocationWebFolder: "web",
	EnableWebFolder:   "false",
	LockFile:          "karta.lck",
	SearchResultLimit: "50",
}

/*
Config holds the actual configuration values as loaded from a config file
merged over DefaultConfig. It is nil until LoadConfigFile or
LoadDefaultConfig has been called.
*/
var Config map[string]string

/*
LoadDefaultConfig loads the default configuration.
*/
func LoadDefaultConfig() {
	Config = make(map[string]string)
	for k, v := range DefaultConfig {
		Config[k] = v
	}
}

/*
LoadConfigFile loads a JSON configuration file from the given path,
overlaying its values onto DefaultConfig. Missing keys fall back to their
default.
*/
func LoadConfigFile(path string) error {
	Config = make(map[string]string)
	for k, v := range DefaultConfig {
		Config[k] = v
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for k, v := range raw {
		Config[k] = fmt.Sprint(v)
	}

	return nil
}

/*
Str returns a configuration value as a string.
*/
func Str(key string) string {
	return Config[key]
}

/*
Bool returns a configuration value as a bool.
*/
func Bool(key string) bool {
	b, _ := strconv.ParseBool(Config[key])
	return b
}

/*
Int returns a configuration value as an int.
*/
func Int(key string) int {
	i, _ := strconv.Atoi(Config[key])
	return i
}

/*
WebPath joins path elements under the configured web folder.
*/
func WebPath(elem ...string) string {
	return filepath.Join(append([]string{Str(LocationWebFolder)}, elem...)...)
}
