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
Karta is the interactive vault picker: it prompts the user for a vault
directory (with tab-completion and a remembered vault list, spec.md 6.4
and 6.1), then runs the vault server against the chosen directory. This
surface is documented only because it selects the vault root; it is not
part of the core specification's contracts.
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"devt.de/krotik/common/termutil"

	"github.com/kartaio/karta/config"
	"github.com/kartaio/karta/server"
)

func main() {
	config.LoadDefaultConfig()

	vaultsFile := vaultsFilePath()

	vl, err := loadVaultList(vaultsFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Could not read vault list:", err)
	}

	root, err := pickVault(vl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if root == "" {
		// Empty input: exit per spec.md 6.4.
		return
	}

	if err := vl.addVault(root).save(vaultsFile); err != nil {
		fmt.Fprintln(os.Stderr, "Could not save vault list:", err)
	}

	server.StartServer(root)
}

/*
vaultsFilePath returns the path to the per-user karta_vaults.ron file.
*/
func vaultsFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".karta", "karta_vaults.ron")
}

/*
pickVault prompts the user for a vault root. Known vaults are listed for
reference only; an empty line always exits, per spec.md 6.4, regardless
of whether a default vault is known.
*/
func pickVault(vl vaultList) (string, error) {
	term, err := termutil.NewConsoleLineTerminal(os.Stdout)
	if err != nil {
		return "", err
	}

	term, err = termutil.AddAutoCompleteMixin(term, dirDict{})
	if err != nil {
		return "", err
	}

	if err := term.StartTerm(); err != nil {
		return "", err
	}
	defer term.StopTerm()

	if len(vl.Vaults) > 0 {
		term.WriteString(fmt.Sprintf("Known vaults: %v\n", vl.Vaults))
	}
	term.WriteString("Enter a vault directory (empty input exits):\n")

	return term.NextLinePrompt("vault> ", 0x0)
}
