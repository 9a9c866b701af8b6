package main

import (
	"path/filepath"
	"testing"
)

func TestVaultListRoundTrip(t *testing.T) {
	vl := vaultList{}.addVault("/home/alice/notes").addVault("/home/alice/work")

	encoded := vl.encode()
	decoded := decodeVaultList(encoded)

	if decoded.Default != "/home/alice/work" {
		t.Errorf("unexpected default: %v", decoded.Default)
	}
	if len(decoded.Vaults) != 2 || decoded.Vaults[0] != "/home/alice/work" || decoded.Vaults[1] != "/home/alice/notes" {
		t.Errorf("unexpected vault order: %v", decoded.Vaults)
	}
}

func TestVaultListSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "karta_vaults.ron")

	vl := vaultList{}.addVault("/vaults/a")

	if err := vl.save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := loadVaultList(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Default != "/vaults/a" {
		t.Errorf("unexpected loaded default: %v", loaded.Default)
	}
}

func TestLoadVaultListMissingFile(t *testing.T) {
	vl, err := loadVaultList(filepath.Join(t.TempDir(), "missing.ron"))
	if err != nil {
		t.Fatal(err)
	}
	if vl.Default != "" || len(vl.Vaults) != 0 {
		t.Error("expected empty vault list for missing file")
	}
}
