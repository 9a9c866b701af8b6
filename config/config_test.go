package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"testing"
)

const testconf = "testconfig"

func TestConfig(t *testing.T) {

	Config = nil

	ioutil.WriteFile(testconf, []byte(`{
    "EnableWebFolder": true
}`), 0644)

	defer func() {
		if err := os.Remove(testconf); err != nil {
			fmt.Print("Could not remove test config file:", err.Error())
		}
	}()

	if err := LoadConfigFile(testconf); err != nil {
		t.Error(err)
		return
	}

	if res := Str(EnableWebFolder); res != "true" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Bool(EnableWebFolder); !res {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Int(HTTPPort); fmt.Sprint(res) != DefaultConfig[HTTPPort] {
		t.Error("Unexpected result:", res)
		return
	}

	LoadDefaultConfig()

	if res := Str(EnableWebFolder); res != "false" {
		t.Error("Unexpected result:", res)
		return
	}

	Config[HTTPPort] = "123"

	if res := Int(HTTPPort); fmt.Sprint(res) == DefaultConfig[HTTPPort] {
		t.Error("Unexpected result:", res)
		return
	}

	if res := WebPath("123", "456"); res != "web/123/456" {
		t.Error("Unexpected result:", res)
		return
	}
}
