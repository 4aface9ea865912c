// Package testing prepares the process for package tests. Import it for its
// side effects:
//
//	import (
//	  _ "liyu1981.xyz/battery-fleet-service/pkg/testing"
//	)
package testing

import (
	"os"
	"path"
	"path/filepath"
	"runtime"
)

// same key as common.EnvKeyFleetLogDir; common's own tests import this package
const envKeyLogDir = "FLEET_LOG_DIR"

func init() {
	_, filename, _, _ := runtime.Caller(0)           // path of this file
	dir := path.Join(path.Dir(filename), "..", "..") // project root
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}

	// keep test runs from rotating the development log file
	if _, found := os.LookupEnv(envKeyLogDir); !found {
		if err := os.Setenv(envKeyLogDir, filepath.Join(os.TempDir(), "battery-fleet-test-logs")); err != nil {
			panic(err)
		}
	}
}
