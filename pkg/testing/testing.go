package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// tests run from the module root so relative paths (logs/, .env, sqlite files)
	// resolve the same way they do for the server binary:
	//
	//   import (
	//     _ "liyu1981.xyz/device-health-service/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
}
