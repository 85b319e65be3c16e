// Package check verifies the external tools the pipeline spawns are present
// before any media work starts.
package check

import (
	"os/exec"

	"github.com/hevcify/hevcify/internal/errors"
)

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// RequiredTools lists the executables every run depends on, in check order.
var RequiredTools = []string{"ffmpeg", "ffprobe", "exiftool"}

// Logger receives the resolved tool paths.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// Run resolves every required tool on PATH, failing on the first miss with an
// error naming the absent executable. A nil log drops the resolved paths.
func Run(log Logger) error {
	for _, tool := range RequiredTools {
		path, err := lookPath(tool)
		if err != nil {
			return errors.NewDependencyError(tool)
		}
		if log != nil {
			log.Debugf("found %s at %s", tool, path)
		}
	}
	return nil
}
