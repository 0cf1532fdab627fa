package lapsecam

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
)

// TempDir returns either a temporary directory in /dev/shm (if it exists), or
// otherwise in the OS default temporary directory. Backends that have an
// external program write frames to disk use it.
func TempDir() (string, error) {
	// Only use /dev/shm if it exists, to not create a directory in /dev.
	if fi, err := os.Stat("/dev/shm"); err == nil && fi.IsDir() {
		dir, err := ioutil.TempDir("/dev/shm", "lapsecam")
		if err == nil {
			return dir, nil
		}
	}
	return ioutil.TempDir("", "lapsecam")
}

// OutputDir splits a file prefix such as "video/frame_" into an absolute
// directory and the base prefix of the file names ("frame_"). The directory
// is created, including parents, if it does not exist.
func OutputDir(prefix string) (dir, base string, err error) {
	abs, err := filepath.Abs(prefix)
	if err != nil {
		return "", "", fmt.Errorf("absolute path for prefix %q: %v", prefix, err)
	}
	// Abs cleans away a trailing separator, "video/" means "video/" + "".
	if len(prefix) > 0 && os.IsPathSeparator(prefix[len(prefix)-1]) {
		dir, base = abs, ""
	} else {
		dir, base = filepath.Split(abs)
		dir = filepath.Clean(dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("making output directory: %v", err)
	}
	return dir, base, nil
}
