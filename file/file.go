package file

import (
	"os"
	"path/filepath"

	"github.com/jsphweid/midiclean/model"
	"github.com/pkg/errors"
)

// OutputPath mirrors path's location under inRoot into outRoot.
func OutputPath(inRoot, outRoot, path string) (string, error) {
	rel, err := filepath.Rel(inRoot, path)
	if err != nil {
		return "", errors.Wrapf(err, "%v is not under %v", path, inRoot)
	}
	return filepath.Join(outRoot, rel), nil
}

// CheckWritable refuses to replace an existing file unless overwrite is set.
func CheckWritable(path string, overwrite bool) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "Could not stat output %v", path)
	}
	if info.IsDir() {
		return errors.Errorf("output %v is a directory", path)
	}
	if !overwrite {
		return errors.Wrapf(model.ErrOutputExists, "%v (use --overwrite to replace)", path)
	}
	return nil
}
