package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ValveFS is an Afero FS with added functionality
// to replicate OS filesystems in testing
type ValveFS interface {
	afero.Fs
	Abs(string) (string, error)
	HomeDir() (string, error)
}

type valveOSFS struct {
	afero.Fs
}

func newValveOSFS() ValveFS {
	return &valveOSFS{
		afero.NewOsFs(),
	}
}

func (v *valveOSFS) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

func (v *valveOSFS) HomeDir() (string, error) {
	return os.UserHomeDir()
}

type valveMemFS struct {
	afero.Fs
}

func NewValveMemFS() ValveFS {
	return &valveMemFS{
		afero.NewMemMapFs(),
	}
}

func (v *valveMemFS) Abs(path string) (string, error) {
	return path, nil
}

func (v *valveMemFS) HomeDir() (string, error) {
	return "/", nil
}

// configCandidates lists the places a config file is looked for when none
// is given on the command line, in order of preference.
func configCandidates(fs ValveFS) []string {
	var paths []string

	if p, err := fs.Abs(ConfigFileName); err == nil {
		paths = append(paths, p)
	}
	if home, err := fs.HomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "valve", ConfigFileName))
	}
	paths = append(paths, filepath.Join("/etc", "valve", ConfigFileName))

	return paths
}
