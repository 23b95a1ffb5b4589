package main

import (
	_ "embed"
	"io"
	"os"
	"text/template"
)

//go:embed valve.service
var valveServiceEmbed string

type ValveServiceParams struct {
	BinaryPath string
	ConfigPath string
	User       string
}

// The pi user is in the gpio group, which is enough for /dev/gpiomem and
// /dev/gpiochip0.
const defaultServiceUser = "pi"

func WriteSystemdServiceFile(w io.Writer, params ValveServiceParams) error {
	tmpl, err := template.New("valve.service").Parse(valveServiceEmbed)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, params)
}

// SystemdServiceFile prints a unit for the running binary.
func SystemdServiceFile(configPath string) error {
	path, err := os.Executable()
	if err != nil {
		return err
	}

	return WriteSystemdServiceFile(os.Stdout, ValveServiceParams{
		BinaryPath: path,
		ConfigPath: configPath,
		User:       defaultServiceUser,
	})
}
