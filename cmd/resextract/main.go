package main

import (
	"os"
)

func main() {
	root := extractCmd()
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(runCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(convertCmd())
	root.AddCommand(initCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
