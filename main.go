package main

import (
	"fmt"
	"os"

	"fjacquet/fin-statements/cmd/batch"
	"fjacquet/fin-statements/cmd/classify"
	"fjacquet/fin-statements/cmd/process"
	"fjacquet/fin-statements/cmd/root"
	"fjacquet/fin-statements/cmd/serve"
	"fjacquet/fin-statements/cmd/validate"
)

func init() {
	// Flags first, so every subcommand inherits them
	root.Init()

	root.Cmd.AddCommand(process.Cmd)
	root.Cmd.AddCommand(validate.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
