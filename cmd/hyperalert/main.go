// hyperalert runs the alert-rule monitoring engine: a tick-driven loop that
// fetches records, evaluates rule conditions and dispatches notifications,
// plus a management HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "hyperalert",
		Short: "Alert-rule monitoring engine",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	root.AddCommand(serveCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
