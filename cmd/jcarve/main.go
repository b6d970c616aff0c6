package main

import (
	"os"

	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("jcarve")

func main() {
	rootCmd := newRootCmd()
	rootCmd.AddCommand(newCheckCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
