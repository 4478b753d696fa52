package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/ebook-packager/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file (.json or .yaml)")
	envFlag := flag.String("env", ".env", "Path to .env file holding API_KEY")
	flag.Parse()

	if err := tui.Run(tui.Options{ConfigPath: *configFlag, EnvFile: *envFlag}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
