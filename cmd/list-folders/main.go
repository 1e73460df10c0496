package main

import (
	"fmt"
	"os"

	"github.com/dvloznov/report-uploader/internal/cli"
)

func main() {
	if err := cli.NewListFoldersCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
