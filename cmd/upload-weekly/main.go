package main

import (
	"fmt"
	"os"

	"github.com/dvloznov/report-uploader/internal/cli"
	"github.com/dvloznov/report-uploader/internal/report"
)

func main() {
	if err := cli.NewUploadCommand(report.Weekly).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
