package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/twogtp/internal/twogtp/cmd"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	if err := twogtp(); err != nil {
		logrus.Fatal(err)
	}
}

func twogtp() error {
	root := cmd.Root()
	root.SetArgs(os.Args[1:])
	return root.Execute()
}
