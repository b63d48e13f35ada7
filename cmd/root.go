package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "kubesim",
	Short: "kubesim simulates a container-orchestration control plane, one tick at a time",
}

func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the logger the event recorder mirrors into.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every controller action, not just warnings")
	rootCmd.AddCommand(runCmd)
}
