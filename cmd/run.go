package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunstb/learn-k8s-sub003/engine"
)

var (
	files []string
	ticks int
	drain string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Apply manifests and advance the cluster a number of ticks",
	Long: `Run builds a fresh cluster from the given manifests, advances it the
requested number of ticks and prints the resulting state and event log.
The cluster lives only for this invocation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := engine.New(newLogger())

		for _, f := range files {
			if err := applyFile(eng, f); err != nil {
				return err
			}
		}

		eng.Run(ticks)

		if drain != "" {
			evicted, blocked, err := eng.Drain(drain)
			if err != nil {
				return err
			}
			fmt.Printf("drained node %s: %d evicted, %d blocked\n", drain, len(evicted), len(blocked))
			// One more pass so the evictions settle and controllers react.
			eng.Step()
		}

		printCluster(cmd.OutOrStdout(), eng)
		return nil
	},
}

func init() {
	runCmd.Flags().StringSliceVarP(&files, "filename", "f", nil, "YAML manifest(s) to apply before ticking")
	runCmd.Flags().IntVarP(&ticks, "ticks", "t", 10, "number of reconciliation ticks to run")
	runCmd.Flags().StringVar(&drain, "drain", "", "drain this node after the ticks complete")
	runCmd.MarkFlagRequired("filename")
}
