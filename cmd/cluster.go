package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ecsctl/internal/display"
)

// clusterCmd represents the cluster command group
var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Interact with clusters",
}

var clusterLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Display clusters info",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		clusters, err := a.query.Clusters(cmd.Context())
		if err != nil {
			return err
		}

		display.Clusters(os.Stdout, clusters)
		return nil
	},
}

var clusterSwitchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Switch the default cluster",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		if name == "" {
			name, err = a.pickCluster(cmd.Context())
			if err != nil {
				return err
			}
		} else {
			names, err := a.query.ClusterNames(cmd.Context())
			if err != nil {
				return err
			}
			known := false
			for _, n := range names {
				if n == name {
					known = true
					break
				}
			}
			if !known {
				return fmt.Errorf("cluster %s not found", name)
			}
		}

		if err := a.settings.SetCluster(name); err != nil {
			return err
		}
		display.Successf(os.Stdout, "Cluster: %s", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clusterCmd)
	clusterCmd.AddCommand(clusterLsCmd)
	clusterCmd.AddCommand(clusterSwitchCmd)
	clusterSwitchCmd.Flags().StringP("name", "n", "", "name of the cluster to switch to")
}
