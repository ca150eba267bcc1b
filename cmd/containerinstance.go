package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"ecsctl/internal/display"
)

// ciCmd represents the container instance command group
var ciCmd = &cobra.Command{
	Use:   "ci",
	Short: "Interact with container instances",
}

var ciLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List container instances",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		cluster, err := a.defaultCluster(cmd.Context())
		if err != nil {
			return err
		}

		instances, err := a.query.ContainerInstances(cmd.Context(), cluster)
		if err != nil {
			return err
		}

		display.ContainerInstances(os.Stdout, instances)
		return nil
	},
}

var ciDrainCmd = &cobra.Command{
	Use:   "drain <ec2-instance-id>",
	Short: "Set a container instance to DRAINING",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		cluster, err := a.defaultCluster(cmd.Context())
		if err != nil {
			return err
		}

		instance, err := a.query.Drain(cmd.Context(), cluster, args[0])
		if err != nil {
			return err
		}

		name := args[0]
		if instance.Detail != nil && instance.Detail.Name != "" {
			name = instance.Detail.Name
		}
		display.Successf(os.Stdout, "Setting %s (%s) to DRAIN", name, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ciCmd)
	ciCmd.AddCommand(ciLsCmd)
	ciCmd.AddCommand(ciDrainCmd)
}
