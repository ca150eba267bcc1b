package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"ecsctl/internal/display"
)

// ec2Cmd represents the ec2 command group
var ec2Cmd = &cobra.Command{
	Use:   "ec2",
	Short: "Interact with EC2 instances",
}

var ec2LsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List running EC2 instances",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		instances, err := a.query.EC2Instances(cmd.Context())
		if err != nil {
			return err
		}

		display.EC2Instances(os.Stdout, instances)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ec2Cmd)
	ec2Cmd.AddCommand(ec2LsCmd)
}
