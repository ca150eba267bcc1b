package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ecsctl/internal/display"
)

// taskCmd represents the task command group
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Interact with tasks",
}

var taskRegisterCmd = &cobra.Command{
	Use:   "register <service>",
	Short: "Register the task definition of a service definition file",
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

		def, err := a.renderer.Render(args[0], cluster)
		if err != nil {
			return err
		}

		reg, err := a.deployer.RegisterTaskDefinition(cmd.Context(), def)
		if err != nil {
			return err
		}

		display.Successf(os.Stdout, "%s now at revision %d", args[0], reg.Revision)
		return nil
	},
}

var taskStartCmd = &cobra.Command{
	Use:   "start <task-definition> <container-instance>",
	Short: "Start a task on a container instance",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		cluster, err := a.defaultCluster(cmd.Context())
		if err != nil {
			return err
		}

		arn, err := a.query.StartTask(cmd.Context(), cluster, args[0], args[1])
		if err != nil {
			return err
		}

		id := arn
		if i := strings.Index(arn, ":task/"); i >= 0 {
			id = arn[i+len(":task/"):]
		}
		display.Successf(os.Stdout, "Started %s task %s", args[0], id)
		return nil
	},
}

var taskStopCmd = &cobra.Command{
	Use:   "stop <task>",
	Short: "Stop a task",
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

		if err := a.query.StopTask(cmd.Context(), cluster, args[0]); err != nil {
			return err
		}

		display.Successf(os.Stdout, "Stopped task %s", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskRegisterCmd)
	taskCmd.AddCommand(taskStartCmd)
	taskCmd.AddCommand(taskStopCmd)
}
