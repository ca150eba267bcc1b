package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ecsctl/internal/deploy"
	"ecsctl/internal/display"
	"ecsctl/internal/servicedef"
)

// serviceCmd represents the service command group
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Interact with services",
}

var serviceLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List services",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		cluster, err := a.defaultCluster(cmd.Context())
		if err != nil {
			return err
		}

		services, err := a.query.Services(cmd.Context(), cluster)
		if err != nil {
			return err
		}

		display.Services(os.Stdout, services)
		return nil
	},
}

var serviceDescribeCmd = &cobra.Command{
	Use:   "describe <name>",
	Short: "Render and print the definition of a service",
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

		out, err := yaml.Marshal(def)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var serviceTasksCmd = &cobra.Command{
	Use:   "tasks <service>",
	Short: "Show a service's state, revisions, events and running tasks",
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
		ctx := cmd.Context()
		name := args[0]

		service, err := a.query.Service(ctx, cluster, name)
		if err != nil {
			return err
		}
		display.Services(os.Stdout, []ecstypes.Service{*service})

		revisions, err := a.query.TaskDefinitionARNs(ctx, name)
		if err != nil {
			return err
		}
		display.TaskDefinitions(os.Stdout, revisions, 5)

		display.ServiceEvents(os.Stdout, service.Events, 10)

		tasks, err := a.query.TasksByFamily(ctx, cluster, name)
		if err != nil {
			return err
		}
		if len(tasks) > 0 {
			display.Tasks(os.Stdout, tasks)
		}
		return nil
	},
}

var serviceScaleCmd = &cobra.Command{
	Use:   "scale <name> <desired>",
	Short: "Scale a service to a desired count",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var desired int32
		if _, err := fmt.Sscanf(args[1], "%d", &desired); err != nil || desired < 0 {
			return fmt.Errorf("desired count must be a non-negative integer, got %q", args[1])
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		cluster, err := a.defaultCluster(cmd.Context())
		if err != nil {
			return err
		}

		display.Successf(os.Stdout, "Scaling %s to %d", args[0], desired)
		return a.deployer.UpdateService(cmd.Context(), deploy.UpdateParams{
			Cluster:      cluster,
			Name:         args[0],
			DesiredCount: aws.Int32(desired),
		})
	},
}

var serviceRedeployCmd = &cobra.Command{
	Use:   "redeploy <name>",
	Short: "Force a new deployment of a service",
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

		display.Successf(os.Stdout, "Redeploying %s", args[0])
		return a.deployer.UpdateService(cmd.Context(), deploy.UpdateParams{
			Cluster:            cluster,
			Name:               args[0],
			ForceNewDeployment: true,
		})
	},
}

var serviceCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Register the task definition and create the service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rev, _ := cmd.Flags().GetInt32("rev")
		desired, _ := cmd.Flags().GetInt32("desired")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		cluster, err := a.defaultCluster(cmd.Context())
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		name := args[0]

		def, reg, err := a.resolveRevision(ctx, cluster, name, &rev, &desired)
		if err != nil {
			return err
		}

		display.Successf(os.Stdout, "Creating %s (Desired=%d) with revision %d", name, desired, rev)
		if err := a.deployer.CreateService(ctx, deploy.ServiceParams{
			Cluster:        cluster,
			Name:           name,
			TaskDefinition: fmt.Sprintf("%s:%d", name, rev),
			DesiredCount:   aws.Int32(desired),
		}, def); err != nil {
			return err
		}

		return a.reconcileSchedule(ctx, cluster, name, def, reg)
	},
}

var serviceUpdateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Register the task definition and update the service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rev, _ := cmd.Flags().GetInt32("rev")
		desired, _ := cmd.Flags().GetInt32("desired")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		cluster, err := a.defaultCluster(cmd.Context())
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		name := args[0]

		def, reg, err := a.resolveRevision(ctx, cluster, name, &rev, &desired)
		if err != nil {
			return err
		}

		display.Successf(os.Stdout, "Updating %s (Desired=%d) using revision %d", name, desired, rev)
		if err := a.deployer.UpdateService(ctx, deploy.UpdateParams{
			Cluster:        cluster,
			Name:           name,
			TaskDefinition: fmt.Sprintf("%s:%d", name, rev),
			DesiredCount:   aws.Int32(desired),
			Daemon:         def != nil && def.SchedulingStrategy == servicedef.StrategyDaemon,
		}); err != nil {
			return err
		}

		return a.reconcileSchedule(ctx, cluster, name, def, reg)
	},
}

var serviceDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Scale a service to zero and delete it, cleaning up its schedule",
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
		name := args[0]

		if !askForConfirmation(fmt.Sprintf("Delete service %s from %s?", name, cluster)) {
			fmt.Println("Operation cancelled by user")
			return nil
		}

		display.Warnf(os.Stdout, "Deleting %s", name)
		return a.deployer.DeleteService(cmd.Context(), cluster, name, func() (*servicedef.Definition, error) {
			return a.renderer.Render(name, cluster)
		})
	},
}

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.AddCommand(serviceLsCmd)
	serviceCmd.AddCommand(serviceDescribeCmd)
	serviceCmd.AddCommand(serviceTasksCmd)
	serviceCmd.AddCommand(serviceScaleCmd)
	serviceCmd.AddCommand(serviceRedeployCmd)
	serviceCmd.AddCommand(serviceCreateCmd)
	serviceCmd.AddCommand(serviceUpdateCmd)
	serviceCmd.AddCommand(serviceDeleteCmd)

	for _, c := range []*cobra.Command{serviceCreateCmd, serviceUpdateCmd} {
		c.Flags().Int32("rev", 0, "use an existing task definition revision instead of re-registering")
		c.Flags().Int32("desired", 2, "desired count (overridden by the definition's Desired field)")
	}
}

// resolveRevision renders and registers the definition unless the operator
// pinned an existing revision with --rev. The definition's Desired field
// overrides the flag.
func (a *app) resolveRevision(ctx context.Context, cluster, name string, rev, desired *int32) (*servicedef.Definition, *deploy.Registration, error) {
	if *rev != 0 {
		return nil, nil, nil
	}

	def, err := a.renderer.Render(name, cluster)
	if err != nil {
		return nil, nil, err
	}

	reg, err := a.deployer.RegisterTaskDefinition(ctx, def)
	if err != nil {
		return nil, nil, err
	}
	*rev = reg.Revision

	if def.Desired != nil {
		*desired = *def.Desired
	}
	return def, reg, nil
}

// reconcileSchedule upserts the service's schedule rule when the definition
// declares one and removes any leftover rule when it does not. With a pinned
// revision there is no definition to read and nothing to reconcile.
func (a *app) reconcileSchedule(ctx context.Context, cluster, name string, def *servicedef.Definition, reg *deploy.Registration) error {
	if def == nil {
		return nil
	}
	if def.Schedule == nil {
		return a.deployer.DeleteSchedule(ctx, name)
	}

	cl, err := a.query.Cluster(ctx, cluster)
	if err != nil {
		return err
	}

	return a.deployer.PutSchedule(ctx, deploy.ScheduleSpec{
		Name:              name,
		RoleArn:           def.Schedule.RoleArn,
		LaunchType:        def.LaunchType,
		ClusterArn:        aws.ToString(cl.ClusterArn),
		TaskDefinitionArn: reg.ARN,
		Network:           def.NetworkConfiguration,
		FixedInterval:     def.Schedule.FixedInterval,
	})
}
