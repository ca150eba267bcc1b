// Package cmd implements the ecsctl command tree.
package cmd

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ecsctl/internal/deploy"
	"ecsctl/internal/display"
	"ecsctl/internal/ecsx"
	"ecsctl/internal/servicedef"
	"ecsctl/internal/settings"
)

var (
	verbose      bool
	servicesDir  string
	settingsFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ecsctl",
	Short: "Interactive command line client for Amazon ECS",
	Long: `ecsctl wraps the ECS, EC2, ECR, CloudWatch Logs and EventBridge APIs
into short commands for everyday cluster administration: listing and scaling
services, registering task definitions from declarative YAML files, and
deploying services together with their recurring schedules.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logrus.SetOutput(os.Stderr)
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.InfoLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		display.Warnf(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&servicesDir, "services-dir", "./services", "directory holding service definition files")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", settings.DefaultFile, "path of the local settings file")
}

// app bundles the shared clients built once per invocation.
type app struct {
	cfg      aws.Config
	settings *settings.Settings
	query    *ecsx.Client
	deployer *deploy.Deployer
	renderer *servicedef.Renderer
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	logrus.Debugf("resolved region %s", cfg.Region)

	sets, err := settings.Load(settingsFile)
	if err != nil {
		return nil, err
	}

	ecsClient := ecs.NewFromConfig(cfg)

	return &app{
		cfg:      cfg,
		settings: sets,
		query: &ecsx.Client{
			ECS: ecsClient,
			EC2: ec2.NewFromConfig(cfg),
			ECR: ecr.NewFromConfig(cfg),
		},
		deployer: &deploy.Deployer{
			ECS:    ecsClient,
			Logs:   cloudwatchlogs.NewFromConfig(cfg),
			Events: eventbridge.NewFromConfig(cfg),
			Notify: func(format string, args ...interface{}) {
				display.Successf(os.Stdout, format, args...)
			},
		},
		renderer: &servicedef.Renderer{
			Dir:    servicesDir,
			Region: cfg.Region,
		},
	}, nil
}
