package cmd

import (
	"errors"
	"os"

	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/spf13/cobra"

	"ecsctl/internal/display"
)

// repoCmd represents the repo command group
var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Interact with image repositories",
}

var repoLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List image repositories",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		display.Successf(os.Stdout, "Region: %s", a.cfg.Region)

		repos, err := a.query.Repositories(cmd.Context())
		if err != nil {
			return err
		}

		display.Repositories(os.Stdout, repos)
		return nil
	},
}

var repoCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an image repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		uri, err := a.query.CreateRepository(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		display.Successf(os.Stdout, "Created %s", uri)
		return nil
	},
}

var repoDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete an image repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		if err := a.query.DeleteRepository(cmd.Context(), args[0], force); err != nil {
			var notEmpty *ecrtypes.RepositoryNotEmptyException
			if errors.As(err, &notEmpty) {
				display.Warnf(os.Stdout, "Repo %s contains images. use --force flag", args[0])
				return nil
			}
			return err
		}

		display.Successf(os.Stdout, "Deleted OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(repoCmd)
	repoCmd.AddCommand(repoLsCmd)
	repoCmd.AddCommand(repoCreateCmd)
	repoCmd.AddCommand(repoDeleteCmd)
	repoDeleteCmd.Flags().Bool("force", false, "delete even if the repository still contains images")
}
