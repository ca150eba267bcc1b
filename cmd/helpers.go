package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"ecsctl/internal/display"
)

// Utility function to prompt user to confirm
func askForConfirmation(prompt string) bool {
	fmt.Printf("%s (yes/no): ", prompt)

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false
	}

	switch strings.ToLower(response) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		fmt.Println("Please type (y)es or (n)o and then press enter:")
		return askForConfirmation(prompt)
	}
}

// defaultCluster returns the remembered default cluster, asking the operator
// to pick one on first run.
func (a *app) defaultCluster(ctx context.Context) (string, error) {
	if cluster := a.settings.Cluster(); cluster != "" {
		display.Successf(os.Stdout, "Cluster: %s", cluster)
		return cluster, nil
	}

	cluster, err := a.pickCluster(ctx)
	if err != nil {
		return "", err
	}
	if err := a.settings.SetCluster(cluster); err != nil {
		return "", err
	}

	display.Successf(os.Stdout, "Cluster: %s", cluster)
	return cluster, nil
}

func (a *app) pickCluster(ctx context.Context) (string, error) {
	clusters, err := a.query.Clusters(ctx)
	if err != nil {
		return "", err
	}
	if len(clusters) == 0 {
		return "", fmt.Errorf("no clusters found in region %s", a.cfg.Region)
	}

	display.Successf(os.Stdout, "No default cluster set, please pick one:")
	display.Clusters(os.Stdout, clusters)

	names := make([]string, 0, len(clusters))
	for _, c := range clusters {
		if c.ClusterName != nil {
			names = append(names, *c.ClusterName)
		}
	}

	var choice string
	if err := survey.AskOne(&survey.Select{Message: "Cluster:", Options: names}, &choice); err != nil {
		return "", err
	}
	return choice, nil
}
