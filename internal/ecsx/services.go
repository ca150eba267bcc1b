package ecsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// Services lists and describes every service in the cluster. DescribeServices
// accepts at most ten services per call, so the listing is described in
// order-preserving batches and the results concatenated.
func (c *Client) Services(ctx context.Context, cluster string) ([]types.Service, error) {
	out, err := c.ECS.ListServices(ctx, &ecs.ListServicesInput{
		Cluster:    aws.String(cluster),
		MaxResults: aws.Int32(100),
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(out.ServiceArns))
	for _, arn := range out.ServiceArns {
		names = append(names, shortARN(arn, ":service/"))
	}
	if len(names) == 0 {
		return nil, nil
	}

	var services []types.Service
	for _, batch := range chunk(names, describeBatchSize) {
		out, err := c.ECS.DescribeServices(ctx, &ecs.DescribeServicesInput{
			Cluster:  aws.String(cluster),
			Services: batch,
		})
		if err != nil {
			return nil, err
		}
		services = append(services, out.Services...)
	}
	return services, nil
}

// Service describes one service by name.
func (c *Client) Service(ctx context.Context, cluster, name string) (*types.Service, error) {
	out, err := c.ECS.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(cluster),
		Services: []string{name},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Services) == 0 {
		return nil, fmt.Errorf("service %s not found in cluster %s", name, cluster)
	}
	return &out.Services[0], nil
}

// TaskDefinitionARNs lists the active task definition revisions for a family
// prefix, newest first.
func (c *Client) TaskDefinitionARNs(ctx context.Context, familyPrefix string) ([]string, error) {
	out, err := c.ECS.ListTaskDefinitions(ctx, &ecs.ListTaskDefinitionsInput{
		FamilyPrefix: aws.String(familyPrefix),
		Status:       types.TaskDefinitionStatusActive,
		Sort:         types.SortOrderDesc,
	})
	if err != nil {
		return nil, err
	}
	return out.TaskDefinitionArns, nil
}
