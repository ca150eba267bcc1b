package ecsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// ClusterNames lists the short names of all clusters in the region.
func (c *Client) ClusterNames(ctx context.Context) ([]string, error) {
	out, err := c.ECS.ListClusters(ctx, &ecs.ListClustersInput{})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(out.ClusterArns))
	for _, arn := range out.ClusterArns {
		names = append(names, shortARN(arn, ":cluster/"))
	}
	return names, nil
}

// Clusters describes all clusters in the region.
func (c *Client) Clusters(ctx context.Context) ([]types.Cluster, error) {
	names, err := c.ClusterNames(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}

	out, err := c.ECS.DescribeClusters(ctx, &ecs.DescribeClustersInput{Clusters: names})
	if err != nil {
		return nil, err
	}
	return out.Clusters, nil
}

// Cluster describes one cluster by name.
func (c *Client) Cluster(ctx context.Context, name string) (*types.Cluster, error) {
	out, err := c.ECS.DescribeClusters(ctx, &ecs.DescribeClustersInput{Clusters: []string{name}})
	if err != nil {
		return nil, err
	}
	if len(out.Clusters) == 0 {
		return nil, fmt.Errorf("cluster %s not found", name)
	}
	return &out.Clusters[0], nil
}
