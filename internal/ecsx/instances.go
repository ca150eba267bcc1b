package ecsx

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// EC2Instance is the flattened instance view shown in tables.
type EC2Instance struct {
	Name             string
	PrivateIPAddress string
	ImageID          string
	InstanceType     string
	InstanceID       string
	State            string
	AvailabilityZone string
	LaunchTime       time.Time
}

// ContainerInstance is a container instance joined with the detail of the
// EC2 instance backing it.
type ContainerInstance struct {
	Cluster          string
	ARN              string
	EC2InstanceID    string
	RunningTasks     int32
	PendingTasks     int32
	AgentConnected   bool
	Status           string
	DockerVersion    string
	AmiID            string
	InstanceType     string
	AvailabilityZone string
	RegisteredCPU    int32
	RegisteredMemory int32
	RemainingCPU     int32
	RemainingMemory  int32
	Detail           *EC2Instance
}

// EC2Instances lists all running EC2 instances in the region.
func (c *Client) EC2Instances(ctx context.Context) ([]EC2Instance, error) {
	out, err := c.EC2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{{
			Name:   aws.String("instance-state-name"),
			Values: []string{"running"},
		}},
	})
	if err != nil {
		return nil, err
	}
	return flattenReservations(out.Reservations), nil
}

// EC2InstancesByIDs describes the given instances.
func (c *Client) EC2InstancesByIDs(ctx context.Context, ids []string) ([]EC2Instance, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	out, err := c.EC2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{InstanceIds: ids})
	if err != nil {
		return nil, err
	}
	return flattenReservations(out.Reservations), nil
}

func flattenReservations(reservations []ec2types.Reservation) []EC2Instance {
	var results []EC2Instance
	for _, r := range reservations {
		for _, i := range r.Instances {
			name := ""
			for _, t := range i.Tags {
				if aws.ToString(t.Key) == "Name" {
					name = aws.ToString(t.Value)
					break
				}
			}

			inst := EC2Instance{
				Name:             name,
				PrivateIPAddress: aws.ToString(i.PrivateIpAddress),
				ImageID:          aws.ToString(i.ImageId),
				InstanceType:     string(i.InstanceType),
				InstanceID:       aws.ToString(i.InstanceId),
				LaunchTime:       aws.ToTime(i.LaunchTime),
			}
			if i.State != nil {
				inst.State = string(i.State.Name)
			}
			if i.Placement != nil {
				inst.AvailabilityZone = aws.ToString(i.Placement.AvailabilityZone)
			}
			results = append(results, inst)
		}
	}
	return results
}

// ContainerInstances lists and describes every container instance of a
// cluster, joined with its EC2 instance detail.
func (c *Client) ContainerInstances(ctx context.Context, cluster string) ([]ContainerInstance, error) {
	out, err := c.ECS.ListContainerInstances(ctx, &ecs.ListContainerInstancesInput{
		Cluster: aws.String(cluster),
	})
	if err != nil {
		return nil, err
	}
	return c.ContainerInstancesByARNs(ctx, cluster, out.ContainerInstanceArns)
}

// ContainerInstancesByARNs describes the given container instances and joins
// their EC2 detail.
func (c *Client) ContainerInstancesByARNs(ctx context.Context, cluster string, arns []string) ([]ContainerInstance, error) {
	if len(arns) == 0 {
		return nil, nil
	}

	out, err := c.ECS.DescribeContainerInstances(ctx, &ecs.DescribeContainerInstancesInput{
		Cluster:            aws.String(cluster),
		ContainerInstances: arns,
	})
	if err != nil {
		return nil, err
	}

	results := make([]ContainerInstance, 0, len(out.ContainerInstances))
	ids := make([]string, 0, len(out.ContainerInstances))
	for _, i := range out.ContainerInstances {
		attrs := map[string]string{}
		for _, a := range i.Attributes {
			attrs[aws.ToString(a.Name)] = aws.ToString(a.Value)
		}

		ci := ContainerInstance{
			Cluster:          cluster,
			ARN:              aws.ToString(i.ContainerInstanceArn),
			EC2InstanceID:    aws.ToString(i.Ec2InstanceId),
			RunningTasks:     i.RunningTasksCount,
			PendingTasks:     i.PendingTasksCount,
			AgentConnected:   i.AgentConnected,
			Status:           aws.ToString(i.Status),
			AmiID:            attrs["ecs.ami-id"],
			InstanceType:     attrs["ecs.instance-type"],
			AvailabilityZone: attrs["ecs.availability-zone"],
			RegisteredCPU:    resourceValue(i.RegisteredResources, "CPU"),
			RegisteredMemory: resourceValue(i.RegisteredResources, "MEMORY"),
			RemainingCPU:     resourceValue(i.RemainingResources, "CPU"),
			RemainingMemory:  resourceValue(i.RemainingResources, "MEMORY"),
		}
		if i.VersionInfo != nil {
			ci.DockerVersion = aws.ToString(i.VersionInfo.DockerVersion)
		}
		results = append(results, ci)
		ids = append(ids, ci.EC2InstanceID)
	}

	detail, err := c.EC2InstancesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := map[string]EC2Instance{}
	for _, d := range detail {
		byID[d.InstanceID] = d
	}
	for idx := range results {
		if d, ok := byID[results[idx].EC2InstanceID]; ok {
			d := d
			results[idx].Detail = &d
		}
	}

	return results, nil
}

func resourceValue(resources []ecstypes.Resource, name string) int32 {
	for _, r := range resources {
		if aws.ToString(r.Name) == name {
			return r.IntegerValue
		}
	}
	return 0
}

// Drain sets the container instance backed by the given EC2 instance to
// DRAINING.
func (c *Client) Drain(ctx context.Context, cluster, ec2InstanceID string) (*ContainerInstance, error) {
	instances, err := c.ContainerInstances(ctx, cluster)
	if err != nil {
		return nil, err
	}

	var target *ContainerInstance
	for i := range instances {
		if instances[i].EC2InstanceID == ec2InstanceID {
			target = &instances[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("container instance %s not found in cluster %s", ec2InstanceID, cluster)
	}

	out, err := c.ECS.UpdateContainerInstancesState(ctx, &ecs.UpdateContainerInstancesStateInput{
		Cluster:            aws.String(cluster),
		ContainerInstances: []string{target.ARN},
		Status:             ecstypes.ContainerInstanceStatusDraining,
	})
	if err != nil {
		return nil, err
	}
	if len(out.Failures) > 0 {
		return nil, failuresError("UpdateContainerInstancesState", out.Failures)
	}
	return target, nil
}

func failuresError(op string, failures []ecstypes.Failure) error {
	msgs := make([]string, 0, len(failures))
	for _, f := range failures {
		msgs = append(msgs, fmt.Sprintf("%s: %s", aws.ToString(f.Arn), aws.ToString(f.Reason)))
	}
	return fmt.Errorf("%s reported failures: %v", op, msgs)
}
