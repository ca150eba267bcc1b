package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"

	"ecsctl/internal/servicedef"
)

// defaultPlacementStrategy spreads tasks across availability zones first
// and then across instances.
func defaultPlacementStrategy() []types.PlacementStrategy {
	return []types.PlacementStrategy{
		{Type: types.PlacementStrategyTypeSpread, Field: aws.String("attribute:ecs.availability-zone")},
		{Type: types.PlacementStrategyTypeSpread, Field: aws.String("instanceId")},
	}
}

// ServiceParams are the caller-supplied parts of a create request.
type ServiceParams struct {
	Cluster        string
	Name           string
	TaskDefinition string
	DesiredCount   *int32
	// PlacementStrategy overrides the default AZ-then-instance spread.
	PlacementStrategy []types.PlacementStrategy
}

// CreateService creates the service described by params and the definition.
func (d *Deployer) CreateService(ctx context.Context, params ServiceParams, def *servicedef.Definition) error {
	in, err := buildCreateServiceInput(params, def)
	if err != nil {
		return err
	}
	if _, err := d.ECS.CreateService(ctx, in); err != nil {
		return &APIError{Op: "CreateService", Err: err}
	}
	return nil
}

// buildCreateServiceInput applies the parameter rules the ECS API imposes
// per launch type and scheduling strategy:
//
//   - desiredCount and placementStrategy are omitted for DAEMON services
//   - placementStrategy, placementConstraints, deploymentConfiguration and
//     schedulingStrategy are unsupported under FARGATE and always omitted
//   - FARGATE requires a network configuration
func buildCreateServiceInput(params ServiceParams, def *servicedef.Definition) (*ecs.CreateServiceInput, error) {
	daemon := def != nil && def.SchedulingStrategy == servicedef.StrategyDaemon
	fargate := def != nil && def.LaunchType == servicedef.LaunchTypeFargate

	in := &ecs.CreateServiceInput{
		ServiceName:    aws.String(params.Name),
		Cluster:        aws.String(params.Cluster),
		TaskDefinition: aws.String(params.TaskDefinition),
	}

	if !daemon {
		in.DesiredCount = params.DesiredCount
		if !fargate {
			in.PlacementStrategy = params.PlacementStrategy
			if in.PlacementStrategy == nil {
				in.PlacementStrategy = defaultPlacementStrategy()
			}
		}
	}

	if def == nil {
		return in, nil
	}

	if !fargate {
		if def.LaunchType != "" {
			in.LaunchType = types.LaunchType(def.LaunchType)
		}
		for _, pc := range def.PlacementConstraints {
			in.PlacementConstraints = append(in.PlacementConstraints, types.PlacementConstraint{
				Type:       types.PlacementConstraintType(pc.Type),
				Expression: aws.String(pc.Expression),
			})
		}
		if dc := def.DeploymentConfiguration; dc != nil {
			in.DeploymentConfiguration = &types.DeploymentConfiguration{
				MaximumPercent:        dc.MaximumPercent,
				MinimumHealthyPercent: dc.MinimumHealthyPercent,
			}
		}
		if def.SchedulingStrategy != "" {
			in.SchedulingStrategy = types.SchedulingStrategy(def.SchedulingStrategy)
		}
	} else {
		in.LaunchType = types.LaunchTypeFargate
		if def.NetworkConfiguration == nil || def.NetworkConfiguration.AwsvpcConfiguration == nil {
			return nil, fmt.Errorf("launch type FARGATE requires a NetworkConfiguration with an AwsvpcConfiguration block")
		}
	}

	if nc := def.NetworkConfiguration; nc != nil && nc.AwsvpcConfiguration != nil {
		in.NetworkConfiguration = &types.NetworkConfiguration{
			AwsvpcConfiguration: &types.AwsVpcConfiguration{
				Subnets:        nc.AwsvpcConfiguration.Subnets,
				SecurityGroups: nc.AwsvpcConfiguration.SecurityGroups,
			},
		}
	}

	return in, nil
}

// UpdateParams are the caller-supplied parts of an update request. Zero
// fields are left out of the call.
type UpdateParams struct {
	Cluster        string
	Name           string
	TaskDefinition string
	DesiredCount   *int32
	// Daemon suppresses the desired count, which DAEMON services reject.
	Daemon             bool
	ForceNewDeployment bool
}

// UpdateService applies an update to an existing service.
func (d *Deployer) UpdateService(ctx context.Context, params UpdateParams) error {
	in := buildUpdateServiceInput(params)
	if _, err := d.ECS.UpdateService(ctx, in); err != nil {
		return &APIError{Op: "UpdateService", Err: err}
	}
	return nil
}

func buildUpdateServiceInput(params UpdateParams) *ecs.UpdateServiceInput {
	in := &ecs.UpdateServiceInput{
		Service: aws.String(params.Name),
		Cluster: aws.String(params.Cluster),
	}
	if params.TaskDefinition != "" {
		in.TaskDefinition = aws.String(params.TaskDefinition)
	}
	if params.DesiredCount != nil && !params.Daemon {
		in.DesiredCount = params.DesiredCount
	}
	if params.ForceNewDeployment {
		in.ForceNewDeployment = true
	}
	return in
}

// RenderFunc supplies the definition file contents on demand. Deletion
// re-reads the file after the service is gone to learn whether a schedule
// needs cleaning up.
type RenderFunc func() (*servicedef.Definition, error)

// DeleteService scales the service to zero, deletes it and removes its
// schedule rule if the definition declares one. A failing scale-to-zero is
// reported but does not block the delete.
func (d *Deployer) DeleteService(ctx context.Context, cluster, name string, render RenderFunc) error {
	if err := d.UpdateService(ctx, UpdateParams{
		Cluster:      cluster,
		Name:         name,
		DesiredCount: aws.Int32(0),
	}); err != nil {
		d.notify("Scale to zero failed (%v), deleting anyway", err)
	}

	if _, err := d.ECS.DeleteService(ctx, &ecs.DeleteServiceInput{
		Service: aws.String(name),
		Cluster: aws.String(cluster),
	}); err != nil {
		return &APIError{Op: "DeleteService", Err: err}
	}

	if render == nil {
		return nil
	}
	def, err := render()
	if err != nil {
		var notFound *servicedef.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	if def.Schedule == nil {
		return nil
	}
	return d.DeleteSchedule(ctx, name)
}
