package deploy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ecs"

	"ecsctl/internal/servicedef"
)

// Registration identifies a freshly registered task definition revision.
type Registration struct {
	Family   string
	Revision int32
	ARN      string
}

func (r *Registration) Ref() string {
	return fmt.Sprintf("%s:%d", r.Family, r.Revision)
}

// RegisterTaskDefinition ensures the referenced log groups exist, then
// registers the definition's task definition and returns the new revision.
func (d *Deployer) RegisterTaskDefinition(ctx context.Context, def *servicedef.Definition) (*Registration, error) {
	if err := d.EnsureLogGroups(ctx, def.LogGroups()); err != nil {
		return nil, err
	}

	in, err := registerInput(def.TaskDefinition)
	if err != nil {
		return nil, err
	}

	out, err := d.ECS.RegisterTaskDefinition(ctx, in)
	if err != nil {
		return nil, &APIError{Op: "RegisterTaskDefinition", Err: err}
	}

	td := out.TaskDefinition
	return &Registration{
		Family:   aws.ToString(td.Family),
		Revision: td.Revision,
		ARN:      aws.ToString(td.TaskDefinitionArn),
	}, nil
}

// EnsureLogGroups idempotently creates each log group that does not already
// exist.
func (d *Deployer) EnsureLogGroups(ctx context.Context, groups []string) error {
	for _, group := range groups {
		out, err := d.Logs.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{
			LogGroupNamePrefix: aws.String(group),
		})
		if err != nil {
			return &APIError{Op: "DescribeLogGroups", Err: err}
		}

		exists := false
		for _, lg := range out.LogGroups {
			if aws.ToString(lg.LogGroupName) == group {
				exists = true
				break
			}
		}
		if exists {
			continue
		}

		if _, err := d.Logs.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
			LogGroupName: aws.String(group),
		}); err != nil {
			return &APIError{Op: "CreateLogGroup", Err: err}
		}
		d.notify("Created log group %s", group)
	}
	return nil
}

// registerInput bridges the normalized, untyped task definition into the
// typed SDK input. The camelCase keys produced by normalization match the
// input's field names, so a JSON round trip is all that is needed.
func registerInput(taskDef map[string]interface{}) (*ecs.RegisterTaskDefinitionInput, error) {
	raw, err := json.Marshal(taskDef)
	if err != nil {
		return nil, err
	}

	var in ecs.RegisterTaskDefinitionInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("task definition does not match the register shape: %w", err)
	}
	return &in, nil
}
