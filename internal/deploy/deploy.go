// Package deploy drives the deployment workflow against the ECS,
// CloudWatch Logs and EventBridge APIs: task definition registration with
// log group pre-creation, create/update/delete of services with the
// launch-type and scheduling-strategy parameter rules, and reconciliation
// of recurring schedule rules.
package deploy

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
)

// ECSAPI is the slice of the ECS client used by the deployer.
type ECSAPI interface {
	RegisterTaskDefinition(ctx context.Context, in *ecs.RegisterTaskDefinitionInput, optFns ...func(*ecs.Options)) (*ecs.RegisterTaskDefinitionOutput, error)
	CreateService(ctx context.Context, in *ecs.CreateServiceInput, optFns ...func(*ecs.Options)) (*ecs.CreateServiceOutput, error)
	UpdateService(ctx context.Context, in *ecs.UpdateServiceInput, optFns ...func(*ecs.Options)) (*ecs.UpdateServiceOutput, error)
	DeleteService(ctx context.Context, in *ecs.DeleteServiceInput, optFns ...func(*ecs.Options)) (*ecs.DeleteServiceOutput, error)
}

// LogsAPI is the slice of the CloudWatch Logs client used to ensure log
// groups exist before registration.
type LogsAPI interface {
	DescribeLogGroups(ctx context.Context, in *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
	CreateLogGroup(ctx context.Context, in *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
}

// EventsAPI is the slice of the EventBridge client used for schedule rules.
type EventsAPI interface {
	PutRule(ctx context.Context, in *eventbridge.PutRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutRuleOutput, error)
	PutTargets(ctx context.Context, in *eventbridge.PutTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutTargetsOutput, error)
	ListTargetsByRule(ctx context.Context, in *eventbridge.ListTargetsByRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.ListTargetsByRuleOutput, error)
	RemoveTargets(ctx context.Context, in *eventbridge.RemoveTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.RemoveTargetsOutput, error)
	DeleteRule(ctx context.Context, in *eventbridge.DeleteRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.DeleteRuleOutput, error)
}

// Deployer sequences deployment steps. Every API failure is fatal to the
// current command; there are no retries and no rollback of earlier steps.
type Deployer struct {
	ECS    ECSAPI
	Logs   LogsAPI
	Events EventsAPI

	// Notify, when set, receives progress notices meant for the operator.
	Notify func(format string, args ...interface{})
}

func (d *Deployer) notify(format string, args ...interface{}) {
	if d.Notify != nil {
		d.Notify(format, args...)
	}
}

// APIError is a non-success response from one of the orchestration APIs,
// carrying per-item failures where the call reports them.
type APIError struct {
	Op       string
	Failures []string
	Err      error
}

func (e *APIError) Error() string {
	if len(e.Failures) > 0 {
		return fmt.Sprintf("%s: %v (failures: %v)", e.Op, e.Err, e.Failures)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }
