package deploy

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"

	"ecsctl/internal/servicedef"
)

// UnsupportedScheduleFormatError reports an interval string that is not
// "<integer>m" or "<integer>h". Cron expressions are not supported.
type UnsupportedScheduleFormatError struct {
	Interval string
}

func (e *UnsupportedScheduleFormatError) Error() string {
	return fmt.Sprintf("unsupported schedule interval %q (want e.g. \"5m\" or \"2h\")", e.Interval)
}

var intervalPattern = regexp.MustCompile(`^(\d+)([mh])$`)

// rateExpression translates a fixed interval like "5m" or "2h" into an
// EventBridge rate expression.
func rateExpression(interval string) (string, error) {
	m := intervalPattern.FindStringSubmatch(interval)
	if m == nil {
		return "", &UnsupportedScheduleFormatError{Interval: interval}
	}

	n, err := strconv.Atoi(m[1])
	if err != nil || n == 0 {
		return "", &UnsupportedScheduleFormatError{Interval: interval}
	}

	unit := "minute"
	if m[2] == "h" {
		unit = "hour"
	}
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("rate(%d %s)", n, unit), nil
}

// ScheduleSpec describes a recurring-invocation rule: run one copy of the
// task definition on the cluster at a fixed interval, under the given role.
type ScheduleSpec struct {
	Name              string
	RoleArn           string
	LaunchType        string
	ClusterArn        string
	TaskDefinitionArn string
	Network           *servicedef.NetworkConfiguration
	FixedInterval     string
}

// PutSchedule creates or updates the named rule and attaches its single ECS
// target. Under FARGATE a network configuration is mandatory; subnets and
// security groups are forwarded, public-IP assignment is forced off and the
// platform version is pinned to the latest available.
func (d *Deployer) PutSchedule(ctx context.Context, spec ScheduleSpec) error {
	expr, err := rateExpression(spec.FixedInterval)
	if err != nil {
		return err
	}

	params := &types.EcsParameters{
		TaskDefinitionArn: aws.String(spec.TaskDefinitionArn),
		TaskCount:         aws.Int32(1),
	}

	if spec.LaunchType == servicedef.LaunchTypeFargate {
		if spec.Network == nil || spec.Network.AwsvpcConfiguration == nil {
			return fmt.Errorf("schedule %s: launch type FARGATE requires a NetworkConfiguration with an AwsvpcConfiguration block", spec.Name)
		}
		params.LaunchType = types.LaunchTypeFargate
		params.PlatformVersion = aws.String("LATEST")
		params.NetworkConfiguration = &types.NetworkConfiguration{
			AwsvpcConfiguration: &types.AwsVpcConfiguration{
				Subnets:        spec.Network.AwsvpcConfiguration.Subnets,
				SecurityGroups: spec.Network.AwsvpcConfiguration.SecurityGroups,
				AssignPublicIp: types.AssignPublicIpDisabled,
			},
		}
	} else {
		params.LaunchType = types.LaunchTypeEc2
	}

	if _, err := d.Events.PutRule(ctx, &eventbridge.PutRuleInput{
		Name:               aws.String(spec.Name),
		ScheduleExpression: aws.String(expr),
		State:              types.RuleStateEnabled,
	}); err != nil {
		return &APIError{Op: "PutRule", Err: err}
	}

	out, err := d.Events.PutTargets(ctx, &eventbridge.PutTargetsInput{
		Rule: aws.String(spec.Name),
		Targets: []types.Target{{
			Id:            aws.String(spec.Name),
			Arn:           aws.String(spec.ClusterArn),
			RoleArn:       aws.String(spec.RoleArn),
			EcsParameters: params,
		}},
	})
	if err != nil {
		return &APIError{Op: "PutTargets", Err: err}
	}
	if out.FailedEntryCount > 0 {
		var failures []string
		for _, f := range out.FailedEntries {
			failures = append(failures, aws.ToString(f.ErrorMessage))
		}
		return &APIError{Op: "PutTargets", Failures: failures, Err: fmt.Errorf("%d target(s) failed", out.FailedEntryCount)}
	}

	d.notify("Scheduled %s every %s", spec.Name, spec.FixedInterval)
	return nil
}

// DeleteSchedule detaches all targets from the named rule and deletes it.
// A missing rule is reported and treated as already clean.
func (d *Deployer) DeleteSchedule(ctx context.Context, name string) error {
	out, err := d.Events.ListTargetsByRule(ctx, &eventbridge.ListTargetsByRuleInput{
		Rule: aws.String(name),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			d.notify("No schedule named %s, nothing to delete", name)
			return nil
		}
		return &APIError{Op: "ListTargetsByRule", Err: err}
	}

	// Targets must be detached before the rule can be deleted.
	if len(out.Targets) > 0 {
		ids := make([]string, 0, len(out.Targets))
		for _, t := range out.Targets {
			ids = append(ids, aws.ToString(t.Id))
		}
		if _, err := d.Events.RemoveTargets(ctx, &eventbridge.RemoveTargetsInput{
			Rule: aws.String(name),
			Ids:  ids,
		}); err != nil {
			return &APIError{Op: "RemoveTargets", Err: err}
		}
	}

	if _, err := d.Events.DeleteRule(ctx, &eventbridge.DeleteRuleInput{
		Name: aws.String(name),
	}); err != nil {
		return &APIError{Op: "DeleteRule", Err: err}
	}

	d.notify("Deleted schedule %s", name)
	return nil
}
