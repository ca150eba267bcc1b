package deploy

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logstypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
)

// recorder collects the order of API calls across fakes.
type recorder struct {
	calls []string
}

func (r *recorder) record(name string) {
	r.calls = append(r.calls, name)
}

type fakeECS struct {
	rec *recorder

	registerIn  *ecs.RegisterTaskDefinitionInput
	registerOut *ecs.RegisterTaskDefinitionOutput

	createIn  *ecs.CreateServiceInput
	updateIns []*ecs.UpdateServiceInput
	updateErr error
	deleteIn  *ecs.DeleteServiceInput
	deleteErr error
}

func (f *fakeECS) RegisterTaskDefinition(ctx context.Context, in *ecs.RegisterTaskDefinitionInput, optFns ...func(*ecs.Options)) (*ecs.RegisterTaskDefinitionOutput, error) {
	f.rec.record("RegisterTaskDefinition")
	f.registerIn = in
	if f.registerOut != nil {
		return f.registerOut, nil
	}
	return &ecs.RegisterTaskDefinitionOutput{
		TaskDefinition: &ecstypes.TaskDefinition{
			Family:            in.Family,
			Revision:          7,
			TaskDefinitionArn: aws.String("arn:aws:ecs:eu-west-1:123:task-definition/" + aws.ToString(in.Family) + ":7"),
		},
	}, nil
}

func (f *fakeECS) CreateService(ctx context.Context, in *ecs.CreateServiceInput, optFns ...func(*ecs.Options)) (*ecs.CreateServiceOutput, error) {
	f.rec.record("CreateService")
	f.createIn = in
	return &ecs.CreateServiceOutput{}, nil
}

func (f *fakeECS) UpdateService(ctx context.Context, in *ecs.UpdateServiceInput, optFns ...func(*ecs.Options)) (*ecs.UpdateServiceOutput, error) {
	f.rec.record("UpdateService")
	f.updateIns = append(f.updateIns, in)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &ecs.UpdateServiceOutput{}, nil
}

func (f *fakeECS) DeleteService(ctx context.Context, in *ecs.DeleteServiceInput, optFns ...func(*ecs.Options)) (*ecs.DeleteServiceOutput, error) {
	f.rec.record("DeleteService")
	f.deleteIn = in
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &ecs.DeleteServiceOutput{}, nil
}

type fakeLogs struct {
	rec *recorder

	existing      map[string]bool
	describeCalls []string
	createCalls   []string
}

func (f *fakeLogs) DescribeLogGroups(ctx context.Context, in *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error) {
	f.rec.record("DescribeLogGroups")
	prefix := aws.ToString(in.LogGroupNamePrefix)
	f.describeCalls = append(f.describeCalls, prefix)

	out := &cloudwatchlogs.DescribeLogGroupsOutput{}
	if f.existing[prefix] {
		out.LogGroups = []logstypes.LogGroup{{LogGroupName: aws.String(prefix)}}
	}
	return out, nil
}

func (f *fakeLogs) CreateLogGroup(ctx context.Context, in *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	f.rec.record("CreateLogGroup")
	f.createCalls = append(f.createCalls, aws.ToString(in.LogGroupName))
	return &cloudwatchlogs.CreateLogGroupOutput{}, nil
}

type fakeEvents struct {
	rec *recorder

	putRuleIn    *eventbridge.PutRuleInput
	putTargetsIn *eventbridge.PutTargetsInput

	listOut   *eventbridge.ListTargetsByRuleOutput
	listErr   error
	removedIn *eventbridge.RemoveTargetsInput
	deletedIn *eventbridge.DeleteRuleInput
}

func (f *fakeEvents) PutRule(ctx context.Context, in *eventbridge.PutRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutRuleOutput, error) {
	f.rec.record("PutRule")
	f.putRuleIn = in
	return &eventbridge.PutRuleOutput{}, nil
}

func (f *fakeEvents) PutTargets(ctx context.Context, in *eventbridge.PutTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutTargetsOutput, error) {
	f.rec.record("PutTargets")
	f.putTargetsIn = in
	return &eventbridge.PutTargetsOutput{}, nil
}

func (f *fakeEvents) ListTargetsByRule(ctx context.Context, in *eventbridge.ListTargetsByRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.ListTargetsByRuleOutput, error) {
	f.rec.record("ListTargetsByRule")
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listOut != nil {
		return f.listOut, nil
	}
	return &eventbridge.ListTargetsByRuleOutput{}, nil
}

func (f *fakeEvents) RemoveTargets(ctx context.Context, in *eventbridge.RemoveTargetsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.RemoveTargetsOutput, error) {
	f.rec.record("RemoveTargets")
	f.removedIn = in
	return &eventbridge.RemoveTargetsOutput{}, nil
}

func (f *fakeEvents) DeleteRule(ctx context.Context, in *eventbridge.DeleteRuleInput, optFns ...func(*eventbridge.Options)) (*eventbridge.DeleteRuleOutput, error) {
	f.rec.record("DeleteRule")
	f.deletedIn = in
	return &eventbridge.DeleteRuleOutput{}, nil
}

func newTestDeployer() (*Deployer, *fakeECS, *fakeLogs, *fakeEvents, *recorder) {
	rec := &recorder{}
	ecsFake := &fakeECS{rec: rec}
	logsFake := &fakeLogs{rec: rec, existing: map[string]bool{}}
	eventsFake := &fakeEvents{rec: rec}
	d := &Deployer{ECS: ecsFake, Logs: logsFake, Events: eventsFake}
	return d, ecsFake, logsFake, eventsFake, rec
}
