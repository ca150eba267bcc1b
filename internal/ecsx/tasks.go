package ecsx

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// Task is a running task joined with the container instance it landed on.
type Task struct {
	types.Task
	ContainerInstance *ContainerInstance
}

// TasksByFamily lists and describes the tasks of a family, each joined with
// its container instance and EC2 detail.
func (c *Client) TasksByFamily(ctx context.Context, cluster, family string) ([]Task, error) {
	listed, err := c.ECS.ListTasks(ctx, &ecs.ListTasksInput{
		Cluster: aws.String(cluster),
		Family:  aws.String(family),
	})
	if err != nil {
		return nil, err
	}
	if len(listed.TaskArns) == 0 {
		return nil, nil
	}

	out, err := c.ECS.DescribeTasks(ctx, &ecs.DescribeTasksInput{
		Cluster: aws.String(cluster),
		Tasks:   listed.TaskArns,
	})
	if err != nil {
		return nil, err
	}

	var arns []string
	for _, t := range out.Tasks {
		if arn := aws.ToString(t.ContainerInstanceArn); arn != "" {
			arns = append(arns, arn)
		}
	}
	instances, err := c.ContainerInstancesByARNs(ctx, cluster, arns)
	if err != nil {
		return nil, err
	}
	byARN := map[string]*ContainerInstance{}
	for i := range instances {
		byARN[instances[i].ARN] = &instances[i]
	}

	tasks := make([]Task, 0, len(out.Tasks))
	for _, t := range out.Tasks {
		tasks = append(tasks, Task{
			Task:              t,
			ContainerInstance: byARN[aws.ToString(t.ContainerInstanceArn)],
		})
	}
	return tasks, nil
}

// StartTask starts one copy of the task definition on the given container
// instance and returns the new task's ARN.
func (c *Client) StartTask(ctx context.Context, cluster, taskDefinition, containerInstance string) (string, error) {
	out, err := c.ECS.StartTask(ctx, &ecs.StartTaskInput{
		Cluster:            aws.String(cluster),
		TaskDefinition:     aws.String(taskDefinition),
		ContainerInstances: []string{containerInstance},
	})
	if err != nil {
		return "", err
	}
	if len(out.Failures) > 0 {
		return "", failuresError("StartTask", out.Failures)
	}
	if len(out.Tasks) == 0 {
		return "", fmt.Errorf("StartTask returned no tasks")
	}
	return aws.ToString(out.Tasks[0].TaskArn), nil
}

// StopTask stops a task by ID or ARN.
func (c *Client) StopTask(ctx context.Context, cluster, task string) error {
	_, err := c.ECS.StopTask(ctx, &ecs.StopTaskInput{
		Cluster: aws.String(cluster),
		Task:    aws.String(task),
	})
	return err
}
