package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"

	"ecsctl/internal/ecsx"
)

// Clusters renders the cluster overview table.
func Clusters(w io.Writer, clusters []ecstypes.Cluster) {
	header := []string{"Region", "Cluster", "Container Instances", "Running Tasks", "Active Services"}

	rows := make([][]string, 0, len(clusters))
	for _, c := range clusters {
		region := ""
		if parts := strings.Split(aws.ToString(c.ClusterArn), ":"); len(parts) > 3 {
			region = parts[3]
		}
		rows = append(rows, []string{
			region,
			aws.ToString(c.ClusterName),
			fmt.Sprint(c.RegisteredContainerInstancesCount),
			fmt.Sprint(c.RunningTasksCount),
			fmt.Sprint(c.ActiveServicesCount),
		})
	}
	Table(w, header, rows)
}

// Services renders the service overview table.
func Services(w io.Writer, services []ecstypes.Service) {
	header := []string{"Service Name", "Task Def", "Launch Type", "Desired", "Running", "Pending", "Status", "Created", "Deployments (des/pend/run)"}

	rows := make([][]string, 0, len(services))
	for _, s := range services {
		var deployments []string
		for _, d := range s.Deployments {
			deployments = append(deployments, fmt.Sprintf("%d/%d/%d %s",
				d.DesiredCount, d.PendingCount, d.RunningCount, Age(d.UpdatedAt)))
		}
		rows = append(rows, []string{
			aws.ToString(s.ServiceName),
			shortRef(aws.ToString(s.TaskDefinition), ":task-definition/"),
			string(s.LaunchType),
			fmt.Sprint(s.DesiredCount),
			fmt.Sprint(s.RunningCount),
			fmt.Sprint(s.PendingCount),
			aws.ToString(s.Status),
			Age(s.CreatedAt),
			Truncate(strings.Join(deployments, " "), 80),
		})
	}
	Table(w, header, rows)
}

// ServiceEvents renders the most recent service events, newest first.
func ServiceEvents(w io.Writer, events []ecstypes.ServiceEvent, maxRows int) {
	header := []string{"Age", "Message"}

	var rows [][]string
	for _, e := range events {
		if len(rows) == maxRows {
			break
		}
		rows = append(rows, []string{Age(e.CreatedAt), Truncate(aws.ToString(e.Message), 100)})
	}
	Table(w, header, rows)
}

// TaskDefinitions renders the most recent task definition revisions.
func TaskDefinitions(w io.Writer, arns []string, maxRows int) {
	header := []string{"Task Def"}

	var rows [][]string
	for _, arn := range arns {
		if len(rows) == maxRows {
			break
		}
		rows = append(rows, []string{shortRef(arn, ":task-definition/")})
	}
	Table(w, header, rows)
}

// Tasks renders running tasks joined with their container instance detail.
func Tasks(w io.Writer, tasks []ecsx.Task) {
	header := []string{"Group", "Task", "TaskDef", "Ports", "Name", "IP", "Zone", "Instance", "Connectivity", "Since", "Memory", "Desired", "Health", "Status"}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		var ids, ports []string
		for _, c := range t.Containers {
			ids = append(ids, shortRef(aws.ToString(c.TaskArn), ":task/"))
			for _, b := range c.NetworkBindings {
				ports = append(ports, fmt.Sprintf("%d->%d", aws.ToInt32(b.ContainerPort), aws.ToInt32(b.HostPort)))
			}
		}

		name, ip, zone, instanceType := "", "", "", ""
		if ci := t.ContainerInstance; ci != nil {
			zone = ci.AvailabilityZone
			instanceType = ci.InstanceType
			if ci.Detail != nil {
				name = ci.Detail.Name
				ip = ci.Detail.PrivateIPAddress
			}
		}

		rows = append(rows, []string{
			aws.ToString(t.Group),
			strings.Join(ids, " "),
			shortRef(aws.ToString(t.TaskDefinitionArn), ":task-definition/"),
			strings.Join(ports, " "),
			name,
			ip,
			zone,
			instanceType,
			string(t.Connectivity),
			Age(t.ConnectivityAt),
			aws.ToString(t.Memory),
			aws.ToString(t.DesiredStatus),
			string(t.HealthStatus),
			aws.ToString(t.LastStatus),
		})
	}
	Table(w, header, rows)
}

// ContainerInstances renders the container instance table.
func ContainerInstances(w io.Writer, instances []ecsx.ContainerInstance) {
	header := []string{"Cluster", "ContainerInstance", "Ec2InstanceId", "Name", "Private IP", "State", "AmiId", "Type", "Zone", "Status", "Tasks", "Pending", "CPU", "Mem"}

	rows := make([][]string, 0, len(instances))
	for _, i := range instances {
		name, ip, state := "", "", ""
		if i.Detail != nil {
			name = i.Detail.Name
			ip = i.Detail.PrivateIPAddress
			state = i.Detail.State
		}
		rows = append(rows, []string{
			i.Cluster,
			shortRef(i.ARN, ":container-instance/"),
			i.EC2InstanceID,
			name,
			ip,
			state,
			i.AmiID,
			i.InstanceType,
			i.AvailabilityZone,
			i.Status,
			fmt.Sprint(i.RunningTasks),
			fmt.Sprint(i.PendingTasks),
			fmt.Sprintf("%d/%d", i.RegisteredCPU-i.RemainingCPU, i.RegisteredCPU),
			fmt.Sprintf("%d/%d", i.RegisteredMemory-i.RemainingMemory, i.RegisteredMemory),
		})
	}
	Table(w, header, rows)
}

// EC2Instances renders the EC2 instance table sorted by name.
func EC2Instances(w io.Writer, instances []ecsx.EC2Instance) {
	header := []string{"Name", "AvailabilityZone", "PrivateIpAddress", "ImageId", "InstanceType", "InstanceId", "State", "Age"}

	rows := make([][]string, 0, len(instances))
	for _, i := range instances {
		launch := i.LaunchTime
		rows = append(rows, []string{
			i.Name,
			i.AvailabilityZone,
			i.PrivateIPAddress,
			i.ImageID,
			i.InstanceType,
			i.InstanceID,
			i.State,
			Age(&launch),
		})
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a][0] < rows[b][0] })
	Table(w, header, rows)
}

// Repositories renders the repository table with latest-image and recent-tag
// summaries.
func Repositories(w io.Writer, repos []ecsx.Repository) {
	header := []string{"Name", "Latest", "Recent Tags"}

	rows := make([][]string, 0, len(repos))
	for _, r := range repos {
		rows = append(rows, []string{r.Name, formatLatestImage(r.Images), formatRecentTags(r.Images)})
	}
	Table(w, header, rows)
}

func formatLatestImage(images []ecsx.Image) string {
	var latest []ecsx.Image
	for _, i := range images {
		if hasTag(i, "latest") {
			latest = append(latest, i)
		}
	}
	if len(latest) == 0 {
		return ""
	}
	sort.Slice(latest, func(a, b int) bool { return latest[a].PushedAt.After(latest[b].PushedAt) })
	i := latest[0]
	return fmt.Sprintf("(%s) %s", shortDigest(i.Digest), Age(&i.PushedAt))
}

func formatRecentTags(images []ecsx.Image) string {
	var tagged []ecsx.Image
	for _, i := range images {
		if len(i.Tags) > 0 && !hasTag(i, "latest") {
			tagged = append(tagged, i)
		}
	}
	if len(tagged) == 0 {
		return ""
	}
	sort.Slice(tagged, func(a, b int) bool { return tagged[a].PushedAt.After(tagged[b].PushedAt) })
	if len(tagged) > 3 {
		tagged = tagged[:3]
	}

	parts := make([]string, 0, len(tagged))
	for _, i := range tagged {
		parts = append(parts, fmt.Sprintf("(%s) [%s] %s", shortDigest(i.Digest), strings.Join(i.Tags, ","), Age(&i.PushedAt)))
	}
	return strings.Join(parts, ", ")
}

func hasTag(i ecsx.Image, tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func shortDigest(digest string) string {
	digest = strings.TrimPrefix(digest, "sha256:")
	if len(digest) > 8 {
		digest = digest[:8]
	}
	return digest
}

func shortRef(arn, sep string) string {
	if i := strings.Index(arn, sep); i >= 0 {
		return arn[i+len(sep):]
	}
	return arn
}
