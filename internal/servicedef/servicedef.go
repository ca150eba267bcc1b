// Package servicedef loads declarative service definitions from YAML files,
// renders them against per-cluster properties and normalizes the task
// definition payload into the shape the ECS API expects.
package servicedef

// Scheduling strategies and launch types recognized in a definition file.
const (
	StrategyReplica = "REPLICA"
	StrategyDaemon  = "DAEMON"

	LaunchTypeEC2     = "EC2"
	LaunchTypeFargate = "FARGATE"
)

// Definition is one deployable service as described by its YAML file.
// The task definition subtree is kept untyped because its contents are
// passed through to the RegisterTaskDefinition call as-is after key
// normalization.
type Definition struct {
	TaskDefinition          map[string]interface{}   `yaml:"TaskDefinition"`
	Desired                 *int32                   `yaml:"Desired"`
	SchedulingStrategy      string                   `yaml:"SchedulingStrategy"`
	LaunchType              string                   `yaml:"LaunchType"`
	PlacementConstraints    []PlacementConstraint    `yaml:"PlacementConstraints"`
	DeploymentConfiguration *DeploymentConfiguration `yaml:"DeploymentConfiguration"`
	NetworkConfiguration    *NetworkConfiguration    `yaml:"NetworkConfiguration"`
	Schedule                *Schedule                `yaml:"Schedule"`
}

type PlacementConstraint struct {
	Type       string `yaml:"Type"`
	Expression string `yaml:"Expression"`
}

type DeploymentConfiguration struct {
	MaximumPercent        *int32 `yaml:"MaximumPercent"`
	MinimumHealthyPercent *int32 `yaml:"MinimumHealthyPercent"`
}

type NetworkConfiguration struct {
	AwsvpcConfiguration *AwsvpcConfiguration `yaml:"AwsvpcConfiguration"`
}

type AwsvpcConfiguration struct {
	Subnets        []string `yaml:"Subnets"`
	SecurityGroups []string `yaml:"SecurityGroups"`
}

// Schedule asks for a recurring invocation of the task definition at a
// fixed interval, e.g. "5m" or "2h".
type Schedule struct {
	FixedInterval string `yaml:"FixedInterval"`
	RoleArn       string `yaml:"RoleArn"`
}

// SharedConfig holds per-cluster defaults merged into every service
// definition before rendering.
type SharedConfig struct {
	Properties       map[string]string      `yaml:"Properties"`
	LogConfiguration map[string]interface{} `yaml:"LogConfiguration"`
}

// Family returns the task definition family, or "" if the definition does
// not carry one.
func (d *Definition) Family() string {
	family, _ := d.TaskDefinition["family"].(string)
	return family
}

// LogGroups returns the de-duplicated awslogs-group names referenced by
// container definitions whose log driver is awslogs. Containers using other
// drivers contribute nothing.
func (d *Definition) LogGroups() []string {
	containers, _ := d.TaskDefinition["containerDefinitions"].([]interface{})

	seen := map[string]bool{}
	var groups []string
	for _, c := range containers {
		cd, _ := c.(map[string]interface{})
		lc, _ := cd["logConfiguration"].(map[string]interface{})
		if driver, _ := lc["logDriver"].(string); driver != "awslogs" {
			continue
		}
		opts, _ := lc["options"].(map[string]interface{})
		group, _ := opts["awslogs-group"].(string)
		if group == "" || seen[group] {
			continue
		}
		seen[group] = true
		groups = append(groups, group)
	}
	return groups
}
