package deploy

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecsctl/internal/servicedef"
)

func webDefinition() *servicedef.Definition {
	return &servicedef.Definition{TaskDefinition: map[string]interface{}{
		"family": "web",
		"containerDefinitions": []interface{}{
			map[string]interface{}{
				"name":   "web",
				"image":  "repo/web:latest",
				"cpu":    128,
				"memory": 256,
				"logConfiguration": map[string]interface{}{
					"logDriver": "awslogs",
					"options": map[string]interface{}{
						"awslogs-group":  "/ecs/web",
						"awslogs-region": "eu-west-1",
					},
				},
			},
			map[string]interface{}{
				"name":  "sidecar",
				"image": "repo/sidecar:latest",
				"logConfiguration": map[string]interface{}{
					"logDriver": "awslogs",
					"options":   map[string]interface{}{"awslogs-group": "/ecs/web"},
				},
			},
		},
	}}
}

func TestRegisterInputBridgesUntypedDefinition(t *testing.T) {
	in, err := registerInput(webDefinition().TaskDefinition)
	require.NoError(t, err)

	assert.Equal(t, "web", aws.ToString(in.Family))
	require.Len(t, in.ContainerDefinitions, 2)

	cd := in.ContainerDefinitions[0]
	assert.Equal(t, "web", aws.ToString(cd.Name))
	assert.Equal(t, "repo/web:latest", aws.ToString(cd.Image))
	assert.Equal(t, int32(128), cd.Cpu)
	assert.Equal(t, int32(256), aws.ToInt32(cd.Memory))

	require.NotNil(t, cd.LogConfiguration)
	assert.Equal(t, "/ecs/web", cd.LogConfiguration.Options["awslogs-group"])
}

func TestEnsureLogGroupsDedup(t *testing.T) {
	d, _, logs, _, _ := newTestDeployer()

	def := webDefinition()
	require.NoError(t, d.EnsureLogGroups(context.Background(), def.LogGroups()))

	// two containers sharing one group: one existence check, one creation
	assert.Equal(t, []string{"/ecs/web"}, logs.describeCalls)
	assert.Equal(t, []string{"/ecs/web"}, logs.createCalls)
}

func TestEnsureLogGroupsSkipsExisting(t *testing.T) {
	d, _, logs, _, _ := newTestDeployer()
	logs.existing["/ecs/web"] = true

	require.NoError(t, d.EnsureLogGroups(context.Background(), []string{"/ecs/web"}))

	assert.Equal(t, []string{"/ecs/web"}, logs.describeCalls)
	assert.Empty(t, logs.createCalls)
}

func TestRegisterTaskDefinitionEnsuresGroupsFirst(t *testing.T) {
	d, ecsFake, _, _, rec := newTestDeployer()

	reg, err := d.RegisterTaskDefinition(context.Background(), webDefinition())
	require.NoError(t, err)

	assert.Equal(t, []string{"DescribeLogGroups", "CreateLogGroup", "RegisterTaskDefinition"}, rec.calls)

	assert.Equal(t, "web", reg.Family)
	assert.Equal(t, int32(7), reg.Revision)
	assert.Equal(t, "web:7", reg.Ref())
	assert.Contains(t, reg.ARN, ":task-definition/web:7")

	assert.Equal(t, "web", aws.ToString(ecsFake.registerIn.Family))
}
