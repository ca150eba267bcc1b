package servicedef

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const sharedConfig = `
Properties:
  IMAGE: repo/web:latest
LogConfiguration:
  LogDriver: awslogs
  Options:
    awslogs-group: /ecs/{{.FAMILY}}
    awslogs-region: "{{.REGION}}"
    awslogs-stream-prefix: ecs
`

const webService = `
TaskDefinition:
  Family: web
  ContainerDefinitions:
    - Name: web
      Image: "{{.IMAGE}}"
      Cpu: 128
      Environment:
        - Name: CLUSTER
          Value: "{{.CLUSTER_NAME}}"
    - Name: sidecar
      Image: "{{.IMAGE}}"
      LogConfiguration:
        LogDriver: json-file
Desired: 3
`

func TestRenderMergesPropertiesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "prod.yaml"), sharedConfig)
	writeFile(t, filepath.Join(dir, "prod", "web.yaml"), webService)

	r := &Renderer{Dir: dir, Region: "eu-west-1"}
	def, err := r.Render("web", "prod")
	require.NoError(t, err)

	assert.Equal(t, "web", def.Family())
	require.NotNil(t, def.Desired)
	assert.Equal(t, int32(3), *def.Desired)

	containers := def.TaskDefinition["containerDefinitions"].([]interface{})
	require.Len(t, containers, 2)

	cd := containers[0].(map[string]interface{})
	assert.Equal(t, "repo/web:latest", cd["image"])
	env := cd["environment"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "prod", env["value"])

	// the rendered log configuration replaces every container's, including
	// one the file set itself
	for _, c := range containers {
		lc := c.(map[string]interface{})["logConfiguration"].(map[string]interface{})
		assert.Equal(t, "awslogs", lc["logDriver"])
		opts := lc["options"].(map[string]interface{})
		assert.Equal(t, "/ecs/web", opts["awslogs-group"])
		assert.Equal(t, "eu-west-1", opts["awslogs-region"])
	}
}

func TestRenderFamilyNotAvailableOnFirstPass(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "prod", "web.yaml"), `
TaskDefinition:
  Family: web
  ContainerDefinitions:
    - Name: web
      Image: "repo/{{.FAMILY}}"
`)

	r := &Renderer{Dir: dir, Region: "eu-west-1"}
	def, err := r.Render("web", "prod")
	require.NoError(t, err)

	cd := def.TaskDefinition["containerDefinitions"].([]interface{})[0].(map[string]interface{})
	assert.NotEqual(t, "repo/web", cd["image"], "FAMILY must not resolve in the primary pass")
}

func TestRenderWithoutSharedConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "staging", "api.yaml"), `
TaskDefinition:
  Family: api
  ContainerDefinitions:
    - Name: api
      Image: "repo/api"
      Environment:
        - Name: REGION
          Value: "{{.REGION}}"
`)

	r := &Renderer{Dir: dir, Region: "us-east-1"}
	def, err := r.Render("api", "staging")
	require.NoError(t, err)

	cd := def.TaskDefinition["containerDefinitions"].([]interface{})[0].(map[string]interface{})
	env := cd["environment"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "us-east-1", env["value"])

	// empty shared log configuration still overwrites per-container config
	lc := cd["logConfiguration"].(map[string]interface{})
	assert.Empty(t, lc)
}

func TestRenderMissingServiceFile(t *testing.T) {
	r := &Renderer{Dir: t.TempDir(), Region: "eu-west-1"}
	_, err := r.Render("ghost", "prod")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, notFound.Path, "ghost.yaml")
}

func TestRenderMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "prod", "bad.yaml"), "TaskDefinition: [unclosed")

	r := &Renderer{Dir: dir, Region: "eu-west-1"}
	_, err := r.Render("bad", "prod")

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestRenderMissingTaskDefinition(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "prod", "empty.yaml"), "Desired: 2")

	r := &Renderer{Dir: dir, Region: "eu-west-1"}
	_, err := r.Render("empty", "prod")

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestLogGroupsDedup(t *testing.T) {
	def := &Definition{TaskDefinition: map[string]interface{}{
		"containerDefinitions": []interface{}{
			map[string]interface{}{"logConfiguration": map[string]interface{}{
				"logDriver": "awslogs",
				"options":   map[string]interface{}{"awslogs-group": "/ecs/web"},
			}},
			map[string]interface{}{"logConfiguration": map[string]interface{}{
				"logDriver": "awslogs",
				"options":   map[string]interface{}{"awslogs-group": "/ecs/web"},
			}},
			map[string]interface{}{"logConfiguration": map[string]interface{}{
				"logDriver": "json-file",
				"options":   map[string]interface{}{"awslogs-group": "/ecs/ignored"},
			}},
		},
	}}

	assert.Equal(t, []string{"/ecs/web"}, def.LogGroups())
}
