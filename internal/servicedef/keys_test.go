package servicedef

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowerFirst(t *testing.T) {
	cases := map[string]string{
		"":                      "",
		"Family":                "family",
		"ContainerDefinitions":  "containerDefinitions",
		"alreadyLower":          "alreadyLower",
		"HTTPPort":              "hTTPPort",
		"X":                     "x",
		"awslogs-group":         "awslogs-group",
		"MinimumHealthyPercent": "minimumHealthyPercent",
	}

	for in, want := range cases {
		assert.Equal(t, want, lowerFirst(in), "lowerFirst(%q)", in)
	}
}

func TestNormalizeKeysWalksEveryDepth(t *testing.T) {
	in := map[string]interface{}{
		"Family": "web",
		"ContainerDefinitions": []interface{}{
			map[string]interface{}{
				"Name":      "web",
				"Cpu":       128,
				"Essential": true,
				"PortMappings": []interface{}{
					map[string]interface{}{"ContainerPort": 80, "HostPort": 0},
				},
				"Environment": []interface{}{
					map[string]interface{}{"Name": "MODE", "Value": "prod"},
				},
			},
		},
	}

	got := normalizeKeys(in).(map[string]interface{})

	assert.Equal(t, "web", got["family"])
	containers := got["containerDefinitions"].([]interface{})
	cd := containers[0].(map[string]interface{})
	assert.Equal(t, "web", cd["name"])
	assert.Equal(t, 128, cd["cpu"])
	assert.Equal(t, true, cd["essential"])

	ports := cd["portMappings"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 80, ports["containerPort"])
	assert.Equal(t, 0, ports["hostPort"])

	// values are never touched, only keys
	env := cd["environment"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "MODE", env["name"])
	assert.Equal(t, "prod", env["value"])
}

func TestNormalizeKeysIdempotent(t *testing.T) {
	in := map[string]interface{}{
		"Outer": map[string]interface{}{
			"Inner": []interface{}{
				map[string]interface{}{"DeepKey": "Value"},
				"scalar",
				42,
			},
		},
	}

	once := normalizeKeys(in)
	twice := normalizeKeys(once)
	assert.Equal(t, once, twice)
}

func TestNormalizeKeysScalarsPassThrough(t *testing.T) {
	assert.Equal(t, "text", normalizeKeys("text"))
	assert.Equal(t, 7, normalizeKeys(7))
	assert.Equal(t, 1.5, normalizeKeys(1.5))
	assert.Equal(t, true, normalizeKeys(true))
	assert.Nil(t, normalizeKeys(nil))
}
