package servicedef

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"
)

// Renderer loads and renders service definitions from a directory laid out
// as <dir>/<cluster>.yaml (shared config) and <dir>/<cluster>/<service>.yaml.
type Renderer struct {
	// Dir is the base directory holding definition files.
	Dir string
	// Region is merged into the template properties as REGION.
	Region string
}

// Render produces the finalized definition for a service: shared config and
// computed properties are merged, the service file is rendered and parsed,
// task definition keys are normalized and the shared log configuration is
// rendered (with FAMILY now known) onto every container definition.
func (r *Renderer) Render(service, cluster string) (*Definition, error) {
	shared, err := r.loadSharedConfig(cluster)
	if err != nil {
		return nil, err
	}

	shared.Properties["CLUSTER_NAME"] = cluster
	shared.Properties["REGION"] = r.Region

	path := filepath.Join(r.Dir, cluster, service+".yaml")
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{Path: path}
	}
	if err != nil {
		return nil, err
	}

	rendered, err := renderTemplate(service, string(raw), shared.Properties)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var def Definition
	if err := yaml.Unmarshal([]byte(rendered), &def); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if def.TaskDefinition == nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("definition has no TaskDefinition")}
	}

	def.TaskDefinition = normalizeKeys(def.TaskDefinition).(map[string]interface{})

	family := def.Family()
	if family == "" {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("task definition has no family")}
	}

	// FAMILY is only known once the task definition is parsed, so the log
	// configuration template pass runs after the primary one.
	shared.Properties["FAMILY"] = family

	logConfig, err := r.renderLogConfiguration(shared)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	containers, _ := def.TaskDefinition["containerDefinitions"].([]interface{})
	for _, c := range containers {
		if cd, ok := c.(map[string]interface{}); ok {
			cd["logConfiguration"] = logConfig
		}
	}

	return &def, nil
}

func (r *Renderer) loadSharedConfig(cluster string) (*SharedConfig, error) {
	shared := &SharedConfig{}

	path := filepath.Join(r.Dir, cluster+".yaml")
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(raw, shared); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	}

	if shared.Properties == nil {
		shared.Properties = map[string]string{}
	}
	if shared.LogConfiguration == nil {
		shared.LogConfiguration = map[string]interface{}{}
	}
	return shared, nil
}

// renderLogConfiguration normalizes the shared log configuration keys, runs
// it through a second template pass with the complete property set and
// parses it back into a mapping. The result replaces the log configuration
// of every container definition.
func (r *Renderer) renderLogConfiguration(shared *SharedConfig) (map[string]interface{}, error) {
	normalized := normalizeKeys(shared.LogConfiguration)

	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil, err
	}

	rendered, err := renderTemplate("logconfiguration", string(raw), shared.Properties)
	if err != nil {
		return nil, err
	}

	var logConfig map[string]interface{}
	if err := json.Unmarshal([]byte(rendered), &logConfig); err != nil {
		return nil, err
	}
	return logConfig, nil
}

func renderTemplate(name, text string, properties map[string]string) (string, error) {
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return "", err
	}

	// interface{} values make an unresolved variable render as "<no value>"
	// instead of silently becoming the empty string.
	data := make(map[string]interface{}, len(properties))
	for k, v := range properties {
		data[k] = v
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
