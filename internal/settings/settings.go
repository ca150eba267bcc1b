// Package settings persists the small amount of local state the CLI keeps
// between invocations, currently just the remembered default cluster.
package settings

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// DefaultFile is the settings file looked up in the working directory.
const DefaultFile = ".ecsctl.yaml"

// Settings is the persisted local configuration.
type Settings struct {
	v    *viper.Viper
	path string
}

// Load reads the settings file at path. A missing file yields empty
// settings; it is created on first save.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return &Settings{v: v, path: path}, nil
}

// Cluster returns the remembered default cluster, or "" if none is set.
func (s *Settings) Cluster() string {
	return s.v.GetString("cluster")
}

// SetCluster remembers a default cluster and writes the file.
func (s *Settings) SetCluster(name string) error {
	s.v.Set("cluster", name)
	return s.v.WriteConfigAs(s.path)
}
