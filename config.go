package graphsel

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config represents the .graphsel.yaml configuration file.
type Config struct {
	// Graph is the graph file or directory of graph files to select from.
	// Relative paths are resolved from the directory holding the config.
	Graph string `yaml:"graph,omitempty"`

	// Substring configures name_substring matching.
	Substring SubstringConfig `yaml:"substring,omitempty"`

	// Output is the default output format ("text" or "json").
	Output string `yaml:"output,omitempty"`

	// Neo4j loads the graph from a Neo4j database instead of graph files.
	Neo4j *Neo4jConfig `yaml:"neo4j,omitempty"`

	// dir is the directory the config was loaded from.
	dir string
}

// SubstringConfig holds name_substring settings.
type SubstringConfig struct {
	CaseInsensitive bool `yaml:"case_insensitive,omitempty"`
}

// Neo4jConfig holds Neo4j connection settings and the graph shape to read.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`

	// Label restricts nodes to those carrying it. Empty reads every node.
	Label string `yaml:"label,omitempty"`
	// Relationship is the type of the edge from a node to one of its
	// dependencies. Defaults to DEPENDS_ON.
	Relationship string `yaml:"relationship,omitempty"`
	// IDProperty is the node property used as the node id. Nodes without it
	// use their element id. Defaults to "id".
	IDProperty string `yaml:"id_property,omitempty"`
}

// EvalOptions returns the evaluation options implied by the config.
func (c *Config) EvalOptions() []Option {
	var opts []Option
	if c.Substring.CaseInsensitive {
		opts = append(opts, WithCaseInsensitiveSubstring())
	}

	return opts
}

// GraphPath returns the configured graph path resolved against the config
// directory, or empty if none is set.
func (c *Config) GraphPath() string {
	if c.Graph == "" || filepath.IsAbs(c.Graph) || c.dir == "" {
		return c.Graph
	}

	return filepath.Join(c.dir, c.Graph)
}

// OutputFormat returns the configured output format, defaulting to text.
func (c *Config) OutputFormat() string {
	if c.Output == "" {
		return OutputText
	}

	return c.Output
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".graphsel.yaml", ".graphsel.yml", "graphsel.yaml", "graphsel.yml"}

// LoadConfig finds and loads the nearest .graphsel.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	cfg.dir = filepath.Dir(absPath)

	return &cfg, nil
}
