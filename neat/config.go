package neat

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Config stores the configuration for building and evaluating NEAT networks.
type Config struct {
	Network NetworkConfig
	Genome  GenomeConfig
}

// NetworkConfig holds parameters of the evaluated phenotype network.
type NetworkConfig struct {
	ActivationFunction string `ini:"activation_function"` // Default: 'sigmoid'
	Snapshot           bool   `ini:"snapshot"`
	NetworkDepth       int    `ini:"network_depth"` // 0 derives the depth from the topology
}

// GenomeConfig holds parameters specific to the structure and mutation of genomes.
type GenomeConfig struct {
	// --- Top-level Genome parameters ---
	NumInputs         int    `ini:"num_inputs"`
	NumOutputs        int    `ini:"num_outputs"`
	NumHidden         int    `ini:"num_hidden"`
	FeedForward       bool   `ini:"feed_forward"`       // If true, recurrent connections are disallowed
	InitialConnection string `ini:"initial_connection"` // Default: 'unconnected'

	// --- Node Gene parameters ---
	ResponseInitMean    float64 `ini:"response_init_mean"`
	ResponseInitStdev   float64 `ini:"response_init_stdev"`
	ResponseInitType    string  `ini:"response_init_type"` // Default: 'gaussian'
	ResponseReplaceRate float64 `ini:"response_replace_rate"`
	ResponseMutateRate  float64 `ini:"response_mutate_rate"`
	ResponseMutatePower float64 `ini:"response_mutate_power"`
	ResponseMaxValue    float64 `ini:"response_max_value"`
	ResponseMinValue    float64 `ini:"response_min_value"`

	// --- Connection Gene parameters ---
	WeightInitMean    float64 `ini:"weight_init_mean"`
	WeightInitStdev   float64 `ini:"weight_init_stdev"`
	WeightInitType    string  `ini:"weight_init_type"` // Default: 'gaussian'
	WeightReplaceRate float64 `ini:"weight_replace_rate"`
	WeightMutateRate  float64 `ini:"weight_mutate_rate"`
	WeightMutatePower float64 `ini:"weight_mutate_power"`
	WeightMaxValue    float64 `ini:"weight_max_value"`
	WeightMinValue    float64 `ini:"weight_min_value"`

	EnabledDefault    string  `ini:"enabled_default"` // Default: 'True'
	EnabledMutateRate float64 `ini:"enabled_mutate_rate"`

	// --- Calculated/Derived ---
	InputKeys    []int // Derived
	OutputKeys   []int // Derived
	BiasKey      int   // Derived
	NodeKeyIndex int   // Derived, used for assigning new node keys
}

// LoadConfig loads configuration parameters from an INI file.
func LoadConfig(filePath string) (*Config, error) {
	config, err := loadConfig(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	return config, nil
}

// LoadConfigFromBytes loads configuration parameters from in-memory INI data.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	return loadConfig(data)
}

func loadConfig(source interface{}) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true, // Allow # comments starting with # or ;
		UnescapeValueCommentSymbols: true, // If # or ; appear in value, treat as value
	}, source)
	if err != nil {
		return nil, err
	}

	config := &Config{}

	// Map sections to structs
	if err := cfg.Section("Network").MapTo(&config.Network); err != nil {
		return nil, fmt.Errorf("failed to map [Network] section: %w", err)
	}
	if err := cfg.Section("DefaultGenome").MapTo(&config.Genome); err != nil {
		return nil, fmt.Errorf("failed to map [DefaultGenome] section: %w", err)
	}

	// Keys that must not silently read as zero when absent.
	genomeSection := cfg.Section("DefaultGenome")
	floatDefaults := []struct {
		key   string
		field *float64
		def   float64
	}{
		{"response_init_mean", &config.Genome.ResponseInitMean, 1.0},
		{"response_max_value", &config.Genome.ResponseMaxValue, 30.0},
		{"response_min_value", &config.Genome.ResponseMinValue, -30.0},
		{"weight_init_stdev", &config.Genome.WeightInitStdev, 1.0},
		{"weight_max_value", &config.Genome.WeightMaxValue, 30.0},
		{"weight_min_value", &config.Genome.WeightMinValue, -30.0},
	}
	for _, d := range floatDefaults {
		if !genomeSection.HasKey(d.key) {
			*d.field = d.def
		}
	}

	// --- Explicitly clean potentially problematic string values ---
	config.Network.ActivationFunction = cleanIniString(config.Network.ActivationFunction)
	config.Genome.ResponseInitType = cleanIniString(config.Genome.ResponseInitType)
	config.Genome.WeightInitType = cleanIniString(config.Genome.WeightInitType)
	config.Genome.EnabledDefault = cleanIniString(config.Genome.EnabledDefault)
	config.Genome.InitialConnection = cleanIniString(config.Genome.InitialConnection)

	if config.Network.ActivationFunction == "" {
		config.Network.ActivationFunction = "sigmoid"
	}
	if config.Genome.ResponseInitType == "" {
		config.Genome.ResponseInitType = "gaussian"
	}
	if config.Genome.WeightInitType == "" {
		config.Genome.WeightInitType = "gaussian"
	}
	if config.Genome.EnabledDefault == "" {
		config.Genome.EnabledDefault = "True"
	}
	if config.Genome.InitialConnection == "" {
		config.Genome.InitialConnection = "unconnected"
	}

	config.Genome.deriveKeys()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges and option names.
func (c *Config) Validate() error {
	if _, err := GetActivation(c.Network.ActivationFunction); err != nil {
		return fmt.Errorf("config error: invalid activation_function: %w", err)
	}
	if c.Network.NetworkDepth < 0 {
		return fmt.Errorf("config error: network_depth cannot be negative")
	}
	if c.Genome.NumInputs <= 0 {
		return fmt.Errorf("config error: num_inputs must be positive")
	}
	if c.Genome.NumOutputs <= 0 {
		return fmt.Errorf("config error: num_outputs must be positive")
	}
	if c.Genome.NumHidden < 0 {
		return fmt.Errorf("config error: num_hidden cannot be negative")
	}
	if c.Genome.ResponseMaxValue < c.Genome.ResponseMinValue {
		return fmt.Errorf("config error: response_max_value cannot be less than response_min_value")
	}
	if c.Genome.WeightMaxValue < c.Genome.WeightMinValue {
		return fmt.Errorf("config error: weight_max_value cannot be less than weight_min_value")
	}
	if c.Genome.EnabledMutateRate < 0 || c.Genome.EnabledMutateRate > 1 {
		return fmt.Errorf("config error: enabled_mutate_rate must be between 0 and 1")
	}

	validConnections := map[string]bool{
		"unconnected": true, "fs_neat_nohidden": true, "fs_neat": true, "fs_neat_hidden": true,
		"full_nodirect": true, "full": true, "full_direct": true,
	}
	if !validConnections[c.Genome.InitialConnection] {
		return fmt.Errorf("config error: invalid initial_connection type '%s'", c.Genome.InitialConnection)
	}
	return nil
}

// DefaultGenomeConfig returns a genome configuration with the same defaults
// LoadConfig applies, for callers that build genomes without an INI file.
func DefaultGenomeConfig(numInputs, numOutputs int) *GenomeConfig {
	gc := &GenomeConfig{
		NumInputs:         numInputs,
		NumOutputs:        numOutputs,
		InitialConnection: "unconnected",
		ResponseInitMean:  1.0,
		ResponseInitType:  "gaussian",
		ResponseMaxValue:  30.0,
		ResponseMinValue:  -30.0,
		WeightInitStdev:   1.0,
		WeightInitType:    "gaussian",
		WeightMutateRate:  0.8,
		WeightMutatePower: 0.5,
		WeightReplaceRate: 0.1,
		WeightMaxValue:    30.0,
		WeightMinValue:    -30.0,
		EnabledDefault:    "True",
	}
	gc.deriveKeys()
	return gc
}

// deriveKeys assigns input keys -1..-N, the bias key -(N+1) and output keys 0..M-1.
func (gc *GenomeConfig) deriveKeys() {
	gc.InputKeys = make([]int, gc.NumInputs)
	for i := 0; i < gc.NumInputs; i++ {
		gc.InputKeys[i] = -(i + 1)
	}
	gc.BiasKey = -(gc.NumInputs + 1)
	gc.OutputKeys = make([]int, gc.NumOutputs)
	for i := 0; i < gc.NumOutputs; i++ {
		gc.OutputKeys[i] = i
	}
	// Hidden keys start after the output keys.
	gc.NodeKeyIndex = gc.NumOutputs
}

// GetNewNodeKey returns the next unused hidden node key.
func (gc *GenomeConfig) GetNewNodeKey() int {
	key := gc.NodeKeyIndex
	gc.NodeKeyIndex++
	return key
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
