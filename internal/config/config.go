package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	defaultMinimumStaff        = 8
	defaultConsecutiveDayLimit = 5
	defaultGeneratedLeaveType  = "休み"
)

// StandingLeave pre-assigns a status to staff on every day matched by an rrule.
// Matching cells are written before generation and treated as manual edits.
type StandingLeave struct {
	RRule    string   `yaml:"rrule" validate:"required"`
	StaffIDs []string `yaml:"staffIDs" validate:"required,min=1,dive,required"`
	Status   string   `yaml:"status" validate:"required,oneof=出勤 希望休 休み 有給 夏季 特別休暇"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL         string          `yaml:"databaseURL" validate:"required"`
	RosterSheetID       string          `yaml:"rosterSheetID,omitempty"`
	RosterTab           string          `yaml:"rosterTab,omitempty" validate:"required_with=RosterSheetID"`
	PublishSheetID      string          `yaml:"publishSheetID,omitempty"`
	MinimumStaff        int             `yaml:"minimumStaff,omitempty" validate:"min=1"`
	TeamMinimumStaff    map[string]int  `yaml:"teamMinimumStaff,omitempty" validate:"dive,keys,required,endkeys,min=1"`
	ConsecutiveDayLimit int             `yaml:"consecutiveDayLimit,omitempty" validate:"min=2"`
	GeneratedLeaveType  string          `yaml:"generatedLeaveType,omitempty" validate:"oneof=希望休 休み 有給 夏季 特別休暇"`
	StandingLeave       []StandingLeave `yaml:"standingLeave,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// MinimumStaffFor returns the coverage threshold for team
func (c *Config) MinimumStaffFor(team string) int {
	if m, ok := c.TeamMinimumStaff[team]; ok {
		return m
	}
	return c.MinimumStaff
}

// Load loads and validates the configuration from riha_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment.
// For example, env="test" will look for "riha_config.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findFile("riha_config", ".yaml", env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.MinimumStaff == 0 {
		cfg.MinimumStaff = defaultMinimumStaff
	}
	if cfg.ConsecutiveDayLimit == 0 {
		cfg.ConsecutiveDayLimit = defaultConsecutiveDayLimit
	}
	if cfg.GeneratedLeaveType == "" {
		cfg.GeneratedLeaveType = defaultGeneratedLeaveType
	}
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, leave := range cfg.StandingLeave {
		if _, err := rrule.StrToROption(leave.RRule); err != nil {
			return fmt.Errorf("invalid rrule in standingLeave[%d]: %w", i, err)
		}
	}

	return nil
}

// findFile searches for <base>[.<env>]<ext> in the current directory and home directory
func findFile(base, ext, env string) (string, error) {
	fileName := base + ext
	if env != "" {
		fileName = base + "." + env + ext
	}

	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", fileName)
}
