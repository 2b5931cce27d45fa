package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Attribution AttributionConfig `yaml:"attribution"`
	Report      ReportConfig      `yaml:"report"`
	Storage     StorageConfig     `yaml:"storage"`
}

// ServerConfig holds HTTP trigger service settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// AttributionConfig holds the attribution engine settings
type AttributionConfig struct {
	// InternalHosts (and their subdomains) are never search-attributed.
	InternalHosts []string `yaml:"internal_hosts"`
}

// ReportConfig holds report naming settings
type ReportConfig struct {
	Timezone string `yaml:"timezone"` // IANA name used to date the report filename
}

// StorageConfig holds report storage configuration
type StorageConfig struct {
	Type         string `yaml:"type"`       // "local" or "aws"
	LocalPath    string `yaml:"local_path"` // output directory for local runs
	InputBucket  string `yaml:"input_bucket"`
	OutputBucket string `yaml:"output_bucket"`
	RawPrefix    string `yaml:"raw_prefix"`    // only objects under this prefix are processed
	OutputPrefix string `yaml:"output_prefix"` // report key prefix in the output bucket
	AWSRegion    string `yaml:"aws_region"`
	AWSProfile   string `yaml:"aws_profile"` // Empty string uses default credential chain (IAM role on ECS)
}

// GetAWSProfile returns the AWS profile, with environment variable override
func (c StorageConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return "" // Use default credential chain (IAM role)
		}
		return envProfile
	}
	// On ECS/Lambda, don't use a profile - use IAM role
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "" // Running on ECS or Lambda, use IAM role
	}
	return c.AWSProfile
}

// Load reads and parses the configuration file. An empty path yields pure defaults so
// the CLI can run without a config file.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if len(cfg.Attribution.InternalHosts) == 0 {
		cfg.Attribution.InternalHosts = []string{"esshopzilla.com"}
	}
	if cfg.Report.Timezone == "" {
		cfg.Report.Timezone = "America/Chicago"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.LocalPath == "" {
		cfg.Storage.LocalPath = "./output"
	}
	if cfg.Storage.OutputPrefix == "" {
		cfg.Storage.OutputPrefix = "reports/"
	}
	if cfg.Storage.AWSRegion == "" {
		cfg.Storage.AWSRegion = "us-west-2"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so settings can live in .env locally and in real env vars on ECS/Lambda.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if hosts := os.Getenv("INTERNAL_HOSTS"); hosts != "" {
		var parsed []string
		for _, h := range strings.Split(hosts, ",") {
			if h = strings.TrimSpace(h); h != "" {
				parsed = append(parsed, h)
			}
		}
		if len(parsed) > 0 {
			cfg.Attribution.InternalHosts = parsed
		}
	}
	if tz := os.Getenv("REPORT_TZ"); tz != "" {
		cfg.Report.Timezone = tz
	}
	if v := os.Getenv("STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("INPUT_BUCKET"); v != "" {
		cfg.Storage.InputBucket = v
	}
	if v := os.Getenv("OUTPUT_BUCKET"); v != "" {
		cfg.Storage.OutputBucket = v
	}
	if v := os.Getenv("RAW_PREFIX"); v != "" {
		cfg.Storage.RawPrefix = v
	}
	if v := os.Getenv("OUTPUT_PREFIX"); v != "" {
		cfg.Storage.OutputPrefix = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Storage.AWSRegion = v
	}

	return cfg, nil
}
