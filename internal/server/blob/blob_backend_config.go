package blob

import (
	"fmt"
	"time"

	"github.com/ruangobat/storagehub/internal/utils"
)

const (
	DriverS3     = "s3"
	DriverMemory = "memory"

	DefaultCallTimeout = 30 * time.Second
)

type Config struct {
	Driver        string        `mapstructure:"driver"`
	BucketName    string        `mapstructure:"bucket_name"`
	Region        string        `mapstructure:"region"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Endpoint      string        `mapstructure:"endpoint"`
	UseAccelerate bool          `mapstructure:"use_accelerate"`
	CallTimeout   time.Duration `mapstructure:"call_timeout"`
}

func (c *Config) Validate() error {
	if c.Driver == "" {
		c.Driver = DriverS3
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	if c.BucketName == "" {
		return fmt.Errorf("bucket_name required")
	}

	switch c.Driver {
	case DriverMemory:
		return nil
	case DriverS3:
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}

	if c.Region == "" {
		return fmt.Errorf("region required")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access_key required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret_key required")
	}
	if c.Endpoint != "" && !utils.IsValidURL(c.Endpoint) {
		return fmt.Errorf("invalid endpoint URL %q", c.Endpoint)
	}
	return nil
}
