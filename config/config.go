package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/viper"
)

// Configuration drives the consent inspection service. Values are read from
// a config file and/or environment variables via viper; see SetupViper for
// the defaults.
type Configuration struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	AdminPort  int    `mapstructure:"admin_port"`
	EnableGzip bool   `mapstructure:"enable_gzip"`

	// VendorList configures the GVL (vendor catalog) source.
	VendorList ReferenceSource `mapstructure:"vendor_list"`
	// CMPList configures the CMP registry source.
	CMPList ReferenceSource `mapstructure:"cmp_list"`
}

// ReferenceSource describes where one of the two reference datasets comes
// from. Both datasets are loaded once at startup; a source that cannot be
// loaded degrades to an empty index rather than failing startup.
type ReferenceSource struct {
	FilePath       string `mapstructure:"file_path"`
	Fetch          bool   `mapstructure:"fetch"`
	FetchURL       string `mapstructure:"fetch_url"`
	FetchTimeoutMS int    `mapstructure:"fetch_timeout_ms"`
}

func (s *ReferenceSource) FetchTimeout() time.Duration {
	return time.Duration(s.FetchTimeoutMS) * time.Millisecond
}

// New uses viper to produce a validated Configuration.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	glog.Infof("config: serving on %s:%d (admin %d)", c.Host, c.Port, c.AdminPort)
	return &c, nil
}

func (cfg *Configuration) validate() error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be in (0, 65535]. Got %d", cfg.Port)
	}
	if cfg.AdminPort < 0 || cfg.AdminPort > 65535 {
		return fmt.Errorf("admin_port must be in [0, 65535]. Got %d", cfg.AdminPort)
	}
	if cfg.AdminPort == cfg.Port && cfg.AdminPort != 0 {
		return fmt.Errorf("admin_port must differ from port. Both were %d", cfg.Port)
	}
	if err := cfg.VendorList.validate("vendor_list"); err != nil {
		return err
	}
	return cfg.CMPList.validate("cmp_list")
}

func (s *ReferenceSource) validate(name string) error {
	if s.Fetch && s.FetchURL == "" {
		return fmt.Errorf("%s.fetch is enabled but %s.fetch_url is empty", name, name)
	}
	if s.Fetch && s.FetchTimeoutMS <= 0 {
		return fmt.Errorf("%s.fetch_timeout_ms must be positive. Got %d", name, s.FetchTimeoutMS)
	}
	return nil
}

// SetupViper sets the viper defaults and tells it where to look for overrides.
// Environment variables use the TCF_ prefix with dots replaced by underscores,
// e.g. TCF_VENDOR_LIST_FILE_PATH.
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
	}

	v.SetDefault("host", "")
	v.SetDefault("port", 8000)
	v.SetDefault("admin_port", 6060)
	v.SetDefault("enable_gzip", false)

	v.SetDefault("vendor_list.file_path", "vendor-list.json")
	v.SetDefault("vendor_list.fetch", false)
	v.SetDefault("vendor_list.fetch_url", "https://vendor-list.consensu.org/v2/vendor-list.json")
	v.SetDefault("vendor_list.fetch_timeout_ms", 5000)

	v.SetDefault("cmp_list.file_path", "cmp-list.json")
	v.SetDefault("cmp_list.fetch", false)
	v.SetDefault("cmp_list.fetch_url", "https://cmplist.consensu.org/v2/cmp-list.json")
	v.SetDefault("cmp_list.fetch_timeout_ms", 5000)

	v.SetEnvPrefix("TCF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.ReadInConfig()
}
