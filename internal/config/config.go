// This file defines the configuration structure for the application.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppName is used for the config directory, the log file and the user agent suffix.
const AppName = "natgeo-wallpapers"

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	PhotoRoot string `mapstructure:"photo_root"`
	LogDir    string `mapstructure:"log_dir"`
	Source    struct {
		PageURL        string        `mapstructure:"page_url"`
		SiteDomain     string        `mapstructure:"site_domain"`
		ImageCDN       string        `mapstructure:"image_cdn"`
		UserAgent      string        `mapstructure:"user_agent"`
		AcceptLanguage string        `mapstructure:"accept_language"`
		Timeout        time.Duration `mapstructure:"timeout"`
	} `mapstructure:"source"`
	Collection struct {
		RequestInterval time.Duration `mapstructure:"request_interval"`
		MinPhotoBytes   int64         `mapstructure:"min_photo_bytes"`
		GalleryMarkers  []string      `mapstructure:"gallery_markers"`
	} `mapstructure:"collection"`
	Schedule struct {
		UnitDir  string `mapstructure:"unit_dir"`
		UnitName string `mapstructure:"unit_name"`
	} `mapstructure:"schedule"`
}

// CollectionsDir is where monthly collections are stored, one directory per slug.
func (c *Config) CollectionsDir() string {
	return filepath.Join(c.PhotoRoot, "collections")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("photo_root", "~/Pictures/NationalGeographic")
	v.SetDefault("log_dir", "~/.local/share/"+AppName)
	v.SetDefault("source.page_url", "https://www.nationalgeographic.com/photo-of-the-day")
	v.SetDefault("source.site_domain", "nationalgeographic.com")
	v.SetDefault("source.image_cdn", "https://i.natgeofe.com/n/")
	v.SetDefault("source.user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36")
	v.SetDefault("source.accept_language", "en-US,en;q=0.9")
	v.SetDefault("source.timeout", "30s")
	v.SetDefault("collection.request_interval", "1s")
	v.SetDefault("collection.min_photo_bytes", 50000)
	v.SetDefault("collection.gallery_markers", []string{"best-pod", "best_pod"})
	v.SetDefault("schedule.unit_dir", "~/.config/systemd/user")
	v.SetDefault("schedule.unit_name", "natgeo-wallpaper")
}

// Default returns the configuration with every key at its default value.
func Default() *Config {
	cfg, err := load(viper.New())
	if err != nil {
		// Defaults are static; failing to decode them is a programming error.
		panic(err)
	}
	return cfg
}

// Load reads configuration from configFile, or from a file named "config.yml"
// in the user config directory or the current directory when configFile is
// empty, and unmarshals it into a Config struct.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config") // name of config file (without extension)
		v.SetConfigType("yml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
		v.AddConfigPath(".")
	}

	// NATGEO_PHOTO_ROOT overrides photo_root, NATGEO_SOURCE_PAGE_URL
	// overrides source.page_url, and so on.
	v.SetEnvPrefix("NATGEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// Config file not found; use defaults
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.PhotoRoot = ExpandTilde(config.PhotoRoot)
	config.LogDir = ExpandTilde(config.LogDir)
	config.Schedule.UnitDir = ExpandTilde(config.Schedule.UnitDir)
	return &config, nil
}

// ExpandTilde replaces a leading "~/" with the user's home directory.
func ExpandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
