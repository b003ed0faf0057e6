package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"codeberg.org/snonux/bag/internal/topic"
)

// Configuration keys
const (
	KeyTopics         = "topics"
	KeyRecordDuration = "record.duration"
	KeyRecordProgram  = "record.program"
	KeyMergeProgram   = "merge.program"
	KeyLogLevel       = "log.level"
)

// topicConfig is one entry of the topics list in the config file
type topicConfig struct {
	Shortcut    string   `mapstructure:"shortcut"`
	Description string   `mapstructure:"description"`
	Topics      []string `mapstructure:"topics"`
}

// SetDefaults registers the built-in configuration values
func SetDefaults() {
	viper.SetDefault(KeyRecordDuration, DefaultDuration)
	viper.SetDefault(KeyRecordProgram, "rosbag")
	viper.SetDefault(KeyMergeProgram, "bagmerge")
	viper.SetDefault(KeyLogLevel, "info")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	SetDefaults()

	if cfgFile != "" {
		// Use config file given explicitly
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".bag" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bag")
	}

	// Environment variables, e.g. BAG_RECORD_DURATION
	viper.SetEnvPrefix("BAG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Warning: failed to read config file %s: %v\n", cfgFile, err)
	}
}

// LoadCatalog builds the topic catalog from the topics key, falling back
// to DefaultTopics when the key is not set
func LoadCatalog() (*topic.Catalog, error) {
	if !viper.IsSet(KeyTopics) {
		return topic.NewCatalog(DefaultTopics()...)
	}

	var entries []topicConfig
	if err := viper.UnmarshalKey(KeyTopics, &entries); err != nil {
		return nil, fmt.Errorf("failed to read topics from config: %w", err)
	}

	descriptors := make([]topic.Descriptor, 0, len(entries))
	for i, e := range entries {
		shortcut, err := topic.ParseShortcut(e.Shortcut)
		if err != nil {
			return nil, fmt.Errorf("topics[%d]: %w", i, err)
		}
		descriptors = append(descriptors, topic.Descriptor{
			Shortcut:    shortcut,
			Description: e.Description,
			Topics:      e.Topics,
		})
	}

	return topic.NewCatalog(descriptors...)
}

// RecordDuration returns the configured default split duration
func RecordDuration() int {
	if d := viper.GetInt(KeyRecordDuration); d > 0 {
		return d
	}
	return DefaultDuration
}

// DefaultTopics is the catalog used when the config defines none
func DefaultTopics() []topic.Descriptor {
	return []topic.Descriptor{
		{Shortcut: 'c', Description: "cameras", Topics: []string{"/camera/front/image_raw", "/camera/down/image_raw"}},
		{Shortcut: 'd', Description: "depth sensor", Topics: []string{"/depth"}},
		{Shortcut: 'i', Description: "IMU", Topics: []string{"/imu/data"}},
		{Shortcut: 'm', Description: "motor commands", Topics: []string{"/motors"}},
		{Shortcut: 's', Description: "sonar", Topics: []string{"/sonar/raw"}},
		{Shortcut: 't', Description: "transforms", Topics: []string{"/tf", "/tf_static"}},
	}
}
