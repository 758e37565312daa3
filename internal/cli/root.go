package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/legalens/internal/model"
)

// version is overridden at build time with -ldflags "-X ...cli.version=..."
var version = "0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// credentialEnv maps provider credentials to their conventional variables
var credentialEnv = map[string]string{
	"providers.openai.api_key":    "OPENAI_API_KEY",
	"providers.gemini.api_key":    "GEMINI_API_KEY",
	"providers.anthropic.api_key": "ANTHROPIC_API_KEY",
	"providers.ollama.base_url":   "OLLAMA_BASE_URL",
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "legalens",
	Short: "legalens - find the legal text on a page and grade it with several LLMs",
	Long: `legalens locates terms of service, privacy policies and similar legal text
inside arbitrary web pages, then asks several independent LLM backends to
assess it and fuses their answers into one report.

The report is an automated reading aid. It is not legal advice.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("legalens v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.legalens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".legalens"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// LEGALENS_HTTP_TIMEOUT overrides http.timeout, and so on
	viper.SetEnvPrefix("LEGALENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for key, env := range credentialEnv {
		_ = viper.BindEnv(key, "LEGALENS_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	level := zerolog.InfoLevel
	if l := viper.GetString("log_level"); l != "" {
		if parsed, err := zerolog.ParseLevel(l); err == nil {
			level = parsed
		}
	}
	if viper.GetBool("output.verbose") {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

// loadConfig layers the config file and environment over the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	registerKeys("", reflect.ValueOf(cfg).Elem())
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// registerKeys declares every config field as a viper default. Unmarshal
// only visits known keys, so without this LEGALENS_* variables for keys
// absent from the config file are never read.
func registerKeys(prefix string, v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field := v.Field(i); field.Kind() == reflect.Struct {
			registerKeys(key, field)
		} else {
			viper.SetDefault(key, field.Interface())
		}
	}
}

// splitList accepts repeated and comma separated flag values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, strings.ToLower(part))
			}
		}
	}
	return out
}
