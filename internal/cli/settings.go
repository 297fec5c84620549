package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding flag defaults.
const EnvPrefix = "EMBER_LESS"

// envFlags are the flags that can be set from the environment.
var envFlags = map[string][]string{
	"dir":            nil,
	"debug":          nil,
	"no-color":       {"EMBER_LESS_NO_COLOR", "NO_COLOR"},
	"skip-install":   nil,
	"test-framework": nil,
}

// Settings resolves flag values from EMBER_LESS_* environment variables.
// An explicitly set flag always wins.
type Settings struct {
	v *viper.Viper
}

// NewSettings binds the environment variables for every env-backed flag.
func NewSettings() *Settings {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	for key, names := range envFlags {
		input := append([]string{key}, names...)
		_ = v.BindEnv(input...)
	}
	return &Settings{v: v}
}

// Apply copies environment values into the unchanged flags of cmd.
func (s *Settings) Apply(cmd *cobra.Command) error {
	var errs []string
	visit := func(f *pflag.Flag) {
		if _, ok := envFlags[f.Name]; !ok || f.Changed {
			return
		}
		if !s.v.IsSet(f.Name) {
			return
		}
		val := s.v.GetString(f.Name)
		if f.Value.Type() == "bool" && val != "" && val != "0" && val != "false" {
			val = "true"
		}
		if err := f.Value.Set(val); err != nil {
			errs = append(errs, fmt.Sprintf("%s_%s: %v", EnvPrefix, strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_")), err))
		}
	}
	// Flags() includes the persistent flags merged in from the root.
	cmd.Flags().VisitAll(visit)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}
