/*
Copyright © 2021 Edmond Cotterell

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/Daskott/credfix/colors"
	"github.com/Daskott/credfix/converter"
	"github.com/Daskott/credfix/logger"
	"github.com/Daskott/credfix/shared"
	"github.com/Daskott/credfix/version"
	"github.com/go-playground/validator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "CREDFIX"

var cfgFile string

// Execute runs the root command and exits with a non-zero status on failure.
// This is called by main.main().
func Execute() {
	cmd := createRootCmd()
	// cobra prints to stderr unless an output is set
	cmd.SetOut(os.Stdout)

	err := cmd.Execute()
	if err != nil {
		cobra.CheckErr(formattedError("%v", err))
	}
}

func createRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credfix",
		Short: "Converts web OAuth client credentials to the installed(desktop) app format",
		Long: `credfix reads a google OAuth client secret file created for a web application
and writes the same client in the "installed" shape expected by desktop OAuth flows,
using http://localhost as the redirect uri.

By default credentials.json is read and credentials_desktop.json is written
in the current directory.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := runConfig(cmd)
			if err != nil {
				return err
			}
			return runConvert(cmd, config)
		},
	}

	cmd.Version = fmt.Sprintf("v%s", version.Version)

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file with 'input' and 'output' keys")
	cmd.Flags().StringP("input", "i", shared.DefaultInput, "web credentials file to convert")
	cmd.Flags().StringP("output", "o", shared.DefaultOutput, "where to write the desktop credentials")
	cmd.Flags().BoolP("verbose", "v", false, "log each step to stderr")

	return cmd
}

func runConvert(cmd *cobra.Command, config *shared.Config) error {
	logg := logger.NewLogger(config.Verbose)
	// flushes buffer, if any
	defer logg.Sync()

	outcome, err := converter.New(logg).Run(config.Input, config.Output)
	if err != nil {
		return err
	}

	logg.Debugf("conversion outcome: %v", outcome)

	switch outcome {
	case converter.Converted:
		cmd.Println("✅ Converted web credentials to desktop app format")
		cmd.Printf("💡 Try using '%s' in your script\n", config.Output)
		cmd.Println("⚠️  You still need to configure the OAuth consent screen properly")
	case converter.AlreadyInstalled:
		cmd.Println("❌ Credentials are already in the correct format")
	}

	return nil
}

// ---------------------------------------------------------------------------------//
// Config Helpers
// --------------------------------------------------------------------------------//

// runConfig merges flags, CREDFIX_* env vars and the optional config file
// into a validated shared.Config. Flags set on the command line win.
func runConfig(cmd *cobra.Command) (*shared.Config, error) {
	config := viper.New()

	config.SetDefault("input", shared.DefaultInput)
	config.SetDefault("output", shared.DefaultOutput)

	for _, name := range []string{"input", "output", "verbose"} {
		err := config.BindPFlag(name, cmd.Flags().Lookup(name))
		if err != nil {
			return nil, err
		}
	}

	config.SetEnvPrefix(envPrefix)
	config.AutomaticEnv() // read in environment variables that match

	if cfgFile != "" {
		config.SetConfigFile(cfgFile)
		if err := config.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
	}

	result := &shared.Config{}
	err := config.Unmarshal(result)
	if err != nil {
		return nil, fmt.Errorf("unable to decode config: %v", err)
	}

	err = validator.New().Struct(result)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}

	return result, nil
}

func formattedError(format string, a ...interface{}) error {
	return fmt.Errorf(colors.Red(format), a...)
}
