/*
 * Copyright 2021 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cmd

import (
	"fmt"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/nlnwa/gositemap/cmd/sitemap/cmd/generate"
	"github.com/nlnwa/gositemap/cmd/sitemap/cmd/serve"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type conf struct {
	cfgFile  string
	logLevel string
}

// NewCommand returns a new cobra.Command implementing the root command for sitemap
func NewCommand() *cobra.Command {
	c := &conf{}
	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Generate and serve sitemaps",
		Long: `Generate sitemap files and a sitemap index from a list of URLs, following the protocol
described at https://www.sitemaps.org/protocol.html, and serve the result over http.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.initConfig(); err != nil {
				return err
			}
			level, err := log.ParseLevel(viper.GetString("log-level"))
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
	}

	// Flags
	cmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.sitemap.yaml)")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "log level, one of panic, fatal, error, warn, info, debug or trace")
	if err := viper.BindPFlag("log-level", cmd.PersistentFlags().Lookup("log-level")); err != nil {
		panic(err)
	}

	// Subcommands
	cmd.AddCommand(generate.NewCommand())
	cmd.AddCommand(serve.NewCommand())

	return cmd
}

// initConfig reads in config file and ENV variables if set.
func (c *conf) initConfig() error {
	if c.cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(c.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return fmt.Errorf("could not find home directory: %w", err)
		}

		// Search config in home directory with name ".sitemap" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".sitemap")
	}

	viper.SetEnvPrefix("SITEMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if c.cfgFile != "" {
		return fmt.Errorf("could not read config file: %w", err)
	}
	return nil
}
