/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// tlsecho is a sample echo client and server driving the TLS core over
// TCP. It exists to exercise the library end to end, not to be deployed.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	libcnn "github.com/nabbar/gotls/connection"
	liblog "github.com/nabbar/gotls/logger"
)

var (
	cfgFile  string
	logLevel string

	log = liblog.New()
)

func logFct() liblog.FuncLog {
	return func() liblog.Logger {
		return log
	}
}

// loadConfig decodes the optional config file into a connection config;
// TLSECHO_-prefixed environment variables override the keys it sets.
func loadConfig() (*libcnn.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TLSECHO")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &libcnn.Config{}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "mapstructure",
		Result:  cfg,
	})
	if err != nil {
		return nil, err
	}

	if err = dec.Decode(v.AllSettings()); err != nil {
		return nil, err
	}

	return cfg, nil
}

func main() {
	root := &cobra.Command{
		Use:   "tlsecho",
		Short: "TLS echo sample client and server",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			log.SetLevel(liblog.ParseLevel(logLevel))
			log.SetOutput(os.Stderr)
		},
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (json, yaml or toml)")
	root.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warning, error)")

	root.AddCommand(newClientCommand(), newServerCommand())

	if err := root.Execute(); err != nil {
		color.Red("tlsecho: %v", err)
		os.Exit(1)
	}
}
