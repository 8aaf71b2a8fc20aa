package main

import (
	"io"
	"net/url"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/contract-costs/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged file, environment and default configuration as YAML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeConfig(cmd.OutOrStdout(), cfg)
	},
}

const redacted = "xxxxx"

// writeConfig prints c as YAML with the token secret and the database
// password masked.
func writeConfig(w io.Writer, c *config.Config) error {
	out := *c
	if out.Auth.SecretKey != "" {
		out.Auth.SecretKey = redacted
	}
	out.Store.DatabaseURL = maskDSN(out.Store.DatabaseURL)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return eris.Wrap(err, "encode config")
	}
	return enc.Close()
}

// maskDSN hides the password of a URL-form connection string. Other forms
// are returned unchanged.
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), redacted)
	}
	return u.String()
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
