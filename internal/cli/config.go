package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xabinapal/bugz/internal/config"
	"github.com/xabinapal/bugz/internal/l10n"
	"github.com/xabinapal/bugz/internal/profile"
	"github.com/xabinapal/bugz/internal/utils"
)

// configShowOutput is the resolved configuration for JSON and YAML.
type configShowOutput struct {
	Connection     string            `json:"connection" yaml:"connection"`
	Base           *profile.Resolved `json:"base,omitempty" yaml:"base,omitempty"`
	Auth           authOutput        `json:"auth" yaml:"auth"`
	SearchStatuses statusesOutput    `json:"search_statuses" yaml:"search_statuses"`
	Product        *profile.Resolved `json:"product,omitempty" yaml:"product,omitempty"`
	Component      *profile.Resolved `json:"component,omitempty" yaml:"component,omitempty"`
	Debug          int               `json:"debug" yaml:"debug"`
	Columns        int               `json:"columns" yaml:"columns"`
	Quiet          bool              `json:"quiet" yaml:"quiet"`
	Sources        map[string]string `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// authOutput describes the credential without revealing secrets.
type authOutput struct {
	// Method is "none", "api_key", "login" or "prompt".
	Method   string `json:"method" yaml:"method"`
	User     string `json:"user,omitempty" yaml:"user,omitempty"`
	Key      string `json:"key,omitempty" yaml:"key,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
}

type statusesOutput struct {
	Statuses []string `json:"statuses" yaml:"statuses"`
	Source   string   `json:"source,omitempty" yaml:"source,omitempty"`
}

// configFilesOutput lists the loaded files for JSON and YAML.
type configFilesOutput struct {
	Files []string `json:"files" yaml:"files"`
}

// newConfigCmd creates the config command group.
func (cli *CLI) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect bugz configuration",
		Long: `Inspect the configuration bugz resolves for this invocation.

Use 'bugz config show' to see the effective settings and where they come from.
Use 'bugz config files' to see which configuration files were read.`,
	}

	cmd.AddCommand(
		cli.newConfigShowCmd(),
		cli.newConfigFilesCmd(),
	)

	return cmd
}

// newConfigShowCmd creates the config show command.
func (cli *CLI) newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the server, credential, search defaults and display settings that
bugz would use, together with the connection each value comes from.
Passwords are never printed and API keys are masked.

Examples:
  # Effective configuration
  bugz config show

  # For another connection, as JSON
  bugz --connection gentoo config show -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cli.resolveConfig()
			if err != nil {
				return err
			}
			return cli.output.Write(out, func() {
				printConfig(cli.out, out)
			})
		},
	}
}

// newConfigFilesCmd creates the config files command.
func (cli *CLI) newConfigFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List the configuration files that were read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := cli.files
			if files == nil {
				files = []string{}
			}
			return cli.output.Write(configFilesOutput{Files: files}, func() {
				if len(files) == 0 {
					fmt.Fprintln(cli.out, l10n.T("No configuration files found"))
					return
				}
				for _, f := range files {
					fmt.Fprintln(cli.out, f)
				}
			})
		},
	}
}

// resolveConfig gathers everything the resolver knows. A missing base URL
// is shown as absent rather than reported.
func (cli *CLI) resolveConfig() (*configShowOutput, error) {
	r := cli.resolver
	out := &configShowOutput{
		Connection: r.Overrides().Connection,
		Debug:      cli.settings.Debug,
		Columns:    cli.settings.Columns,
		Quiet:      cli.settings.Quiet,
		Sources:    cli.settings.Sources,
	}
	if out.Connection == "" {
		out.Connection = config.DefaultProfileName
	}

	base, err := r.ResolveBase()
	switch {
	case err == nil:
		out.Base = &base
	case !errors.Is(err, profile.ErrNoBase):
		return nil, err
	}

	cred, err := r.Credential()
	if err != nil {
		return nil, err
	}
	out.Auth = describeCredential(cred)

	statuses, source, err := r.ResolveSearchStatuses(nil)
	if err != nil {
		return nil, err
	}
	if statuses == nil {
		statuses = []string{}
	}
	out.SearchStatuses = statusesOutput{Statuses: statuses, Source: source}

	if product, ok, err := r.Product(); err != nil {
		return nil, err
	} else if ok {
		out.Product = &product
	}
	if component, ok, err := r.Component(); err != nil {
		return nil, err
	} else if ok {
		out.Component = &component
	}
	return out, nil
}

func describeCredential(cred *profile.Credential) authOutput {
	switch {
	case cred == nil:
		return authOutput{Method: "none"}
	case cred.IsKey():
		return authOutput{Method: "api_key", Key: utils.Mask(cred.Key), Source: cred.Source}
	case cred.User == "":
		return authOutput{Method: "prompt"}
	}

	a := authOutput{Method: "login", User: cred.User, Source: cred.Source}
	switch {
	case cred.Password != "":
		a.Password = "configured"
	case cred.PasswordCmd != "":
		a.Password = "command"
	default:
		a.Password = "keyring or prompt"
	}
	return a
}

func printConfig(w io.Writer, c *configShowOutput) {
	field := func(label, value, source string) {
		if source != "" {
			value += " (" + source + ")"
		}
		fmt.Fprintf(w, "%-12s: %s\n", label, value)
	}

	field("Connection", c.Connection, "")
	if c.Base != nil {
		field("Base", c.Base.Value, c.Base.Source)
	} else {
		field("Base", l10n.T("not set"), "")
	}

	switch c.Auth.Method {
	case "api_key":
		field("Auth", "API key "+c.Auth.Key, c.Auth.Source)
	case "login":
		field("Auth", c.Auth.User+", password from "+c.Auth.Password, c.Auth.Source)
	case "prompt":
		field("Auth", l10n.T("ask for username and password"), "")
	default:
		field("Auth", l10n.T("disabled"), "")
	}

	statuses := strings.Join(c.SearchStatuses.Statuses, ", ")
	if statuses == "" {
		statuses = profile.StatusAll
	}
	field("Statuses", statuses, c.SearchStatuses.Source)
	if c.Product != nil {
		field("Product", c.Product.Value, c.Product.Source)
	}
	if c.Component != nil {
		field("Component", c.Component.Value, c.Component.Source)
	}
	field("Debug", strconv.Itoa(c.Debug), c.Sources["debug"])
	field("Columns", strconv.Itoa(c.Columns), c.Sources["columns"])
	field("Quiet", strconv.FormatBool(c.Quiet), c.Sources["quiet"])
}
