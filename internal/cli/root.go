// Package cli provides the command-line interface for bugz.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/xabinapal/bugz/internal/auth"
	"github.com/xabinapal/bugz/internal/config"
	"github.com/xabinapal/bugz/internal/keyring"
	"github.com/xabinapal/bugz/internal/logging"
	"github.com/xabinapal/bugz/internal/profile"
)

// CLI holds the application state for the CLI.
type CLI struct {
	Keyring keyring.Store
	Auth    *auth.Authenticator
	// HTTPClient replaces the REST client's default when set.
	HTTPClient *http.Client
	// ConfigPaths returns where configuration is looked for.
	ConfigPaths func(explicit string) config.Paths

	rootCmd *cobra.Command
	out     io.Writer
	errOut  io.Writer

	// Set by initialize.
	chain    *config.Chain
	files    []string
	resolver *profile.Resolver
	settings *profile.Settings
	logger   *logging.Logger
	output   *OutputWriter

	flags globalFlags
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configFile  string
	connection  string
	base        string
	user        string
	password    string
	passwordCmd string
	key         string
	encoding    string
	output      string
	quiet       bool
	skipAuth    bool
	debug       int
	columns     int
}

// skipInit lists commands that run without loading configuration.
var skipInit = map[string]bool{
	"version":                       true,
	"completion":                    true,
	"help":                          true,
	cobra.ShellCompRequestCmd:       true,
	cobra.ShellCompNoDescRequestCmd: true,
}

// New creates a new CLI instance.
func New() *CLI {
	store := keyring.DefaultStore()
	cli := &CLI{
		Keyring: store,
		Auth: &auth.Authenticator{
			Prompter: auth.NewTerminalPrompter(os.Stdin, os.Stderr),
			Runner:   auth.NewCommandRunner(),
			Store:    store,
		},
		ConfigPaths: config.GetPaths,
		out:         os.Stdout,
		errOut:      os.Stderr,
		logger:      logging.Discard(),
	}

	cli.rootCmd = &cobra.Command{
		Use:   "bugz [command]",
		Short: "bugz - command line interface to Bugzilla",
		Long: `bugz queries a Bugzilla server over its REST API.

The server, the credentials and search defaults come from INI-style
configuration files: /usr/share/pybugz.d/*.conf, /usr/share/bugz.d/*.conf,
/etc/pybugz.d/*.conf, /etc/bugz.d/*.conf and ~/.bugzrc, in that order, or the
file given with --config-file instead of ~/.bugzrc. Every [section] is a
connection that can be selected with --connection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.initialize(cmd)
		},
	}

	f := cli.rootCmd.PersistentFlags()
	f.StringVar(&cli.flags.configFile, "config-file", "", "Read this configuration file instead of ~/.bugzrc")
	f.StringVar(&cli.flags.connection, "connection", "", "Use the named connection from the configuration")
	f.StringVarP(&cli.flags.base, "base", "b", "", "Base URL of the Bugzilla server")
	f.StringVarP(&cli.flags.user, "user", "u", "", "Username for authentication")
	f.StringVarP(&cli.flags.password, "password", "p", "", "Password for authentication")
	f.StringVar(&cli.flags.passwordCmd, "passwordcmd", "", "Shell command printing the password")
	f.StringVarP(&cli.flags.key, "key", "k", "", "API key for authentication")
	f.BoolVarP(&cli.flags.quiet, "quiet", "q", false, "Only print warnings and errors")
	f.IntVarP(&cli.flags.debug, "debug", "d", 0, "Debug level 0-3; 2 and 3 trace HTTP")
	f.IntVar(&cli.flags.columns, "columns", profile.MinColumns, "Maximum output width (at least 80)")
	f.StringVar(&cli.flags.encoding, "encoding", "", "Output encoding (deprecated, ignored)")
	f.BoolVar(&cli.flags.skipAuth, "skip-auth", false, "Do not authenticate")
	f.StringVarP(&cli.flags.output, "output", "o", "text", "Output format (text, json, yaml)")
	_ = f.MarkDeprecated("encoding", "output is always UTF-8")

	cli.addCommands()
	cli.registerCompletions()

	return cli
}

// addCommands adds all subcommands to the root command.
func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newConnectionsCmd(),
		cli.newConfigCmd(),
		cli.newGetCmd(),
		cli.newHistoryCmd(),
		cli.newSearchCmd(),
		cli.newPostCmd(),
		cli.newModifyCmd(),
		cli.newAttachCmd(),
		cli.newAttachmentCmd(),
		cli.newComponentCmd(),
		cli.newLoginCmd(),
		cli.newLogoutCmd(),
		cli.newDoctorCmd(),
		cli.newVersionCmd(),
		cli.newCompletionCmd(),
	)
}

// SetOutput redirects standard output and standard error.
func (cli *CLI) SetOutput(out, errOut io.Writer) {
	cli.out = out
	cli.errOut = errOut
	cli.rootCmd.SetOut(out)
	cli.rootCmd.SetErr(errOut)
}

// SetArgs sets the arguments to parse instead of os.Args.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

// Execute runs the CLI.
func (cli *CLI) Execute(ctx context.Context) error {
	return userError(cli.rootCmd.ExecuteContext(ctx))
}

// initialize validates the global flags, loads the configuration and sets
// up logging.
func (cli *CLI) initialize(cmd *cobra.Command) error {
	if skipInit[cmd.Name()] {
		return nil
	}

	format, err := ParseOutputFormat(cli.flags.output)
	if err != nil {
		return err
	}
	cli.output = NewOutputWriter(format, cli.out)

	overrides, err := cli.overrides(cmd.Flags())
	if err != nil {
		return err
	}

	chain, files, err := cli.ConfigPaths(cli.flags.configFile).LoadAll()
	if err != nil {
		return err
	}
	cli.chain = chain
	cli.files = files
	cli.resolver = profile.NewResolver(chain, overrides)

	settings, err := cli.resolver.Settings()
	if err != nil {
		return err
	}
	cli.settings = settings
	cli.logger = logging.NewLogger(logging.LoggerConfig{
		Debug:  settings.Debug,
		Quiet:  settings.Quiet,
		Writer: cli.errOut,
	})

	for _, file := range files {
		cli.logger.Debug("loaded %s", file)
	}
	return nil
}

// overrides collects the command-line values that take precedence over
// configuration. Only flags actually given are set.
func (cli *CLI) overrides(flags *pflag.FlagSet) (profile.Overrides, error) {
	o := profile.Overrides{
		Connection:  cli.flags.connection,
		Base:        cli.flags.base,
		User:        cli.flags.user,
		Password:    cli.flags.password,
		PasswordCmd: cli.flags.passwordCmd,
		Key:         cli.flags.key,
		SkipAuth:    cli.flags.skipAuth,
		Encoding:    cli.flags.encoding,
	}

	if flags.Changed("debug") {
		if cli.flags.debug < 0 || cli.flags.debug > 3 {
			return o, fmt.Errorf("invalid --debug value %d: must be between 0 and 3", cli.flags.debug)
		}
		debug := cli.flags.debug
		o.Debug = &debug
	}
	if flags.Changed("columns") {
		if cli.flags.columns < profile.MinColumns {
			return o, fmt.Errorf("invalid --columns value %d: must be at least %d", cli.flags.columns, profile.MinColumns)
		}
		columns := cli.flags.columns
		o.Columns = &columns
	}
	if flags.Changed("quiet") {
		quiet := cli.flags.quiet
		o.Quiet = &quiet
	}
	return o, nil
}
