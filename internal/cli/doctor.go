package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xabinapal/bugz/internal/bugzilla"
	"github.com/xabinapal/bugz/internal/keyring"
	"github.com/xabinapal/bugz/internal/profile"
)

// doctorTimeout bounds the server check.
const doctorTimeout = 30 * time.Second

// CheckResult represents the result of a diagnostic check.
type CheckResult struct {
	Name    string      `json:"name" yaml:"name"`
	Status  CheckStatus `json:"status" yaml:"status"`
	Message string      `json:"message" yaml:"message"`
	Fix     string      `json:"fix,omitempty" yaml:"fix,omitempty"`
}

// CheckStatus represents the status of a diagnostic check.
type CheckStatus int

const (
	// CheckOK indicates the check passed.
	CheckOK CheckStatus = iota
	// CheckWarning indicates a non-critical issue.
	CheckWarning
	// CheckError indicates a critical failure.
	CheckError
	// CheckSkipped indicates the check was skipped.
	CheckSkipped
)

// String returns the status name.
func (s CheckStatus) String() string {
	switch s {
	case CheckOK:
		return "OK"
	case CheckWarning:
		return "WARN"
	case CheckError:
		return "ERROR"
	case CheckSkipped:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// Icon returns the status marker for display.
func (s CheckStatus) Icon() string {
	switch s {
	case CheckOK:
		return "[OK]"
	case CheckWarning:
		return "[!!]"
	case CheckError:
		return "[XX]"
	case CheckSkipped:
		return "[--]"
	default:
		return "[??]"
	}
}

// MarshalJSON implements json.Marshaler.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// MarshalYAML implements yaml.Marshaler.
func (s CheckStatus) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// DoctorOutput represents the doctor command output for JSON and YAML.
type DoctorOutput struct {
	Checks      []CheckResult `json:"checks" yaml:"checks"`
	HasErrors   bool          `json:"has_errors" yaml:"has_errors"`
	HasWarnings bool          `json:"has_warnings" yaml:"has_warnings"`
}

// newDoctorCmd creates the doctor command.
func (cli *CLI) newDoctorCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common issues",
		Long: `Run diagnostic checks on the resolved configuration.

The doctor command checks:
  - Configuration files
  - Base URL
  - Credentials
  - Keyring availability
  - Server connectivity

It never prompts and never sends credentials.

Examples:
  # Run diagnostics
  bugz doctor

  # For another connection, with suggested fixes
  bugz --connection gentoo doctor --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), doctorTimeout)
			defer cancel()

			output := DoctorOutput{Checks: cli.runDiagnostics(ctx)}
			for _, r := range output.Checks {
				switch r.Status {
				case CheckError:
					output.HasErrors = true
				case CheckWarning:
					output.HasWarnings = true
				}
			}

			err := cli.output.Write(output, func() {
				for _, r := range output.Checks {
					fmt.Fprintf(cli.out, "%s %s", r.Status.Icon(), r.Name)
					if r.Message != "" {
						fmt.Fprintf(cli.out, ": %s", r.Message)
					}
					fmt.Fprintln(cli.out)
					if verbose && r.Fix != "" && (r.Status == CheckError || r.Status == CheckWarning) {
						fmt.Fprintf(cli.out, "      -> %s\n", r.Fix)
					}
				}
			})
			if err != nil {
				return err
			}
			if output.HasErrors {
				return errors.New("diagnostics failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "Show suggested fixes")

	return cmd
}

func (cli *CLI) runDiagnostics(ctx context.Context) []CheckResult {
	results := []CheckResult{cli.checkConfigFiles()}

	base, baseResult := cli.checkBase()
	results = append(results, baseResult)

	cred, credResult := cli.checkCredential()
	results = append(results, credResult)
	results = append(results, cli.checkKeyring(base, cred))
	results = append(results, cli.checkServer(ctx, base))
	return results
}

func (cli *CLI) checkConfigFiles() CheckResult {
	r := CheckResult{Name: "Configuration files"}
	if len(cli.files) == 0 {
		r.Status = CheckWarning
		r.Message = "none found"
		r.Fix = "Create ~/.bugzrc with a [default] section holding base = <URL>"
		return r
	}
	r.Status = CheckOK
	r.Message = fmt.Sprintf("%d loaded, %d connection(s)", len(cli.files), len(profile.Connections(cli.chain)))
	return r
}

func (cli *CLI) checkBase() (string, CheckResult) {
	r := CheckResult{Name: "Base URL"}
	base, err := cli.resolver.ResolveBase()
	if err != nil {
		r.Status = CheckError
		r.Message = userError(err).Error()
		r.Fix = "Set base = https://bugzilla.example.org in the configuration or pass --base"
		return "", r
	}
	r.Status = CheckOK
	r.Message = base.Value + " (" + base.Source + ")"
	return base.Value, r
}

func (cli *CLI) checkCredential() (*profile.Credential, CheckResult) {
	r := CheckResult{Name: "Credentials"}
	cred, err := cli.resolver.Credential()
	if err != nil {
		r.Status = CheckError
		r.Message = err.Error()
		return nil, r
	}

	a := describeCredential(cred)
	switch a.Method {
	case "none":
		r.Status = CheckSkipped
		r.Message = "authentication disabled"
	case "api_key":
		r.Status = CheckOK
		r.Message = "API key " + a.Key + " (" + a.Source + ")"
	case "prompt":
		r.Status = CheckWarning
		r.Message = "no user configured, will prompt"
		r.Fix = "Set user = <login> or key = <API key> in the configuration"
	default:
		r.Status = CheckOK
		r.Message = fmt.Sprintf("user %s, password from %s (%s)", a.User, a.Password, a.Source)
	}
	return cred, r
}

func (cli *CLI) checkKeyring(base string, cred *profile.Credential) CheckResult {
	r := CheckResult{Name: "Keyring"}
	if err := cli.Keyring.IsAvailable(); err != nil {
		r.Status = CheckWarning
		r.Message = err.Error()
		r.Fix = "Passwords will be prompted for; use passwordcmd or an API key instead"
		return r
	}

	r.Status = CheckOK
	r.Message = "available"
	if base == "" || cred == nil || cred.User == "" || cred.HasSecret() {
		return r
	}
	if _, err := cli.Keyring.Get(keyring.Key(hostOf(base), cred.User)); err == nil {
		r.Message = "password stored for " + cred.User
	} else if errors.Is(err, keyring.ErrPasswordNotFound) {
		r.Message = "available, no password stored"
		r.Fix = "Run 'bugz login' to store one"
	}
	return r
}

func (cli *CLI) checkServer(ctx context.Context, base string) CheckResult {
	r := CheckResult{Name: "Server"}
	if base == "" {
		r.Status = CheckSkipped
		r.Message = "no base URL"
		return r
	}

	opts := []bugzilla.Option{bugzilla.WithLogger(cli.logger)}
	if cli.HTTPClient != nil {
		opts = append(opts, bugzilla.WithHTTPClient(cli.HTTPClient))
	}
	v, err := bugzilla.NewClient(base, nil, opts...).Version(ctx)
	if err != nil {
		r.Status = CheckError
		r.Message = err.Error()
		r.Fix = "Check the base URL and that the server has the REST API enabled"
		return r
	}
	r.Status = CheckOK
	r.Message = "Bugzilla " + v
	return r
}
