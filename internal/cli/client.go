package cli

import (
	"context"

	"github.com/xabinapal/bugz/internal/bugzilla"
	"github.com/xabinapal/bugz/internal/l10n"
	"github.com/xabinapal/bugz/internal/urlparse"
)

// newClient resolves the server and credential, asks for whatever part of
// the credential is missing and returns a client for the server.
func (cli *CLI) newClient(ctx context.Context) (*bugzilla.Client, error) {
	base, err := cli.resolver.Base()
	if err != nil {
		return nil, err
	}
	cred, err := cli.resolver.Credential()
	if err != nil {
		return nil, err
	}
	cred, err = cli.Auth.Complete(ctx, cred, hostOf(base))
	if err != nil {
		return nil, err
	}

	cli.logger.Info("%s", l10n.T("Using %s", base))

	opts := []bugzilla.Option{bugzilla.WithLogger(cli.logger)}
	if cli.HTTPClient != nil {
		opts = append(opts, bugzilla.WithHTTPClient(cli.HTTPClient))
	}
	return bugzilla.NewClient(base, cred, opts...), nil
}

// hostOf returns the host name of a base URL.
func hostOf(base string) string {
	return urlparse.Get(urlparse.Parse(base).Hostname)
}
