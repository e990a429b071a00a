package cli

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xabinapal/bugz/internal/bugzilla"
	"github.com/xabinapal/bugz/internal/l10n"
)

// attachOptions are the flags of the attach command.
type attachOptions struct {
	contentType string
	description string
	title       string
	patch       bool
}

// attachOutput is printed for -o json and -o yaml.
type attachOutput struct {
	ID          int    `json:"id" yaml:"id"`
	Bug         int    `json:"bug" yaml:"bug"`
	FileName    string `json:"file_name" yaml:"file_name"`
	Summary     string `json:"summary" yaml:"summary"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
}

// newAttachCmd creates the attach command.
func (cli *CLI) newAttachCmd() *cobra.Command {
	var opts attachOptions

	cmd := &cobra.Command{
		Use:   "attach BUG FILE",
		Short: "Attach a file to a bug",
		Long: `Attach a file to a bug.

The content type is guessed from the file name and contents unless
--content-type is given. The title defaults to the file name. Without
--description, a description is asked for; leave it empty to attach the file
without one.

Examples:
  # Attach a build log
  bugz attach 35 build.log

  # Attach a patch
  bugz attach 35 fix.patch --patch -t "Proposed fix"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBugID(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("description") {
				opts.description = cli.ask(l10n.T("Enter optional description for attachment: "))
			}
			return cli.runAttach(cmd.Context(), id, args[1], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.contentType, "content-type", "c", "", "Content type of the file (guessed by default)")
	f.StringVar(&opts.description, "description", "", "Description of the attachment")
	f.BoolVar(&opts.patch, "patch", false, "The file is a patch")
	f.StringVarP(&opts.title, "title", "t", "", "Title of the attachment (the file name by default)")

	return cmd
}

func (cli *CLI) runAttach(ctx context.Context, id int, path string, opts attachOptions) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", path, err)
	}

	a := bugzilla.NewAttachment{
		Summary:     opts.title,
		FileName:    filepath.Base(path),
		Comment:     opts.description,
		IsPatch:     opts.patch,
		ContentType: opts.contentType,
		Data:        data,
	}
	if a.Summary == "" {
		a.Summary = a.FileName
	}
	if a.IsPatch {
		a.ContentType = ""
	} else if a.ContentType == "" {
		a.ContentType = detectContentType(a.FileName, data)
	}

	client, err := cli.newClient(ctx)
	if err != nil {
		return err
	}
	ids, err := client.AddAttachment(ctx, id, a)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no attachment was created on bug %d", id)
	}
	cli.logger.Info("%s", l10n.T("%s (%d) has been attached to bug %d", a.FileName, ids[0], id))

	out := attachOutput{ID: ids[0], Bug: id, FileName: a.FileName, Summary: a.Summary, ContentType: a.ContentType}
	return cli.output.Write(out, func() {
		fmt.Fprintf(cli.out, "[Attachment] [%d] [%s]\n", out.ID, out.Summary)
	})
}

// detectContentType guesses a MIME type from the file extension, then
// from the first bytes of data.
func detectContentType(name string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	t := http.DetectContentType(data)
	if strings.HasPrefix(t, "text/plain") {
		return "text/plain"
	}
	return t
}
