package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xabinapal/bugz/internal/bugzilla"
	"github.com/xabinapal/bugz/internal/l10n"
)

// ErrFileExists is returned instead of overwriting a file with a
// downloaded attachment.
var ErrFileExists = errors.New("file already exists")

// attachmentOutput is printed for -o json and -o yaml. Data is not part of
// it; the file is written or shown instead.
type attachmentOutput struct {
	bugzilla.Attachment `yaml:",inline"`
	SavedAs             string `json:"saved_as,omitempty" yaml:"saved_as,omitempty"`
}

// newAttachmentCmd creates the attachment command.
func (cli *CLI) newAttachmentCmd() *cobra.Command {
	var view bool

	cmd := &cobra.Command{
		Use:   "attachment ID",
		Short: "Download an attachment",
		Long: `Download an attachment and save it under its file name in the current
directory, or write it to standard output with --view. An existing file is
never overwritten.

Examples:
  # Save attachment 1234
  bugz attachment 1234

  # Read a log without saving it
  bugz attachment 1234 --view | less`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBugID(args[0])
			if err != nil {
				return fmt.Errorf("invalid attachment id %q", args[0])
			}
			return cli.runAttachment(cmd.Context(), id, view)
		},
	}

	cmd.Flags().BoolVarP(&view, "view", "v", false, "Write the attachment to standard output")

	return cmd
}

func (cli *CLI) runAttachment(ctx context.Context, id int, view bool) error {
	client, err := cli.newClient(ctx)
	if err != nil {
		return err
	}
	cli.logger.Info("%s", l10n.T("Getting attachment %d ..", id))

	a, err := client.GetAttachment(ctx, id)
	if err != nil {
		return err
	}

	if view {
		cli.logger.Info("%s", l10n.T("Viewing attachment: %s", a.FileName))
		_, err := cli.out.Write(a.Data)
		return err
	}

	name := filepath.Base(a.FileName)
	if name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("attachment %d has no usable file name", id)
	}
	cli.logger.Info("%s", l10n.T("Saving attachment: %s", name))

	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrFileExists, name)
	}
	if err != nil {
		return err
	}
	_, err = f.Write(a.Data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}

	out := attachmentOutput{Attachment: *a, SavedAs: name}
	out.Data = nil
	return cli.output.Write(out, func() {})
}
