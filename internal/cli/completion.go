package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// completionShell describes one supported shell: how to emit its script and
// where a user installs it.
type completionShell struct {
	name    string
	install string
	gen     func(root *cobra.Command, w io.Writer) error
}

var completionShells = []completionShell{
	{
		name:    "bash",
		install: `source <(archdiagram completion bash)`,
		gen:     func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	},
	{
		name:    "zsh",
		install: `archdiagram completion zsh > "${fpath[1]}/_archdiagram"   # needs compinit`,
		gen:     func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	},
	{
		name:    "fish",
		install: `archdiagram completion fish > ~/.config/fish/completions/archdiagram.fish`,
		gen:     func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	},
	{
		name:    "powershell",
		install: `archdiagram completion powershell | Out-String | Invoke-Expression`,
		gen:     func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	},
}

func completionHelp() string {
	var b strings.Builder
	b.WriteString("Print a completion script for archdiagram. Completions cover subcommands\n")
	b.WriteString("and their flags.\n\nInstall:\n")
	for _, sh := range completionShells {
		fmt.Fprintf(&b, "  %-11s %s\n", sh.name+":", sh.install)
	}
	return b.String()
}

// completionCommand prints a shell completion script to stdout.
func (c *CLI) completionCommand() *cobra.Command {
	names := make([]string, len(completionShells))
	for i, sh := range completionShells {
		names[i] = sh.name
	}

	return &cobra.Command{
		Use:                   "completion [" + strings.Join(names, "|") + "]",
		Short:                 "Print a shell completion script",
		Long:                  completionHelp(),
		DisableFlagsInUseLine: true,
		ValidArgs:             names,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, sh := range completionShells {
				if sh.name == args[0] {
					return sh.gen(cmd.Root(), cmd.OutOrStdout())
				}
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}
