package climb

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/climb/pkg/climb"
)

func exploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [cli-name]",
		Short: "Interactively navigate a CLI's command tree and run an action",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(cmd, args)
		},
	}
}

func runExplore(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("explore requires an interactive terminal; pipe into `climb run` instead")
	}

	ctx := cmd.Context()
	cfg := loadConfig()

	cliName, err := resolveExploreTarget(ctx, args)
	if err != nil {
		return err
	}

	engine := climb.New(climb.EngineOptions{
		DefaultArgs:            cfg.DefaultArgs,
		IntrospectionTTLMs:     cfg.CacheTTL.OutputMs,
		IntrospectionTimeoutMs: cfg.Timeouts.IntrospectionMs,
	})

	root, err := engine.Introspect(ctx, cliName)
	if err != nil {
		return fmt.Errorf("introspecting %s: %w", cliName, err)
	}

	return navigate(cmd, engine, cliName, nil, root)
}

// resolveExploreTarget returns the CLI name to introspect: the positional
// argument if given, or a huh.Select over a fresh discovery pass.
func resolveExploreTarget(ctx context.Context, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	results, err := climb.Discover(ctx, climb.DiscoverOptions{})
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", fmt.Errorf("no CLIs discovered on PATH; pass a name explicitly")
	}

	opts := make([]huh.Option[string], 0, len(results))
	for _, r := range results {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", r.Name, r.Category), r.Name))
	}

	var chosen string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Select a CLI to explore").
			Options(opts...).
			Value(&chosen),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return chosen, nil
}

// navigate walks the CommandNode tree: at each level the user either picks
// a child subcommand (expanding it lazily if unexplored), runs the current
// node, or goes back up. This is the reference consumer of CommandNode and
// Option the core exposes (spec §4.6) — none of this menu logic is part of
// the core itself.
func navigate(cmd *cobra.Command, engine *climb.Engine, cliName string, path []string, node climb.CommandNode) error {
	const runAction = "\x00run"
	const backAction = "\x00back"

	for {
		opts := make([]huh.Option[string], 0, len(node.Children)+2)
		opts = append(opts, huh.NewOption(fmt.Sprintf("▶ run %s %s", cliName, joinPath(path)), runAction))
		for _, child := range node.Children {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s — %s", child.Name, child.Description), child.Name))
		}
		if len(path) > 0 {
			opts = append(opts, huh.NewOption(".. back", backAction))
		}

		var choice string
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("%s %s", cliName, joinPath(path))).
				Options(opts...).
				Value(&choice),
		))
		if err := form.Run(); err != nil {
			return err
		}

		switch choice {
		case runAction:
			return runNode(cmd, engine, cliName, path, node)
		case backAction:
			return nil
		default:
			childPath := append(append([]string{}, path...), choice)
			child, err := engine.Expand(cmd.Context(), cliName, childPath)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "expand %s: %v\n", choice, err)
				continue
			}
			if err := navigate(cmd, engine, cliName, childPath, child); err != nil {
				return err
			}
		}
	}
}

func joinPath(path []string) string {
	out := ""
	for _, p := range path {
		out += p + " "
	}
	return out
}

// runNode prompts for each of node's options, resolves an argv, executes
// it, and prints the result.
func runNode(cmd *cobra.Command, engine *climb.Engine, cliName string, path []string, node climb.CommandNode) error {
	chosen, positionals, err := promptOptions(node)
	if err != nil {
		return err
	}

	argv := engine.ResolveArgv(cliName, path, chosen, positionals)

	res, err := climb.Run(cmd.Context(), argv[0], argv[1:], climb.RunOptions{TimeoutMs: 30000})
	if err != nil {
		return fmt.Errorf("run %v: %w", argv, err)
	}

	records := climb.ParseRecords(string(res.Stdout))
	printRecords(cmd, records)
	if len(res.Stderr) > 0 {
		fmt.Fprint(cmd.ErrOrStderr(), string(res.Stderr))
	}
	return nil
}

// promptOptions builds a huh form from node's Options, one field per
// option: a confirm for boolean flags, an input for value-taking ones.
func promptOptions(node climb.CommandNode) ([]climb.ChosenOption, []string, error) {
	if len(node.Options) == 0 {
		return nil, nil, nil
	}

	values := make([]string, len(node.Options))
	enabled := make([]bool, len(node.Options))
	var fields []huh.Field
	for i, opt := range node.Options {
		label := opt.Long
		if label == "" {
			label = opt.Short
		}
		if opt.TakesValue {
			fields = append(fields, huh.NewInput().
				Title(label+" "+opt.ValueName).
				Description(opt.Description).
				Value(&values[i]))
		} else {
			fields = append(fields, huh.NewConfirm().
				Title(label).
				Description(opt.Description).
				Value(&enabled[i]))
		}
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return nil, nil, err
	}

	var chosen []climb.ChosenOption
	for i, opt := range node.Options {
		if opt.TakesValue {
			if values[i] != "" {
				chosen = append(chosen, climb.ChosenOption{Option: opt, Value: values[i]})
			}
			continue
		}
		if enabled[i] {
			chosen = append(chosen, climb.ChosenOption{Option: opt})
		}
	}
	return chosen, nil, nil
}
