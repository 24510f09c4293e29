package main

import (
	"context"
	"fmt"
	"text/tabwriter"
)

// runStyles lists style profiles and manages starred styles.
func runStyles(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseStylesFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	sub := "list"
	if len(positional) > 0 {
		sub, positional = positional[0], positional[1:]
	}

	switch sub {
	case "list", "starred":
		if len(positional) > 0 {
			return fmt.Errorf("%w: styles %s takes no arguments", ErrUsage, sub)
		}
	case "star", "unstar":
		if len(positional) != 1 {
			return fmt.Errorf("%w: styles %s needs one style key", ErrUsage, sub)
		}
	default:
		return fmt.Errorf("%w: unknown styles command %q", ErrUsage, sub)
	}

	a, err := newApp(ctx, flags.common, appOptions{}, env)
	if err != nil {
		return err
	}
	defer a.Close()

	switch sub {
	case "list":
		return listStyles(ctx, a, env, false)
	case "starred":
		return listStyles(ctx, a, env, true)
	default:
		return setStar(ctx, a, env, positional[0], sub == "star", flags.common.quiet)
	}
}

// listStyles prints one profile per line: star mark, key, display name.
func listStyles(ctx context.Context, a *app, env *Environment, starredOnly bool) error {
	def := a.conv.DefaultStyleKey()
	tw := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
	for _, s := range a.conv.Styles(ctx) {
		if starredOnly && !s.Starred {
			continue
		}
		mark := " "
		if s.Starred {
			mark = "*"
		}
		name := s.Name
		if s.Key == def {
			name += " (default)"
		}
		fmt.Fprintf(tw, "%s %s\t%s\n", mark, s.Key, name)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// setStar stars or unstars key. Toggling is skipped when the key is
// already in the wanted state.
func setStar(ctx context.Context, a *app, env *Environment, key string, want, quiet bool) error {
	for _, s := range a.conv.Styles(ctx) {
		if s.Key == key && s.Starred == want {
			if !quiet {
				fmt.Fprintf(env.Stderr, "%s is already %s\n", a.conv.StyleName(key), starWord(want))
			}
			return nil
		}
	}

	_, notes, err := a.conv.ToggleStar(ctx, key)
	printNotifications(env.Stderr, notes, quiet)
	return err
}

func starWord(starred bool) string {
	if starred {
		return "starred"
	}
	return "not starred"
}
