package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/notargets/doflayout/doflayout"
	"github.com/notargets/doflayout/elementfile"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var (
		sub     []int
		closure bool
	)
	cmd := &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Print the dof layout of element files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				l, name, err := c.build(path)
				if err != nil {
					return err
				}
				if err = printLayout(cmd.OutOrStdout(), name, l, sub, closure); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&sub, "sub", nil, "sub-layout path to print, e.g. 0,1")
	cmd.Flags().BoolVar(&closure, "closure", false, "print entity and closure dof tables")
	return cmd
}

func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate element files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				l, _, err := c.build(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%v, %d dofs)\n", path, l.CellType(), l.NumDofs())
			}
			return nil
		},
	}
}

func (c *CLI) build(path string) (*doflayout.Layout, string, error) {
	start := time.Now()
	f, err := elementfile.Load(path)
	if err != nil {
		return nil, "", err
	}
	l, err := f.Build(doflayout.WithLogger(c.Logger))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	c.Logger.Debug("built element", "file", path, "dofs", l.NumDofs(),
		"elapsed", time.Since(start).Round(time.Microsecond))
	name := f.Name
	if name == "" {
		name = path
	}
	return l, name, nil
}

func printLayout(w io.Writer, name string, l *doflayout.Layout, sub []int, closure bool) error {
	fmt.Fprintln(w, headingStyle.Render(name))
	target := l
	if len(sub) > 0 {
		var err error
		if target, err = l.SubDofmap(sub); err != nil {
			return err
		}
		view, err := l.SubView(sub)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Sub-layout %v, root dofs %v\n", sub, view)
	}
	fmt.Fprint(w, target.String())
	if closure {
		printTables(w, target)
	}
	return nil
}

func printTables(w io.Writer, l *doflayout.Layout) {
	entity := l.EntityDofsAll()
	closure := l.EntityClosureDofsAll()
	for d := range entity {
		fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Dimension %d", d)))
		for e := range entity[d] {
			fmt.Fprintf(w, "  entity %d: dofs %v closure %v\n", e, entity[d][e], closure[d][e])
		}
	}
}
