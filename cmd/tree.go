package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/avpp/core/plant"
	"github.com/kilianp07/avpp/infra/treefile"
)

var treeCmd = &cobra.Command{
	Use:   "tree [file]",
	Short: "Validate a tree definition and print its hierarchy",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := cfg.Tree
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no tree definition given")
	}
	tree, err := treefile.Load(path)
	if err != nil {
		return err
	}
	for _, root := range tree.Roots() {
		if err := printNode(cmd.OutOrStdout(), tree, root, 0); err != nil {
			return err
		}
	}
	return nil
}

func printNode(w io.Writer, tree *plant.Tree, id plant.ID, depth int) error {
	n, err := tree.Node(id)
	if err != nil {
		return err
	}
	line := strings.Repeat("  ", depth) + n.Name
	switch {
	case n.Boundaries != nil:
		line += fmt.Sprintf(" %v", *n.Boundaries)
	case n.FeasibleRegions != nil:
		line += fmt.Sprintf(" %v", n.FeasibleRegions)
	}
	if len(n.Constraints) > 0 {
		cs := make([]string, len(n.Constraints))
		for i, c := range n.Constraints {
			cs[i] = c.String()
		}
		line += " " + strings.Join(cs, ",")
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := printNode(w, tree, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
