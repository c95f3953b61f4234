package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/specialistvlad/noirbuild/internal/ctxlog"
	"github.com/specialistvlad/noirbuild/internal/depgraph"
	"github.com/specialistvlad/noirbuild/internal/fsutil"
)

var (
	headerStyle = pterm.NewStyle(pterm.FgLightCyan, pterm.Bold)
	okStyle     = pterm.NewStyle(pterm.FgLightGreen)
)

// Run executes the command selected in the configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.cfg.Command)

	var err error
	switch a.cfg.Command {
	case CommandVersion:
		err = a.runVersion()
	case CommandDeps:
		err = a.runDeps(ctx)
	case CommandCompile:
		err = a.runCompile(ctx)
	default:
		err = fmt.Errorf("unknown command %q", a.cfg.Command)
	}

	a.logger.Debug("App.Run method finished.", "error", err)
	return err
}

func (a *App) runVersion() error {
	_, err := fmt.Fprintf(a.outW, "noirbuild %s (nargo %s expected)\n", Version, a.settings.Compiler.ExpectedVersion)
	return err
}

func (a *App) runDeps(ctx context.Context) error {
	res, err := a.manager.Resolve(ctx, a.cfg.ProjectPath)
	if err != nil {
		return err
	}
	a.logger.Info("Dependencies resolved.", "package", res.Root.Name(), "count", len(res.Graph.Names()))

	tree, err := dependencyTree(a.fa, res.Graph)
	if err != nil {
		return err
	}
	out, err := pterm.DefaultTree.WithRoot(tree).Srender()
	if err != nil {
		return fmt.Errorf("failed to render dependency tree: %w", err)
	}
	if _, err := fmt.Fprint(a.outW, out); err != nil {
		return err
	}

	_, err = fmt.Fprint(a.outW, buildOrder(res.Graph))
	return err
}

func (a *App) runCompile(ctx context.Context) error {
	a.logger.Info("🚀 Compiling project.", "path", a.cfg.ProjectPath, "backend", a.settings.Backend)
	res, err := a.manager.Compile(ctx, a.cfg.ProjectPath)
	if err != nil {
		return err
	}
	a.logger.Info("🏁 Compilation finished.", "contracts", len(res.Artifacts))

	data := pterm.TableData{{"Contract", "Functions", "Backend", "Debug"}}
	for _, art := range res.Artifacts {
		debug := "-"
		if art.Debug != nil {
			debug = strconv.Itoa(len(art.Debug.FileMap)) + " files"
		}
		data = append(data, []string{
			okStyle.Sprint(art.ContractName),
			strconv.Itoa(len(art.Functions)),
			art.Backend,
			debug,
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithHeaderStyle(headerStyle).WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render artifact table: %w", err)
	}
	_, err = fmt.Fprintln(a.outW, table)
	return err
}

// dependencyTree renders the graph below its root with the number of source
// files of each package. Shared packages appear once under every dependent.
func dependencyTree(fa *fsutil.FileAccess, g *depgraph.Graph) (pterm.TreeNode, error) {
	sources := make(map[string]int)
	for _, pkg := range g.Packages() {
		files, err := pkg.SourceFiles(fa)
		if err != nil {
			return pterm.TreeNode{}, fmt.Errorf("failed to list sources of %s: %w", pkg.Name(), err)
		}
		sources[pkg.ID()] = len(files)
	}

	var walk func(id, label string) pterm.TreeNode
	walk = func(id, label string) pterm.TreeNode {
		node := pterm.TreeNode{Text: fmt.Sprintf("%s, %d sources", label, sources[id])}
		deps := g.Dependencies(id)
		names := make([]string, 0, len(deps))
		for name := range deps {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			child := deps[name]
			node.Children = append(node.Children, walk(child.ID(), fmt.Sprintf("%s (%s)", name, child.ID())))
		}
		return node
	}

	root := g.Root()
	return walk(root.ID(), fmt.Sprintf("%s [%s] (%s)", root.Name(), root.Kind(), root.ID())), nil
}

// buildOrder lists packages dependencies first, each with the packages
// that use it.
func buildOrder(g *depgraph.Graph) string {
	var b strings.Builder
	b.WriteString(headerStyle.Sprint("Build order") + "\n")
	for i, id := range g.Order() {
		pkg, ok := g.Package(id)
		if !ok {
			continue
		}
		name, ok := g.NameOf(id)
		if !ok {
			name = pkg.Name()
		}

		var users []string
		for _, dep := range g.Dependents(id) {
			users = append(users, dep.Name())
		}
		line := fmt.Sprintf("%d. %s", i+1, name)
		if len(users) > 0 {
			line += " <- " + strings.Join(users, ", ")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
