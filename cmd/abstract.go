package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/avpp/core/avpp"
	"github.com/kilianp07/avpp/core/events"
	"github.com/kilianp07/avpp/core/factory"
	coremetrics "github.com/kilianp07/avpp/core/metrics"
	"github.com/kilianp07/avpp/core/plant"
	"github.com/kilianp07/avpp/infra/logger"
	"github.com/kilianp07/avpp/infra/metrics"
	"github.com/kilianp07/avpp/infra/treefile"
	"github.com/kilianp07/avpp/internal/eventbus"
	"github.com/kilianp07/avpp/pkg/export"
)

var (
	treePath     string
	outDir       string
	horizon      int
	serveMetrics bool
	progress     bool
)

var abstractCmd = &cobra.Command{
	Use:   "abstract",
	Short: "Abstract every AVPP of a tree and export the results",
	RunE:  runAbstract,
}

func init() {
	abstractCmd.Flags().StringVarP(&treePath, "tree", "t", "", "tree definition file (overrides config)")
	abstractCmd.Flags().StringVarP(&outDir, "out", "o", "", "export directory (overrides config)")
	abstractCmd.Flags().IntVar(&horizon, "horizon", 0, "number of temporal steps (overrides config)")
	abstractCmd.Flags().BoolVar(&serveMetrics, "serve-metrics", false, "keep serving Prometheus metrics until interrupted")
	abstractCmd.Flags().BoolVar(&progress, "progress", false, "log every AVPP as soon as it is abstracted")
	rootCmd.AddCommand(abstractCmd)
}

func runAbstract(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if treePath != "" {
		cfg.Tree = treePath
	}
	if outDir != "" {
		cfg.Export.Dir = outDir
	}
	if horizon > 0 {
		cfg.Abstraction.Horizon = horizon
	}
	if cfg.Tree == "" {
		return errors.New("no tree definition given, use --tree or the tree config key")
	}
	log := logger.New("abstract")

	sinkCfgs := cfg.Metrics.Sinks
	addr := cfg.Metrics.PrometheusAddr
	if serveMetrics {
		if addr == "" {
			addr = ":9100"
		}
		if !hasSink(sinkCfgs, "prometheus") {
			sinkCfgs = append(sinkCfgs, factory.ModuleConfig{Type: "prometheus"})
		}
	}
	sink, err := coremetrics.NewMetricsSink(sinkCfgs)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	serveErr := make(chan error, 1)
	if addr != "" {
		go func() { serveErr <- metrics.StartPromServer(ctx, addr) }()
	}

	tree, err := treefile.Load(cfg.Tree)
	if err != nil {
		return fmt.Errorf("load tree: %w", err)
	}
	sched, err := avpp.NewScheduler(cfg.Abstraction, logger.New("scheduler"), sink)
	if err != nil {
		return err
	}
	if progress {
		bus := eventbus.NewTypedWithBuffer[events.Event](64)
		done := logProgress(bus.Subscribe(), log)
		sched.SetPublisher(bus)
		defer func() {
			bus.Close()
			<-done
		}()
	}
	rep, err := sched.Run(ctx, tree)
	if err != nil {
		return err
	}

	written, err := export.WriteFiles(cfg.Export.Dir, tree, cfg.Abstraction.Horizon, cfg.Export.Formats)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	for _, p := range written {
		log.Debugf("wrote %s", p)
	}
	if err := printReport(cmd.OutOrStdout(), tree, rep); err != nil {
		return err
	}

	if !serveMetrics {
		return nil
	}
	log.Infof("serving metrics on %s, interrupt to stop", addr)
	select {
	case <-ctx.Done():
		return <-serveErr
	case err := <-serveErr:
		return err
	}
}

func logProgress(sub <-chan events.Event, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range sub {
			switch e := ev.(type) {
			case events.NodeEvent:
				log.Infof("abstracted %s: %d steps, converged=%t (%s)", e.Node, e.Steps, e.Converged, e.Duration)
			case events.RunEvent:
				log.Infof("run %s finished: %d AVPPs, err=%v", e.RunID, e.Nodes, e.Err)
			}
		}
	}()
	return done
}

func hasSink(cfgs []factory.ModuleConfig, typ string) bool {
	for _, c := range cfgs {
		if c.Type == typ {
			return true
		}
	}
	return false
}

func printReport(w io.Writer, tree *plant.Tree, rep avpp.Report) error {
	if _, err := fmt.Fprintf(w, "run %s: %d AVPPs in %s\n", rep.RunID, len(rep.Nodes), rep.Duration); err != nil {
		return err
	}
	for _, nr := range rep.Nodes {
		n, err := tree.Node(nr.ID)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s general=%v holes=%v steps=%d converged=%t\n",
			n.Name, n.FeasibleRegions, n.Holes, nr.Steps, nr.Converged); err != nil {
			return err
		}
	}
	return nil
}
