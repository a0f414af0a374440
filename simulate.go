package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/nstehr/overmind/agent"
	"github.com/nstehr/overmind/config"
	"github.com/nstehr/overmind/display"
	"github.com/nstehr/overmind/model"
	"github.com/nstehr/overmind/rules"
	"github.com/nstehr/overmind/sim"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	simFrames  int
	simLatency int
	simQuiet   bool
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the build order against the offline economy simulator",
		RunE:  runSimulate,
	}
	cmd.Flags().IntVarP(&simFrames, "frames", "f", 12000, "Frames to simulate")
	cmd.Flags().IntVarP(&simLatency, "latency", "l", 6, "Command latency in frames")
	cmd.Flags().BoolVarP(&simQuiet, "quiet", "q", false, "Only print the final summary")
	return cmd
}

func runSimulate(cmd *cobra.Command, args []string) error {
	titleColor := color.New(color.FgCyan, color.Bold)
	okColor := color.New(color.FgGreen)
	failColor := color.New(color.FgRed)

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	engine, err := rules.NewEngineFromScript(cfg.Script,
		rules.WithGrace(cfg.Cooldown.Grace),
		rules.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	rec := &display.Recorder{}
	a := agent.New(nil, engine,
		agent.WithDisplay(rec),
		agent.WithInterval(cfg.Evaluation.Interval),
		agent.WithLogger(logger),
	)

	simCfg := sim.DefaultConfig()
	simCfg.LatencyFrames = simLatency
	world := sim.New(simCfg)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Tick", "Rule", "Kind", "Phase", "Result"}),
	)
	issued, failed := 0, 0

	world.Run(simFrames, func(gs model.GameState, sink rules.ActionSink) {
		res := a.Step(gs, sink)
		if !res.Outcome.Fired {
			return
		}
		d := res.Outcome.Decision
		result := okColor.Sprint("issued")
		if res.Outcome.Err != nil {
			result = failColor.Sprint(rules.Reason(res.Outcome.Err))
			failed++
		} else {
			issued++
		}
		table.Append([]string{strconv.Itoa(d.Tick), d.Rule, d.Kind.String(), d.Phase.String(), result})
	})

	if !simQuiet {
		titleColor.Println("\nDecision log")
		table.Render()
	}

	titleColor.Printf("\nAfter %d frames\n", world.Tick())
	for _, line := range rec.Last() {
		fmt.Println("  " + line)
	}
	fmt.Printf("  Issued: %s  Failed: %s  Dropped by engine: %d\n",
		okColor.Sprint(issued), failColor.Sprint(failed), world.Dropped())
	return nil
}
