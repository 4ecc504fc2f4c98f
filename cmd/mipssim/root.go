package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colorfulnotion/mipssim/config"
	"github.com/colorfulnotion/mipssim/log"
)

func newRootCmd() *cobra.Command {
	var (
		configPath   string
		logLevel     string
		debugModules string
	)
	cfg := config.Default()

	// inputArg lets a config file supply the input when no argument is given.
	inputArg := func(args []string) error {
		if len(args) > 0 {
			cfg.Input = args[0]
		}
		return cfg.Validate()
	}

	var rootCmd = &cobra.Command{
		Use:   "mipssim <input>",
		Short: "MIPS-subset disassembler and functional simulator",
		Long: `Decodes a file of 32-digit binary words, writes the disassembly listing
and runs the program, writing one simulation block per executed instruction.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				*cfg = *loaded
			}
			if cmd.Flags().Changed("log-level") || configPath == "" {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("debug") {
				cfg.DebugModules = debugModules
			}
			if err := log.InitLogger(cfg.LogLevel); err != nil {
				return err
			}
			log.EnableModules(cfg.DebugModules)
			log.Debug(log.CLIMonitoring, "configuration", "config", cfg.String())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := inputArg(args); err != nil {
				return err
			}
			return simulate(cfg)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "JSON run configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level (trace, debug, info, warn, error, crit)")
	rootCmd.PersistentFlags().StringVar(&debugModules, "debug", "", "Debug modules to enable (decoder,vm,trace,store,cli or all)")

	var (
		traceFile string
		storeDir  string
		maxCycles int
	)
	var runCmd = &cobra.Command{
		Use:   "run <input>",
		Short: "Disassemble and simulate, optionally recording the trace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("trace") {
				cfg.TraceFile = traceFile
			}
			if cmd.Flags().Changed("store") {
				cfg.StoreDir = storeDir
			}
			if cmd.Flags().Changed("max-cycles") {
				cfg.MaxCycles = maxCycles
			}
			if err := inputArg(args); err != nil {
				return err
			}
			return simulate(cfg)
		},
	}
	runCmd.Flags().StringVar(&traceFile, "trace", "", "Write the trace as JSON lines to this file")
	runCmd.Flags().StringVar(&storeDir, "store", "", "Record the trace in a LevelDB directory")
	runCmd.Flags().IntVar(&maxCycles, "max-cycles", 0, "Stop after this many cycles (0 = unlimited)")

	var toStdout bool
	var disasmCmd = &cobra.Command{
		Use:   "disasm <input>",
		Short: "Write only the disassembly listing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := inputArg(args); err != nil {
				return err
			}
			if toStdout {
				return disassemble(cfg, cmd.OutOrStdout())
			}
			return disassemble(cfg, nil)
		},
	}
	disasmCmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the listing instead of writing the disassembly file")

	var verifyCmd = &cobra.Command{
		Use:   "verify <input> <expected.jsonl>",
		Short: "Run the input and compare its trace with a recorded one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := inputArg(args[:1]); err != nil {
				return err
			}
			return verify(cfg, args[1], cmd.OutOrStdout())
		},
	}

	var htmlPath string
	var flowCmd = &cobra.Command{
		Use:   "cfg <input>",
		Short: "Print the control-flow graph, optionally as an HTML page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := inputArg(args); err != nil {
				return err
			}
			return showControlFlow(cfg, htmlPath, cmd.OutOrStdout())
		},
	}
	flowCmd.Flags().StringVar(&htmlPath, "html", "", "Write the graph page to this file")

	var cycle int
	var inspectCmd = &cobra.Command{
		Use:   "inspect <storedir>",
		Short: "Show a run recorded with run --store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(args[0], cycle, cmd.OutOrStdout())
		},
	}
	inspectCmd.Flags().IntVar(&cycle, "cycle", 0, "Print the simulation block of this cycle")

	var debugCmd = &cobra.Command{
		Use:   "debug <input>",
		Short: "Step through the program in an interactive JavaScript console",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := inputArg(args); err != nil {
				return err
			}
			p, err := loadProgram(cfg.Input)
			if err != nil {
				return err
			}
			return runConsole(p, cmd.OutOrStdout())
		},
	}

	rootCmd.AddCommand(runCmd, disasmCmd, verifyCmd, flowCmd, inspectCmd, debugCmd)
	return rootCmd
}
