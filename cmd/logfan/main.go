package main

import (
	"fmt"
	"os"

	"github.com/logfan/logfan/internal/config"
	"github.com/logfan/logfan/pkg/dispatch"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logfan",
		Short: "Logfan - Declarative multi-sink log dispatch",
		Long: `Logfan routes log records from named loggers to console and file
sinks, driven by a JSON or YAML configuration document.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	// Add configuration flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "Logging configuration document path")
	rootCmd.PersistentFlags().String("default-logger", "", "Fallback logger for records naming an unknown logger")
	rootCmd.PersistentFlags().Bool("diagnostics", false, "Report swallowed sink write failures on stderr")

	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newEmitCommand())

	return rootCmd
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a logging configuration document",
		Long: `Check parses the configuration document and reports every schema,
reference and pattern violation in one pass. Sinks are not opened, so
checking never creates or truncates log files.`,
		RunE: runCheck,
	}
}

func newEmitCommand() *cobra.Command {
	emitCmd := &cobra.Command{
		Use:   "emit",
		Short: "Emit one record through the configured sinks",
		RunE:  runEmit,
	}

	emitCmd.Flags().StringP("logger", "l", dispatch.DefaultLoggerName, "Logger name to emit against")
	emitCmd.Flags().StringP("level", "s", "INFO", "Record severity (DEBUG, INFO, WARNING, ERROR, CRITICAL)")
	emitCmd.Flags().StringP("message", "m", "", "Message text")
	emitCmd.Flags().StringP("function", "f", "", "Originating function name")
	emitCmd.Flags().Bool("stats", false, "Print dispatch counters after emitting")
	emitCmd.MarkFlagRequired("message")

	return emitCmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	doc, err := dispatch.LoadFile(cfg.Document)
	if err != nil {
		return err
	}

	if err := dispatch.Validate(doc); err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d formatters, %d handlers, %d loggers\n",
		cfg.Document, len(doc.Formatters), len(doc.Handlers), len(doc.Loggers))
	return nil
}

func runEmit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	levelText, _ := cmd.Flags().GetString("level")
	severity, err := dispatch.ParseSeverity(levelText)
	if err != nil {
		return err
	}
	loggerName, _ := cmd.Flags().GetString("logger")
	message, _ := cmd.Flags().GetString("message")
	function, _ := cmd.Flags().GetString("function")

	doc, err := dispatch.LoadFile(cfg.Document)
	if err != nil {
		return err
	}

	eng, err := dispatch.New(doc, engineOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("invalid logging configuration: %w", err)
	}
	defer eng.Close()

	eng.Emit(loggerName, severity, message, function)

	if showStats, _ := cmd.Flags().GetBool("stats"); showStats {
		printStats(cmd, eng.Stats())
	}
	return nil
}

func engineOptions(cfg *config.Config) []dispatch.Option {
	opts := []dispatch.Option{dispatch.WithDefaultLogger(cfg.DefaultLogger)}
	if cfg.Diagnostics {
		opts = append(opts, dispatch.WithDiagnostics(os.Stderr))
	}
	return opts
}

func printStats(cmd *cobra.Command, st dispatch.Stats) {
	out := cmd.OutOrStdout()

	var emitted uint64
	for _, n := range st.Emitted {
		emitted += n
	}
	fmt.Fprintf(out, "emitted: %d\n", emitted)
	fmt.Fprintf(out, "dropped by logger level: %d\n", st.DroppedByLoggerLevel)
	fmt.Fprintf(out, "dropped by handler level: %d\n", st.DroppedByHandlerLevel)
	fmt.Fprintf(out, "unknown loggers: %d\n", st.UnknownLogger)
}
