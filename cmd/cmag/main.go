package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/hoopoe/cmag/app"
	F "github.com/hoopoe/cmag/fluid"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"
)

const ENV_PREFIX = "CMAG"

var levels = map[string]jww.Threshold{
	"trace":    jww.LevelTrace,
	"debug":    jww.LevelDebug,
	"info":     jww.LevelInfo,
	"warn":     jww.LevelWarn,
	"error":    jww.LevelError,
	"critical": jww.LevelCritical,
}

//cli - state shared by the subcommands of one invocation
type cli struct {
	v       *viper.Viper
	log     *jww.Notepad
	prof    interface{ Stop() }
	logFile *os.File
}

func newCli() *cli {
	return &cli{v: viper.New(), log: F.DiscardLog()}
}

func main() {
	c := newCli()
	err := c.rootCmd().Execute()
	c.close()
	if err != nil {
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cmag",
		Short: "Weakly compressible SPH simulation of start-up Poiseuille channel flow",
		Long: `cmag steps a channel of fluid particles between two walls of boundary
particles, driven along x by a body force. Scenarios are INI files with a
[Scenario] section (see 'cmag example-config'); without one the demo channel
is used. Every flag can also be set as CMAG_<FLAG>, dashes as underscores.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "[Scenario] file, the demo channel when empty")
	pf.String("log-level", "info", "stderr threshold: trace, debug, info, warn, error or critical")
	pf.String("log-file", "", "also write debug and above to this file")
	pf.Int("workers", 0, "goroutines of the parallel passes, 0 for GOMAXPROCS")
	pf.String("profile", "", "cpu or mem profiling")
	pf.String("profile-dir", ".", "directory of the profile output")
	c.v.BindPFlags(pf)

	c.v.SetEnvPrefix(ENV_PREFIX)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root.AddCommand(c.runCmd(), c.dumpCmd(), c.profileCmd(), exampleConfigCmd())
	return root
}

func parseLevel(s string) (jww.Threshold, error) {
	t, ok := levels[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return t, nil
}

//setup builds the notepad and starts profiling
func (c *cli) setup(stderr io.Writer) error {
	level, err := parseLevel(c.v.GetString("log-level"))
	if err != nil {
		return err
	}

	logThreshold, logHandle := jww.LevelFatal, io.Discard
	if fname := c.v.GetString("log-file"); fname != "" {
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		c.logFile = f
		logThreshold, logHandle = jww.LevelDebug, f
	}
	c.log = jww.NewNotepad(level, logThreshold, stderr, logHandle, "cmag", log.Ltime|log.Lmicroseconds)

	dir := c.v.GetString("profile-dir")
	switch mode := c.v.GetString("profile"); mode {
	case "":
	case "cpu":
		c.prof = profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.NoShutdownHook)
	case "mem":
		c.prof = profile.Start(profile.MemProfile, profile.ProfilePath(dir), profile.NoShutdownHook)
	default:
		return fmt.Errorf("unknown profile mode %q, want cpu or mem", mode)
	}
	return nil
}

func (c *cli) close() {
	if c.prof != nil {
		c.prof.Stop()
		c.prof = nil
	}
	if c.logFile != nil {
		c.logFile.Close()
		c.logFile = nil
	}
}

//config - the scenario file or the demo channel, with the workers override
func (c *cli) config() (F.Config, error) {
	con := &app.DefaultScenarioWrapper().Scenario
	if fname := c.v.GetString("config"); fname != "" {
		var err error
		if con, err = app.ReadScenario(fname); err != nil {
			return F.Config{}, err
		}
	}
	if w := c.v.GetInt("workers"); w > 0 {
		con.Workers = w
	}
	return con.Config(c.log), nil
}

func (c *cli) channel() (*F.ChannelFlow, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return F.NewChannelFlow(cfg)
}

func exampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example-config",
		Short: "Prints an example [Scenario] file to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.ExampleScenarioFile)
			return err
		},
	}
}
