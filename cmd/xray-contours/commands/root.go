package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ironsheep/xray-contours/internal/config"
	"github.com/ironsheep/xray-contours/internal/imaging"
	"github.com/ironsheep/xray-contours/internal/logging"
	"github.com/ironsheep/xray-contours/internal/pipeline"
)

// BuildInfo carries the version variables injected at link time.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// state is shared by the root command and its subcommands.
type state struct {
	build BuildInfo

	envFiles []string
	logLevel string
	flags    pipelineFlags

	cfg *config.Config
	log zerolog.Logger
}

// pipelineFlags mirrors the pipeline parameters as command-line flags.
type pipelineFlags struct {
	blur        int
	block       int
	constant    int
	closing     int
	color       string
	retrieval   string
	approx      string
	morphBorder string
	outputDir   string
}

// Execute builds the command tree and runs it against os.Args.
func Execute(info BuildInfo) error {
	return newRootCmd(info).Execute()
}

func newRootCmd(info BuildInfo) *cobra.Command {
	st := &state{build: info}

	root := &cobra.Command{
		Use:          "xray-contours",
		Short:        "Find and highlight object contours in radiographs",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringSliceVar(&st.envFiles, "env-file", nil, "env file(s) to load (default ./.env if present)")
	pf.StringVar(&st.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides "+config.EnvLogLevel+")")
	pf.IntVar(&st.flags.blur, "blur", 0, "Gaussian blur kernel size (odd)")
	pf.IntVar(&st.flags.block, "block", 0, "adaptive threshold block size (odd)")
	pf.IntVar(&st.flags.constant, "c", 0, "constant subtracted from the adaptive mean")
	pf.IntVar(&st.flags.closing, "closing", 0, "closing structuring element size (odd)")
	pf.StringVar(&st.flags.color, "color", "", "highlight color, name or hex")
	pf.StringVar(&st.flags.retrieval, "retrieval", "", "contour retrieval: all or external")
	pf.StringVar(&st.flags.approx, "approx", "", "contour approximation: none or simple")
	pf.StringVar(&st.flags.morphBorder, "morph-border", "", "closing border policy: background or ignore")
	pf.StringVarP(&st.flags.outputDir, "output", "o", "", "output directory (default "+config.DefaultOutputDir+")")

	root.AddCommand(runCmd(st), serveCmd(st), versionCmd(st))
	return root
}

// load resolves the configuration and logger for cmd.
func (st *state) load(cmd *cobra.Command) error {
	cfg, err := config.Load(st.envFiles...)
	if err != nil {
		return err
	}
	if err := st.applyFlags(cmd, cfg); err != nil {
		return err
	}

	level := cfg.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = st.logLevel
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}

	st.cfg = cfg
	st.log = logging.NewConsole(cmd.ErrOrStderr(), lvl)
	return nil
}

// applyFlags copies explicitly set flags over cfg and revalidates it.
func (st *state) applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	set := cmd.Flags().Changed
	p := &cfg.Pipeline
	f := st.flags

	if set("blur") {
		p.BlurKernelSize = f.blur
	}
	if set("block") {
		p.AdaptiveBlockSize = f.block
	}
	if set("c") {
		p.AdaptiveConstant = f.constant
	}
	if set("closing") {
		p.ClosingKernelSize = f.closing
	}
	if set("color") {
		c, err := imaging.ParseColor(f.color)
		if err != nil {
			return err
		}
		p.HighlightColor = c
	}
	if set("retrieval") {
		m, err := pipeline.ParseRetrievalMode(f.retrieval)
		if err != nil {
			return err
		}
		p.Retrieval = m
	}
	if set("approx") {
		a, err := pipeline.ParseApproximation(f.approx)
		if err != nil {
			return err
		}
		p.Approximation = a
	}
	if set("morph-border") {
		b, err := pipeline.ParseMorphBorder(f.morphBorder)
		if err != nil {
			return err
		}
		p.MorphBorder = b
	}
	if set("output") {
		cfg.OutputDir = f.outputDir
	}
	return p.Validate()
}
