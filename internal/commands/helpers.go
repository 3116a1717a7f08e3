package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/plume/internal/capability"
	"github.com/simonhull/firebird-suite/plume/internal/config"
	"github.com/simonhull/firebird-suite/plume/internal/logger"
	"github.com/simonhull/firebird-suite/plume/internal/output"
	"github.com/simonhull/firebird-suite/plume/internal/pipeline"
	"github.com/simonhull/firebird-suite/plume/internal/plugin"
	"github.com/simonhull/firebird-suite/plume/internal/plugins/service"
	"github.com/simonhull/firebird-suite/plume/internal/types"
)

// session is everything a command needs for one run
type session struct {
	cfg      *config.Config
	catalog  *types.Catalog
	log      logger.Logger
	pipeline *pipeline.Pipeline
}

func newSession(cmd *cobra.Command) (*session, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("building type catalog: %w", err)
	}

	level := cfg.LogLevel()
	if output.IsVerbose() {
		level = logger.LevelDebug
	}
	log := logger.NewLogger(level, cmd.ErrOrStderr())

	plugins, err := plugin.NewSet(service.New(cfg.Stereotypes))
	if err != nil {
		return nil, err
	}

	p, err := pipeline.New(cfg, plugins, catalog, pipeline.WithLogger(log))
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, catalog: catalog, log: log, pipeline: p}, nil
}

// augment loads the models named by args (files, or directories to search
// with the configured globs) and runs the pass over them.
func (s *session) augment(cmd *cobra.Command, args []string) ([]*capability.Augmented, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := s.pipeline.Discover(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}

	output.Verbose(fmt.Sprintf("Loading %d model file(s)", len(paths)))
	models, err := s.pipeline.Load(paths...)
	if err != nil {
		return nil, err
	}

	var augmented []*capability.Augmented
	err = output.Spin(cmd.ErrOrStderr(), fmt.Sprintf("Augmenting %d model(s)", len(models)), func() error {
		var err error
		augmented, err = s.pipeline.Run(cmd.Context(), models...)
		return err
	})
	return augmented, err
}
