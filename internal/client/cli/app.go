package cli

import (
	"bufio"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/dmitrijs2005/sbxcloud/internal/client/cloud"
	"github.com/dmitrijs2005/sbxcloud/internal/client/config"
	"github.com/dmitrijs2005/sbxcloud/internal/client/services"
	"github.com/dmitrijs2005/sbxcloud/internal/logging"
	"github.com/dmitrijs2005/sbxcloud/internal/mirror"
	"github.com/dmitrijs2005/sbxcloud/internal/scanner"
)

// Streams groups the process's standard streams.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type App struct {
	config        *config.Config
	fs            afero.Fs
	client        cloud.Client
	deployService services.DeployService
	logger        logging.Logger
	reader        *bufio.Reader
	out           io.Writer
	errOut        io.Writer
}

// NewApp wires the production dependencies: the OS filesystem and the HTTP
// client for cfg.APIBaseURL.
func NewApp(cfg *config.Config, streams Streams) *App {
	fs := afero.NewOsFs()
	client := cloud.New(cloud.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
		Fs:      fs,
	})
	return newApp(cfg, client, fs, streams)
}

func newApp(cfg *config.Config, client cloud.Client, fs afero.Fs, streams Streams) *App {
	logger := logging.New(streams.Err, cfg.LogLevel).With("run", uuid.NewString())
	return &App{
		config:        cfg,
		fs:            fs,
		client:        client,
		deployService: services.NewDeployService(client, logger),
		logger:        logger,
		reader:        bufio.NewReader(streams.In),
		out:           streams.Out,
		errOut:        streams.Err,
	}
}

func (a *App) newScanner() (*scanner.Scanner, error) {
	rules, err := scanner.NewIgnoreRuleSet(a.config.Ignore)
	if err != nil {
		return nil, err
	}
	return scanner.New(a.fs, rules, a.logger), nil
}

func (a *App) newOrchestrator() *mirror.Orchestrator {
	return mirror.New(a.client, a.fs, a.logger, mirror.Options{
		Concurrency:  a.config.Concurrency,
		SkipExisting: a.config.SkipExisting,
		Progress:     a.out,
	})
}
