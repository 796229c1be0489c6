package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/researchaccelerator-hub/channel-chat/api"
	"github.com/researchaccelerator-hub/channel-chat/client"
	"github.com/researchaccelerator-hub/channel-chat/common"
	"github.com/researchaccelerator-hub/channel-chat/config"
	"github.com/researchaccelerator-hub/channel-chat/ingest"
	"github.com/researchaccelerator-hub/channel-chat/state"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "channel-chat",
		Short:         "Chat with the transcripts of a YouTube channel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(v)
			if err != nil {
				return err
			}
			if err := common.SetupLogging(loaded.LogLevel, loaded.LogFormat); err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file")
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console or json)")
	flags.Int("max-videos", 5, "Number of most recent videos to ingest per channel")
	flags.Int("transcript-concurrency", 1, "Parallel transcript fetches per channel (1 = sequential)")
	flags.Duration("provider-timeout", 30*time.Second, "Timeout applied to every upstream call")
	_ = v.BindPFlag("config", flags.Lookup("config"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log_format", flags.Lookup("log-format"))
	_ = v.BindPFlag("max_videos", flags.Lookup("max-videos"))
	_ = v.BindPFlag("transcript_concurrency", flags.Lookup("transcript-concurrency"))
	_ = v.BindPFlag("provider_timeout", flags.Lookup("provider-timeout"))

	root.AddCommand(newServeCmd(v, func() *config.Config { return cfg }))
	root.AddCommand(newIngestCmd(v, func() *config.Config { return cfg }))

	return root
}

func newServeCmd(v *viper.Viper, cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg())
		},
	}
	cmd.Flags().String("listen-addr", ":8000", "Address the HTTP API listens on")
	cmd.Flags().Bool("cache", true, "Reuse assembled channel context across requests")
	_ = v.BindPFlag("listen_addr", cmd.Flags().Lookup("listen-addr"))
	_ = v.BindPFlag("cache_enabled", cmd.Flags().Lookup("cache"))
	return cmd
}

func newIngestCmd(v *viper.Viper, cfg func() *config.Config) *cobra.Command {
	var channelsFile string

	cmd := &cobra.Command{
		Use:   "ingest [channel name...]",
		Short: "Fetch channel transcripts and write them to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			channels, err := resolveChannelNames(args, channelsFile)
			if err != nil {
				return err
			}
			return runIngest(cmd.Context(), cfg(), channels)
		},
	}
	cmd.Flags().StringVar(&channelsFile, "channels-file", "", "File with one channel name per line")
	cmd.Flags().String("output-dir", "transcripts", "Directory transcripts are written to")
	_ = v.BindPFlag("transcripts_dir", cmd.Flags().Lookup("output-dir"))
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(true); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	clients, err := client.NewClients(ctx, cfg, false)
	if err != nil {
		return fmt.Errorf("failed to create clients: %w", err)
	}
	defer func() {
		if err := clients.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Error closing clients")
		}
	}()

	sessions := state.NewSessionStore(clients.Chat, cfg.ContextChunkTokens)
	cache := state.NewTranscriptCache()
	pipeline := ingest.NewPipeline(clients.YouTube, clients.Transcripts, sessions, cache, pipelineConfig(cfg))
	server := api.NewServer(pipeline, sessions, cache, cfg.AllowedOrigins)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(cfg.ListenAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runIngest(ctx context.Context, cfg *config.Config, channels []string) error {
	if err := cfg.Validate(false); err != nil {
		return err
	}

	clients, err := client.NewClients(ctx, cfg, true)
	if err != nil {
		return fmt.Errorf("failed to create clients: %w", err)
	}
	defer clients.Close(context.Background())

	if err := os.MkdirAll(cfg.TranscriptsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create transcripts directory: %w", err)
	}

	pipeline := ingest.NewPipeline(clients.YouTube, clients.Transcripts, nil, nil, pipelineConfig(cfg))
	runID := common.GenerateRunID()
	log.Info().Str("run_id", runID).Int("channels", len(channels)).Msg("Starting transcript ingest")

	var failed []string
	for _, name := range channels {
		if err := ingestChannel(ctx, pipeline, cfg.TranscriptsDir, name); err != nil {
			log.Error().Err(err).Str("channel_name", name).Msg("Failed to ingest channel")
			failed = append(failed, name)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d channels failed: %v", len(failed), len(channels), failed)
	}
	log.Info().Str("run_id", runID).Msg("All channels processed successfully")
	return nil
}

func ingestChannel(ctx context.Context, pipeline *ingest.Pipeline, dir, name string) error {
	doc, err := pipeline.BuildContext(ctx, name)
	if err != nil {
		return err
	}

	path := transcriptPath(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := ingest.WriteTranscripts(f, doc.Entries); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Info().Str("channel_name", name).Str("path", path).Msg("Transcripts saved")
	return nil
}

// resolveChannelNames merges positional channel names with the contents of
// channelsFile. At least one name is required.
func resolveChannelNames(args []string, channelsFile string) ([]string, error) {
	names := append([]string(nil), args...)
	if channelsFile != "" {
		fromFile, err := common.ReadChannelNamesFromFile(channelsFile)
		if err != nil {
			return nil, err
		}
		names = append(names, fromFile...)
	}
	if len(names) == 0 {
		return nil, errors.New("no channels given: pass channel names or --channels-file")
	}
	return names, nil
}

func transcriptPath(dir, channelName string) string {
	return filepath.Join(dir, state.SessionKey(channelName)+"_transcripts.txt")
}

func pipelineConfig(cfg *config.Config) ingest.PipelineConfig {
	return ingest.PipelineConfig{
		MaxVideos:       cfg.MaxVideos,
		Concurrency:     cfg.TranscriptWorkers,
		ProviderTimeout: cfg.ProviderTimeout,
		CacheEnabled:    cfg.CacheEnabled,
	}
}
