package cli

import (
	"github.com/spf13/cobra"

	"github.com/mhalter/nodeloom/internal/server"
	"github.com/mhalter/nodeloom/pkg/registry"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP document API",
		Long:  `Serve starts the document API: CRUD on stored documents, hit-testing against the derived layout, type resolution, and SVG rendering. The store backend comes from the TOML config file; --addr overrides the configured listen address.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			st, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()
			logger.Debug("store ready", "backend", cfg.Store.Backend)

			srv := server.New(cfg.Addr, st, registry.Builtin(), logger)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
