package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/docstore/internal/platform"
	"github.com/aretw0/docstore/pkg/codec"
	"github.com/aretw0/docstore/pkg/core"
)

// cli carries the configuration shared by every subcommand.
// Values come from flags first, then DOCSTORE_* variables, then .env files.
type cli struct {
	v      *viper.Viper
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New(), logger: slog.Default()}

	root := &cobra.Command{
		Use:   "docstore",
		Short: "A document store with pluggable backends",
		Long: `docstore reads and writes schemaless documents in collections and
replicates whole stores between backends (directory, SQLite, Badger, Redis, MongoDB).

Stores are addressed by URI: a bare path, fs://, memory://, sqlite://, badger://,
redis:// or mongodb://. Without --store the nearest .docstore directory is used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.init(cmd); err != nil {
				return err
			}

			level := slog.LevelInfo
			if c.v.GetBool("verbose") {
				level = slog.LevelDebug
			}
			c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(c.logger)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("store", "", "Store URI (default: nearest .docstore directory)")
	flags.String("codec", "json", "Payload codec ("+strings.Join(codec.Names(), ", ")+")")
	flags.BoolP("verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newReadCmd(c),
		newWriteCmd(c),
		newDeleteCmd(c),
		newListCmd(c),
		newSyncCmd(c),
		newVersionCmd(),
	)
	return root
}

func (c *cli) init(cmd *cobra.Command) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	c.v.SetEnvPrefix("docstore")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	return c.v.BindPFlags(cmd.Flags())
}

// open builds a manager for uri, falling back to the default store when uri
// is empty.
func (c *cli) open(uri string, readOnly bool) (*core.DocumentManager, error) {
	cd, err := codec.ByName(c.v.GetString("codec"))
	if err != nil {
		return nil, err
	}
	if uri == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		uri = platform.DefaultStore(wd)
	}
	return platform.Open(uri,
		platform.WithCodec(cd),
		platform.WithLogger(c.logger),
		platform.WithReadOnly(readOnly),
	)
}

// store opens the store named by --store.
func (c *cli) store(readOnly bool) (*core.DocumentManager, error) {
	return c.open(c.v.GetString("store"), readOnly)
}
