package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gilby125/hotel-availability/api"
	"github.com/gilby125/hotel-availability/config"
	"github.com/gilby125/hotel-availability/engine"
	"github.com/gilby125/hotel-availability/pkg/buildinfo"
	"github.com/gilby125/hotel-availability/pkg/logger"
	"github.com/spf13/cobra"
)

// errInvalid marks a rejected document whose envelope was already printed.
var errInvalid = errors.New("request rejected")

// serviceFactory builds the hotel service and a cleanup func.
type serviceFactory func(ctx context.Context, verbose bool) (api.HotelService, func(), error)

func defaultService(ctx context.Context, verbose bool) (api.HotelService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LoggingConfig.Level
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Format: "text", Output: os.Stderr})

	services, err := engine.Build(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return services.Engine, func() { _ = services.Close() }, nil
}

type cli struct {
	newService serviceFactory
	file       string
	verbose    bool
	pretty     bool
}

func newRootCmd(factory serviceFactory) *cobra.Command {
	c := &cli{newService: factory}

	root := &cobra.Command{
		Use:           "hotelctl",
		Short:         "Validate, convert and run hotel availability requests",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&c.file, "file", "f", "-", "XML document to read, - for stdin")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log debug output to stderr")
	root.PersistentFlags().BoolVar(&c.pretty, "pretty", true, "Indent JSON output")

	root.AddCommand(c.processCmd(), c.validateCmd(), c.parseCmd(), versionCmd())
	return root
}

func (c *cli) processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Validate an AvailRQ document, search the supplier and print priced offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.read(cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, cleanup, err := c.newService(cmd.Context(), c.verbose)
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := svc.Process(cmd.Context(), data)
			if err != nil {
				return err
			}
			return c.write(cmd.OutOrStdout(), resp)
		},
	}
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate an AvailRQ document and print the result envelope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runKind(cmd, engine.KindSearchRequest)
		},
	}
}

func (c *cli) parseCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Run a request kind over an XML document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := engine.ParseKind(kind)
			if err != nil {
				return err
			}
			return c.runKind(cmd, k)
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", string(engine.KindXMLToJSON), "Request kind: search_req or xml_to_json")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hotelctl %s\n", buildinfo.String())
		},
	}
}

func (c *cli) runKind(cmd *cobra.Command, kind engine.Kind) error {
	data, err := c.read(cmd.InOrStdin())
	if err != nil {
		return err
	}
	svc, cleanup, err := c.newService(cmd.Context(), c.verbose)
	if err != nil {
		return err
	}
	defer cleanup()

	result := svc.Parse(kind, data)
	if err := c.write(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if !result.OK() {
		return errInvalid
	}
	return nil
}

func (c *cli) read(stdin io.Reader) ([]byte, error) {
	if c.file == "" || c.file == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(c.file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.file, err)
	}
	return data, nil
}

func (c *cli) write(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	if c.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
