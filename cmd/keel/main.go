// keel serves the SQL compiler over HTTP.  It loads table definitions
// from a schema file, compiles statements posted to /query/compile, and
// never executes them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/keeldb/keel/catalog"
	"github.com/keeldb/keel/service"
	"github.com/keeldb/keel/sqltype"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	configPath string
	schemaPath string
	addr       string
	logLevel   string
)

func init() {
	flag.StringVar(&configPath, "config", "", "path to YAML config file")
	flag.StringVar(&schemaPath, "schema", "", "path to YAML table definitions")
	flag.StringVar(&addr, "l", "", "listen address (overrides config)")
	flag.StringVar(&logLevel, "log.level", "info", "zap log level")
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "keel: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	level, err := zap.ParseAtomicLevel(logLevel)
	if err != nil {
		return err
	}
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = level
	logger, err := zapConfig.Build()
	if err != nil {
		return err
	}
	defer logger.Sync()

	config := service.DefaultConfig()
	if configPath != "" {
		if config, err = service.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if addr != "" {
		config.Addr = addr
	}

	store := catalog.NewStore()
	if schemaPath != "" {
		if err := loadSchema(store, schemaPath); err != nil {
			return err
		}
		logger.Info("loaded schema",
			zap.String("path", schemaPath),
			zap.Int("tables", len(store.TableNames())))
	}

	svc, err := service.New(config, store, logger)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return svc.ListenAndServe(ctx)
}

type schemaFile struct {
	Tables []struct {
		Schema string `yaml:"schema"`
		Name   string `yaml:"name"`
		Fields []struct {
			Name     string `yaml:"name"`
			Type     string `yaml:"type"`
			Nullable bool   `yaml:"nullable"`
		} `yaml:"fields"`
		KeyFormat   string `yaml:"key_format"`
		ValueFormat string `yaml:"value_format"`
	} `yaml:"tables"`
}

func loadSchema(store *catalog.Store, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file schemaFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, t := range file.Tables {
		schema := t.Schema
		if schema == "" {
			schema = catalog.DefaultSchema
		}
		fields := make([]catalog.Field, 0, len(t.Fields))
		for _, f := range t.Fields {
			id, ok := sqltype.ByName(f.Type)
			if !ok {
				return fmt.Errorf("%s: table %s: field %s: unknown type %q",
					path, t.Name, f.Name, f.Type)
			}
			fields = append(fields, catalog.Field{Name: f.Name, Type: id, Nullable: f.Nullable})
		}
		store.Put(catalog.New(schema, t.Name, fields, catalog.Statistics{},
			catalog.Descriptor{Format: t.KeyFormat},
			catalog.Descriptor{Format: t.ValueFormat}))
	}
	return nil
}
