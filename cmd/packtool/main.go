// Command packtool is the authoring CLI for content packs.
//
// Usage:
//
//	packtool validate <pack.json>...
//	packtool import -config config/packtool.yaml <pack.json>...
//	packtool annotate -expr "self_attack * 2"
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/luoxiaofei/wulingo/internal/config"
	"github.com/luoxiaofei/wulingo/internal/content"
	"github.com/luoxiaofei/wulingo/internal/db"
	"github.com/luoxiaofei/wulingo/internal/formula"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "validate":
		err = runValidate(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "annotate":
		err = runAnnotate(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "packtool: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: packtool validate <pack.json>...")
	fmt.Fprintln(os.Stderr, "       packtool import -config <config.yaml> <pack.json>...")
	fmt.Fprintln(os.Stderr, "       packtool annotate -expr <formula>")
}

// runValidate checks every pack concurrently and prints findings to
// stdout. Any finding makes the command fail.
func runValidate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("validate: no pack files given")
	}

	findings := make([][]string, len(args))

	g := new(errgroup.Group)
	for i, path := range args {
		g.Go(func() error {
			probs, err := validateFile(path)
			if err != nil {
				return err
			}
			findings[i] = probs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i, path := range args {
		if len(findings[i]) == 0 {
			fmt.Printf("%s: ok\n", path)
			continue
		}
		failed++
		for _, p := range findings[i] {
			fmt.Printf("%s: %s\n", path, p)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d packs failed validation", failed, len(args))
	}
	return nil
}

// validateFile runs the schema gate first and the semantic checks only
// on schema-clean packs, mirroring the authoring pipeline order. The
// error return is for I/O trouble; pack defects come back as findings.
func validateFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := content.ValidatePackJSON(data); err != nil {
		return []string{err.Error()}, nil
	}
	p, err := content.DecodePack(data)
	if err != nil {
		return []string{err.Error()}, nil
	}
	var probs []string
	for _, prob := range content.ValidatePack(p) {
		probs = append(probs, prob.String())
	}
	return probs, nil
}

// runImport validates the whole batch, then migrates the database and
// upserts each pack. Unchanged packs are skipped by digest.
func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	cfgPath := fs.String("config", "config/packtool.yaml", "path to YAML config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return fmt.Errorf("import: no pack files given")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	setupLogger(cfg.LogLevel)

	packs := make([]*content.Pack, len(paths))
	g := new(errgroup.Group)
	for i, path := range paths {
		g.Go(func() error {
			probs, err := validateFile(path)
			if err != nil {
				return err
			}
			if len(probs) > 0 {
				return fmt.Errorf("%s: %d validation problems, run packtool validate", path, len(probs))
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			p, err := content.DecodePack(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			packs[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	ctx := context.Background()
	if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
		return err
	}

	conn, err := db.New(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer conn.Close()

	repo := db.NewPackRepository(conn.Pool())
	for _, p := range packs {
		stored, err := repo.Save(ctx, p)
		if err != nil {
			return err
		}
		if stored {
			slog.Info("pack stored", "pack", p.Name, "version", p.Version)
		} else {
			slog.Info("pack unchanged, skipped", "pack", p.Name, "version", p.Version)
		}
	}
	return nil
}

// runAnnotate prints the display form of a formula expression, with
// every recognized variable replaced by its label.
func runAnnotate(args []string) error {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	expr := fs.String("expr", "", "formula expression to annotate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *expr == "" {
		return fmt.Errorf("annotate: -expr is required")
	}
	fmt.Println(formula.Annotate(*expr, formula.Labels()))
	return nil
}

func setupLogger(level string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	})))
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
