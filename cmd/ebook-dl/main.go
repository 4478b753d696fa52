package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/handiism/ebook-packager/internal/config"
	"github.com/handiism/ebook-packager/internal/download"
	"github.com/handiism/ebook-packager/internal/model"
)

func main() {
	// Command line flags
	var (
		booksFlag       = flag.String("books", "", "File with one \"Title; Author; Year\" per line (- for stdin)")
		outputFlag      = flag.String("output", "", "Archive path (skips the save prompt)")
		configFlag      = flag.String("config", "", "Path to config file (.json or .yaml)")
		envFlag         = flag.String("env", ".env", "Path to .env file holding API_KEY")
		concurrencyFlag = flag.Int("concurrency", 0, "Max concurrent searches and downloads (overrides config)")
		verboseFlag     = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag      = flag.Bool("dry-run", false, "Search and match without downloading")
	)

	flag.Parse()

	if *booksFlag == "" && flag.NArg() == 0 {
		fmt.Println("Ebook Packager - Find books and bundle them into one zip")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  ebook-dl -books <file> [options]")
		fmt.Println("  ebook-dl \"Dune; Frank Herbert; 1965\" [more books...] [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: ebook-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *concurrencyFlag > 0 {
		settings.MaxConcurrentSearches = *concurrencyFlag
		settings.MaxConcurrentDownloads = *concurrencyFlag
	}

	books, err := readBooks(*booksFlag, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading books: %v\n", err)
		os.Exit(1)
	}

	creds, err := config.LoadCredentials(*envFlag, settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var locator download.SaveLocator
	switch {
	case *outputFlag != "":
		locator = download.FixedLocation(*outputFlag)
	case *booksFlag == "-":
		fmt.Fprintln(os.Stderr, "Error: -output is required when books are read from stdin")
		os.Exit(1)
	default:
		locator = promptLocator(os.Stdin, os.Stdout, settings.ArchiveFileName)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	manager := download.NewManager(settings, creds, locator, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}
		fmt.Println(levelPrefix(event.Level) + event.Message)
	})

	fmt.Println("Ebook Packager")
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println()

	if *dryRunFlag {
		for _, o := range manager.Search(ctx, books) {
			fmt.Printf("• %s: %s\n", o.Book, o.Detail())
		}
		fmt.Println("\n[Dry run - not downloading]")
		return
	}

	report, err := manager.Process(ctx, books)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nCancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println(report.Summary())
}

// readBooks collects the batch from the -books file or positional arguments.
func readBooks(path string, args []string) ([]model.BookRequest, error) {
	var text string
	switch path {
	case "":
		text = strings.Join(args, "\n")
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		text = string(data)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		text = string(data)
	}

	books, err := model.ParseBookList(text)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, download.ErrEmptyBatch
	}
	return books, nil
}

// promptLocator asks on the terminal where to save the archive. An empty
// answer takes the default name; "n" or "no" cancels.
func promptLocator(in io.Reader, out io.Writer, defaultName string) download.SaveLocator {
	reader := bufio.NewReader(in)
	return download.SaveLocatorFunc(func(_ context.Context, matched int) (string, bool, error) {
		fmt.Fprintf(out, "\nFound %d book(s). Save package to [%s] (n to cancel): ", matched, defaultName)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", false, err
		}

		answer := strings.TrimSpace(line)
		switch strings.ToLower(answer) {
		case "":
			return defaultName, true, nil
		case "n", "no":
			return "", false, nil
		}
		return answer, true, nil
	})
}

func levelPrefix(level download.ProgressLevel) string {
	switch level {
	case download.LevelError:
		return "✗ "
	case download.LevelWarning:
		return "! "
	case download.LevelSuccess:
		return "✓ "
	case download.LevelInfo:
		return "› "
	default:
		return "  "
	}
}
