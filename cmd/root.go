package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"promptpack/pkg/bundle"
	"promptpack/pkg/logging"
	"promptpack/pkg/sink"
	"promptpack/pkg/summarize"
	"promptpack/pkg/vcs"
	"promptpack/pkg/version"
	"promptpack/pkg/walk"
)

var (
	flagOutputPath      string
	flagTemplatePath    string
	flagUseGitignore    bool
	flagIncludeHidden   bool
	flagExcludePaths    string
	flagIncludePaths    string
	flagOrKeywords      string
	flagAndKeywords     string
	flagExcludeKeywords string
	flagDiffOnly        bool
	flagStartCommit     string
	flagEndCommit       string
	flagSummarize       bool
	flagApply           bool
	flagProvider        string
	flagVerbose         bool
)

// Arguments is the resolved configuration for one bundling run.
type Arguments struct {
	Directory       string
	Suffixes        []string
	OutputPath      string
	TemplatePath    string
	UseGitignore    bool
	IncludeHidden   bool
	ExcludePaths    []string
	IncludePaths    []string
	OrKeywords      []string
	AndKeywords     []string
	ExcludeKeywords []string
	DiffOnly        bool
	StartCommit     string
	EndCommit       string
	Summarize       bool
	Apply           bool
	Provider        string
}

// RootCmd is the base command; the bundling operation runs on it directly.
var RootCmd = &cobra.Command{
	Use:   "promptpack <directory> <suffixes>",
	Short: "Promptpack bundles selected files into one prompt-ready text",
	Long: `Promptpack walks a directory, selects files by suffix, path and keyword
rules, and assembles their paths and contents into a single text bundle,
written to a file or the clipboard. With a commit range it restricts the
selection to changed files and annotates each with its diff fragment.`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Setup(flagVerbose, "promptpack", version.Version); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return run(cmd.Context(), Arguments{
			Directory:       args[0],
			Suffixes:        splitList(args[1]),
			OutputPath:      flagOutputPath,
			TemplatePath:    flagTemplatePath,
			UseGitignore:    flagUseGitignore,
			IncludeHidden:   flagIncludeHidden,
			ExcludePaths:    splitList(flagExcludePaths),
			IncludePaths:    splitList(flagIncludePaths),
			OrKeywords:      splitList(flagOrKeywords),
			AndKeywords:     splitList(flagAndKeywords),
			ExcludeKeywords: splitList(flagExcludeKeywords),
			DiffOnly:        flagDiffOnly,
			StartCommit:     flagStartCommit,
			EndCommit:       flagEndCommit,
			Summarize:       flagSummarize,
			Apply:           flagApply,
			Provider:        flagProvider,
		}, logging.Logger)
	},
}

func init() {
	RootCmd.Flags().StringVar(&flagOutputPath, "output-path", "", "Write the bundle to this file instead of the clipboard")
	RootCmd.Flags().StringVar(&flagTemplatePath, "prompt-template-path", "", "Substitute the bundle into this prompt template")
	RootCmd.Flags().BoolVar(&flagUseGitignore, "use-gitignore", true, "Honor .gitignore rules during the walk")
	RootCmd.Flags().BoolVar(&flagIncludeHidden, "include-hidden", true, "Include hidden files and directories")
	RootCmd.Flags().StringVar(&flagExcludePaths, "exclude-paths", "", "Comma-separated relative path prefixes to exclude")
	RootCmd.Flags().StringVar(&flagIncludePaths, "include-paths", "", "Comma-separated relative path prefixes to include")
	RootCmd.Flags().StringVar(&flagOrKeywords, "or-keywords", "", "Only include files containing at least one of these comma-separated keywords")
	RootCmd.Flags().StringVar(&flagAndKeywords, "and-keywords", "", "Only include files containing all of these comma-separated keywords")
	RootCmd.Flags().StringVar(&flagExcludeKeywords, "exclude-keywords", "", "Exclude files containing any of these comma-separated keywords")
	RootCmd.Flags().BoolVar(&flagDiffOnly, "diff-only", false, "Only include files changed within the commit range")
	RootCmd.Flags().StringVar(&flagStartCommit, "start-commit-id", "", "Starting revision for the diff comparison")
	RootCmd.Flags().StringVar(&flagEndCommit, "end-commit-id", "", "Ending revision for the diff comparison")
	RootCmd.Flags().BoolVar(&flagSummarize, "summarize", false, "Replace file contents with model-written summaries")
	RootCmd.Flags().BoolVar(&flagApply, "apply", false, "Write each summary to the top of its source file")
	RootCmd.Flags().StringVar(&flagProvider, "provider", "anthropic", "Model provider for summaries (anthropic, deepseek, ollama)")
	RootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command and returns its error for main to map to
// an exit code.
func Execute() error {
	return RootCmd.Execute()
}

// run orchestrates one bundling run: validate, select, assemble, deliver.
func run(ctx context.Context, args Arguments, logger *zap.Logger) error {
	startTime := time.Now()
	logger.Info("Starting bundling run",
		zap.String("directory", args.Directory),
		zap.Strings("suffixes", args.Suffixes),
		zap.Bool("diffOnly", args.DiffOnly))

	criteria := bundle.Criteria{
		Suffixes:        args.Suffixes,
		UseGitignore:    args.UseGitignore,
		IncludeHidden:   args.IncludeHidden,
		ExcludePaths:    args.ExcludePaths,
		IncludePaths:    args.IncludePaths,
		OrKeywords:      args.OrKeywords,
		AndKeywords:     args.AndKeywords,
		ExcludeKeywords: args.ExcludeKeywords,
	}
	rng := bundle.DiffRange{Start: args.StartCommit, End: args.EndCommit}

	if args.Apply && !args.Summarize {
		return fmt.Errorf("%w: --apply requires --summarize", bundle.ErrConfig)
	}
	if args.Apply && args.DiffOnly {
		return fmt.Errorf("%w: --apply cannot be combined with --diff-only", bundle.ErrConfig)
	}

	var repo *vcs.Git
	if args.DiffOnly {
		var err error
		repo, err = vcs.Open(args.Directory)
		if err != nil {
			logger.Error("Failed to open repository", zap.String("directory", args.Directory), zap.Error(err))
			return fmt.Errorf("%w: %v", bundle.ErrConfig, err)
		}
		warnOffRoot(repo, args.Directory, logger)
	}

	// bundle.Validate takes the Repository interface; a typed nil would
	// defeat its nil check.
	var repoIface bundle.Repository
	if repo != nil {
		repoIface = repo
	}
	if err := bundle.Validate(criteria, rng, args.DiffOnly, repoIface); err != nil {
		return err
	}
	if args.TemplatePath != "" {
		if err := sink.ValidateTemplatePath(args.TemplatePath); err != nil {
			return err
		}
	}
	if args.OutputPath != "" {
		if err := sink.ValidateOutputPath(args.OutputPath); err != nil {
			return err
		}
	}

	var scope *bundle.DiffScope
	if args.DiffOnly {
		var err error
		scope, err = bundle.NewDiffScope(repo, rng, logger)
		if err != nil {
			return err
		}
	}

	walker := walk.New(args.Directory, walk.Options{
		UseGitignore:  args.UseGitignore,
		IncludeHidden: args.IncludeHidden,
	}, logger)

	files, err := bundle.NewPipeline(walker, criteria, scope, logger).Select()
	if err != nil {
		return err
	}

	assembler := bundle.NewAssembler(repoIface, scope, rng, logger)

	var content string
	if args.Summarize {
		content, err = summarized(ctx, args, assembler, scope, files, logger)
	} else {
		content, err = assembler.Assemble(files)
	}
	if err != nil {
		return err
	}

	if args.TemplatePath != "" {
		content, err = sink.ExpandTemplate(args.TemplatePath, content)
		if err != nil {
			return err
		}
	}

	if err := sink.Resolve(args.OutputPath, logger).Write(content); err != nil {
		return err
	}

	if args.OutputPath != "" {
		fmt.Printf("Successfully processed directory and written output to %s\n", args.OutputPath)
	} else {
		fmt.Println("Successfully processed directory and copied output to clipboard")
	}

	logger.Info("Bundling run completed",
		zap.Int("admittedFiles", len(files)),
		zap.Duration("elapsed", time.Since(startTime)))
	return nil
}

// summarized builds the summaries variant of the bundle and, with --apply,
// writes each summary back to its source file.
func summarized(ctx context.Context, args Arguments, assembler *bundle.Assembler, scope *bundle.DiffScope, files []bundle.AdmittedFile, logger *zap.Logger) (string, error) {
	provider, err := summarize.NewProvider(args.Provider)
	if err != nil {
		return "", err
	}

	texts := make([]string, 0, len(files))
	for _, f := range files {
		if args.DiffOnly {
			texts = append(texts, bundle.FragmentFor(scope.Patch(), f.RelPath))
			continue
		}
		text, err := assembler.FileText(f)
		if err != nil {
			return "", err
		}
		texts = append(texts, text)
	}

	summaries, err := summarize.New(provider, logger).Summarize(ctx, files, texts, args.DiffOnly)
	if err != nil {
		return "", err
	}

	if args.Apply {
		applied, err := summarize.Apply(files, summaries, logger)
		if err != nil {
			return "", err
		}
		fmt.Printf("Summaries have been written to the top of %d files.\n", applied)
	}

	return assembler.AssembleSummaries(files, summaries)
}

// warnOffRoot flags a walk directory that is not the repository root:
// historical reads resolve bundle paths against the root, so the two
// should coincide in diff-scoped runs.
func warnOffRoot(repo *vcs.Git, dir string, logger *zap.Logger) {
	root, err := repo.Root()
	if err != nil {
		return
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return
	}
	if resolved, err := filepath.EvalSymlinks(absDir); err == nil {
		absDir = resolved
	}
	if resolvedRoot, err := filepath.EvalSymlinks(root); err == nil {
		root = resolvedRoot
	}
	if root != absDir {
		logger.Warn("Walk directory is not the repository root",
			zap.String("directory", absDir),
			zap.String("repositoryRoot", root))
	}
}

// splitList splits a comma-separated flag value into trimmed, non-empty
// tokens.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var tokens []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
