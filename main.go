package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Filtering
	maxBytes         int64
	noGit            bool
	respectGitignore bool

	// Reading
	textEncoding string

	// Token Counting
	tokenizerType  string
	tokenizerModel string
	tokenizerFile  string

	// Extra Outputs
	copyToClipboard    bool
	pdfOutputFile      string
	manifestOutputFile string

	verbose bool
	cfgFile string
)

// version is the application version, set via ldflags.
var version string = "dev"

var rootCmd = &cobra.Command{
	Use:   "gittxt <path>",
	Short: "Export a repo into a single text digest for LLMs.",
	Long: `gittxt lists the files of a Git repository or plain folder, drops binary,
oversized and ignored files, and writes the rest into one text digest headed by
a directory tree. The digest is saved as gittxt-<name>-repo.txt inside the folder.`,
	Version:       version,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFromViper(args[0])
		logger, err := newLogger(opts.Verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		_, err = run(opts, cmd.OutOrStdout(), logger)
		return err
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/gittxt/config.toml)")

	// Filtering
	rootCmd.Flags().Int64Var(&maxBytes, "max-bytes", DefaultMaxBytes, "Skip files larger than this many bytes")
	viper.BindPFlag("max_bytes", rootCmd.Flags().Lookup("max-bytes"))
	rootCmd.Flags().BoolVar(&noGit, "no-git", false, "Always walk the directory instead of asking git for the file list")
	viper.BindPFlag("no_git", rootCmd.Flags().Lookup("no-git"))
	rootCmd.Flags().BoolVar(&respectGitignore, "respect-gitignore", false, "Apply the root .gitignore when walking the directory")
	viper.BindPFlag("respect_gitignore", rootCmd.Flags().Lookup("respect-gitignore"))

	// Reading
	rootCmd.Flags().StringVar(&textEncoding, "encoding", DefaultEncoding, "Text encoding used to read files")
	viper.BindPFlag("encoding", rootCmd.Flags().Lookup("encoding"))

	// Token Counting
	rootCmd.Flags().StringVar(&tokenizerType, "tokenizer", TokenizerTiktoken, "Tokenizer to use: tiktoken, huggingface or approx (tiktoken downloads its ranks on first use; approx works offline)")
	viper.BindPFlag("tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	rootCmd.Flags().StringVar(&tokenizerModel, "model", "", "Model name for tiktoken (default encoding o200k_base)")
	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	rootCmd.Flags().StringVar(&tokenizerFile, "tokenizer-file", "", "Path to a local HuggingFace tokenizer.json")
	viper.BindPFlag("tokenizer_file", rootCmd.Flags().Lookup("tokenizer-file"))

	// Extra Outputs
	rootCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Also copy the digest to the clipboard")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))
	rootCmd.Flags().StringVar(&pdfOutputFile, "pdf", "", "Also save the digest as a PDF")
	viper.BindPFlag("pdf", rootCmd.Flags().Lookup("pdf"))
	rootCmd.Flags().StringVar(&manifestOutputFile, "manifest", "", "Write a YAML report of included and skipped files")
	viper.BindPFlag("manifest", rootCmd.Flags().Lookup("manifest"))

	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log skipped files and listing fallbacks")
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))

	viper.SetDefault("max_bytes", DefaultMaxBytes)
	viper.SetDefault("encoding", DefaultEncoding)
	viper.SetDefault("tokenizer", TokenizerTiktoken)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gittxt"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("GITTXT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match GITTXT_*

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		}
	}
}

// optionsFromViper collects the effective settings: flag > env > config > default.
func optionsFromViper(path string) Options {
	return Options{
		Path:             path,
		MaxBytes:         viper.GetInt64("max_bytes"),
		NoGit:            viper.GetBool("no_git"),
		RespectGitignore: viper.GetBool("respect_gitignore"),
		Encoding:         viper.GetString("encoding"),
		Tokenizer: tokenizerConfig{
			Type:  viper.GetString("tokenizer"),
			Model: viper.GetString("model"),
			File:  viper.GetString("tokenizer_file"),
		},
		Clipboard: viper.GetBool("clipboard"),
		PDFPath:   viper.GetString("pdf"),
		Manifest:  viper.GetString("manifest"),
		Verbose:   viper.GetBool("verbose"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
