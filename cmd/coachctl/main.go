package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag      string
	customerFlag string
	rootCmd      = &cobra.Command{
		Use:   "coachctl",
		Short: "CLI for the coach service: advice, research and store backups",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Coach service base URL")

	// advice subcommands
	adviceCmd := &cobra.Command{Use: "advice", Short: "Request AI advice for a customer"}
	for _, kind := range []string{"training", "meal"} {
		adviceCmd.AddCommand(&cobra.Command{
			Use:   kind,
			Short: fmt.Sprintf("Get %s advice", kind),
			RunE: func(cmd *cobra.Command, args []string) error {
				if customerFlag == "" {
					return fmt.Errorf("--customer required")
				}
				return runAdvice(newClient(apiFlag), customerFlag, kind, os.Stdout)
			},
		})
	}
	adviceCmd.PersistentFlags().StringVarP(&customerFlag, "customer", "c", "", "Customer ID (required)")
	rootCmd.AddCommand(adviceCmd)

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask the coaching assistant a question",
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, _ := cmd.Flags().GetString("message")
			return runChat(newClient(apiFlag), msg, os.Stdout)
		},
	}
	chatCmd.Flags().StringP("message", "m", "", "Message text (required)")
	_ = chatCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(chatCmd)

	// research subcommands
	researchCmd := &cobra.Command{Use: "research", Short: "Search and summarise research articles"}
	researchCmd.AddCommand(&cobra.Command{
		Use:   "latest",
		Short: "List the latest articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResearchLatest(newClient(apiFlag), os.Stdout)
		},
	})
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			offset, _ := cmd.Flags().GetInt("offset")
			return runResearchSearch(newClient(apiFlag), query, offset, os.Stdout)
		},
	}
	searchCmd.Flags().StringP("query", "q", "", "Search query text (required)")
	searchCmd.Flags().IntP("offset", "o", 0, "Result offset")
	_ = searchCmd.MarkFlagRequired("query")
	researchCmd.AddCommand(searchCmd)
	researchCmd.AddCommand(&cobra.Command{
		Use:   "summary <article-id>",
		Short: "Summarise one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResearchSummary(newClient(apiFlag), args[0], os.Stdout)
		},
	})
	rootCmd.AddCommand(researchCmd)

	// store backups talk to the configured store directly
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Dump every collection of the configured store to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return runBackup(cmd.Context(), out, os.Stdout)
		},
	}
	backupCmd.Flags().StringP("out", "o", "", "Snapshot file (required)")
	_ = backupCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(backupCmd)

	restoreCmd := &cobra.Command{
		Use:   "restore",
		Short: "Load a JSON snapshot into the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			return runRestore(cmd.Context(), in, os.Stdout)
		},
	}
	restoreCmd.Flags().StringP("in", "i", "", "Snapshot file (required)")
	_ = restoreCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(restoreCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
