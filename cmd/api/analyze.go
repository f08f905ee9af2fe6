package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/verdict-gate/internal/config"
	"github.com/bryanwahyu/verdict-gate/internal/domain/verdict"
	"github.com/bryanwahyu/verdict-gate/internal/middleware"
)

var (
	analyzeType    string
	analyzeContent string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify one piece of content and print the verdict as JSON",
	Long: `Runs a single classification through the same pipeline as POST /analyze.
Content is read from --content, or from stdin when --content is omitted.

Example:
  verdict-gate analyze --type url --content "http://example.com/login"
  cat mail.eml | verdict-gate analyze --type message`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeType, "type", "t", "message", "content type label (url, file, message, ...)")
	analyzeCmd.Flags().StringVarP(&analyzeContent, "content", "c", "", "content to classify (default: stdin)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config load error: %w", err)
	}

	content := analyzeContent
	if !cmd.Flags().Changed("content") {
		in := cmd.InOrStdin()
		if cfg.Limits.MaxContentBytes > 0 {
			in = io.LimitReader(in, int64(cfg.Limits.MaxContentBytes)+1)
		}
		b, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		content = string(b)
	}

	req := verdict.Request{Type: analyzeType, Content: content}
	if err := middleware.ValidateAnalysisType(req.Type); err != nil {
		return err
	}
	if err := middleware.ValidateContent(req.Content, cfg.Limits.MaxContentBytes); err != nil {
		return err
	}

	a, err := buildApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.svc.Analyze(cmd.Context(), middleware.PublicTenant, req)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res.Verdict)
}
