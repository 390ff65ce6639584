package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apihttp "aibox/internal/http"
	"aibox/internal/indexer"
	"aibox/internal/llm"
	"aibox/internal/service"
	"aibox/internal/settings"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultCodeLifetime = 15 * time.Minute
)

func newServeCmd(deps func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			router := apihttp.NewRouter(&apihttp.Deps{
				DB:        a.db,
				Chat:      a.chat,
				Knowledge: a.knowledge,
				Models:    a.models,
				Copilot:   a.copilot,
				Settings:  a.settings,
			})

			srv := &http.Server{
				Addr:              ":" + a.cfg.APIPort,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("Starting API server", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("API server failed: %w", err)
			case <-cmd.Context().Done():
			}

			slog.Info("Server stopping")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newChatCmd(deps func() *app) *cobra.Command {
	var conversationID, model string
	var useKnowledge bool

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a message to a stored conversation and stream the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			ctx := cmd.Context()
			content := strings.Join(args, " ")

			if conversationID == "" {
				conv, err := a.chat.CreateConversation(ctx, service.CreateConversationRequest{
					Title: conversationTitle(content),
					Model: model,
				})
				if err != nil {
					return err
				}
				conversationID = conv.ID
				fmt.Fprintf(cmd.ErrOrStderr(), "conversation %s\n", conv.ID)
			}

			out := cmd.OutOrStdout()
			_, err := a.chat.SendMessage(ctx, service.SendMessageRequest{
				ConversationID: conversationID,
				Content:        content,
				Model:          model,
				UseKnowledge:   useKnowledge,
			}, func(chunk service.ChatChunk) error {
				return writeDelta(out, chunk.Delta, chunk.Done)
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "conversation id to continue (a new one is created when empty)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "model, e.g. openai/gpt-4o or ollama/llama3.2 (defaults to the default_model setting)")
	cmd.Flags().BoolVarP(&useKnowledge, "knowledge", "k", false, "add matching knowledge base chunks as context")
	return cmd
}

func newAskCmd(deps func() *app) *cobra.Command {
	var model, system string
	var noStream bool

	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Get a one-off reply without storing a conversation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			out := cmd.OutOrStdout()

			var messages []llm.ChatMessage
			if system != "" {
				messages = append(messages, llm.ChatMessage{Role: llm.RoleSystem, Content: system})
			}
			messages = append(messages, llm.ChatMessage{Role: llm.RoleUser, Content: strings.Join(args, " ")})

			if noStream {
				resp, err := a.chat.Complete(ctx, service.CompleteRequest{Model: model, Messages: messages})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, resp.Content)
				return err
			}

			if model == "" {
				stored, ok, err := a.resolver.Get(ctx, settings.KeyDefaultModel)
				if err != nil {
					return err
				}
				if !ok {
					return errors.New("--model is required when no default_model is set")
				}
				model = stored
			}
			cfg, modelID, err := a.resolver.Resolve(ctx, model)
			if err != nil {
				return err
			}

			for ev := range a.llmClient.StreamChan(ctx, cfg, llm.ChatRequest{Model: modelID, Messages: messages}) {
				if ev.Err != nil {
					return ev.Err
				}
				if err := writeDelta(out, ev.Chunk.Delta, ev.Chunk.Done); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model, e.g. claude/claude-sonnet-4-5 (defaults to the default_model setting)")
	cmd.Flags().StringVarP(&system, "system", "s", "", "system prompt")
	cmd.Flags().BoolVar(&noStream, "no-stream", false, "wait for the full reply, retrying transient failures")
	return cmd
}

func newIngestCmd(deps func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file|dir>...",
		Short: "Add .txt, .md or .pdf files to the knowledge base",
		Long:  "Add .txt, .md or .pdf files to the knowledge base. Directories are walked recursively, skipping hidden ones.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			paths, err := expandPaths(cmd.Context(), args)
			if err != nil {
				return err
			}

			var failed int
			for _, path := range paths {
				res, err := a.knowledge.Ingest(cmd.Context(), path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d chunks\t%d embedded\n", res.Document.ID, res.Document.Filename, res.Chunks, res.Embedded)
				if res.Warning != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: warning: %s\n", path, res.Warning)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(paths))
			}
			return nil
		},
	}
}

func newSearchCmd(deps func() *app) *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := deps().knowledge.Search(cmd.Context(), strings.Join(args, " "), topK)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, r := range results {
				fmt.Fprintf(out, "%d. [%.3f] %s#%d\n%s\n\n", i+1, r.Score, r.DocumentID, r.ChunkIndex, r.Content)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "n", 0, "number of results (defaults to SEARCH_TOP_K)")
	return cmd
}

func newStatsCmd(deps func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge base coverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := deps().knowledge.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}

func newModelsCmd(deps func() *app) *cobra.Command {
	var copilot bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available models",
		RunE: func(cmd *cobra.Command, args []string) error {
			models := deps().models
			list, err := models.ListModels(cmd.Context())
			if err != nil {
				return err
			}
			if copilot {
				live, err := models.ListCopilotModels(cmd.Context())
				if err != nil {
					return err
				}
				list = append(list, live...)
			}
			for _, m := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", m.ID, m.Name, m.Provider)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copilot, "copilot", false, "include models of the logged in Copilot account")
	return cmd
}

func newLoginCmd(deps func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in to GitHub Copilot with a device code",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			ctx := cmd.Context()

			code, err := a.copilot.StartLogin(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Open %s and enter the code %s\n", code.VerificationURI, code.UserCode)

			if err := waitForLogin(ctx, a.copilot, code, time.After); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged in to GitHub Copilot")
			return nil
		},
	}
}

// waitForLogin polls at the interval GitHub asked for until the code is
// authorized or expires. after is time.After outside tests.
func waitForLogin(ctx context.Context, copilot service.CopilotService, code llm.DeviceCodeResponse, after func(time.Duration) <-chan time.Time) error {
	interval := time.Duration(code.Interval) * time.Second
	if interval <= 0 {
		interval = defaultPollInterval
	}
	lifetime := time.Duration(code.ExpiresIn) * time.Second
	if lifetime <= 0 {
		lifetime = defaultCodeLifetime
	}
	expired := after(lifetime)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-expired:
			return errors.New("device code expired before login completed")
		case <-after(interval):
		}

		ok, err := copilot.PollLogin(ctx, code.DeviceCode)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
}

// expandPaths replaces directory arguments with the supported files below them.
func expandPaths(ctx context.Context, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			// Let the ingester report missing or unsupported files.
			paths = append(paths, arg)
			continue
		}
		found, err := indexer.ScanDir(ctx, arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

// conversationTitle derives a title from the first line of a message.
func conversationTitle(content string) string {
	title, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	if r := []rune(title); len(r) > 50 {
		title = string(r[:50]) + "..."
	}
	return title
}

func writeDelta(w io.Writer, delta string, done bool) error {
	if _, err := io.WriteString(w, delta); err != nil {
		return err
	}
	if done {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
