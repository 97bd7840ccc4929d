package chat

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/isaacphi/mcp-ollama-link/internal/appState"
	"github.com/isaacphi/mcp-ollama-link/internal/domain"
	"github.com/isaacphi/mcp-ollama-link/internal/llm"
	"github.com/isaacphi/mcp-ollama-link/internal/shared"
	"github.com/spf13/cobra"
)

var (
	userLabel      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}).Render("You:")
	assistantLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}).Render("Assistant:")
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"})

	chatModel    string
	systemPrompt string

	ChatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive streaming chat",
		Long:  "Chat with a local model. Replies stream as they are generated. Type quit to exit. History lives only for the session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appState.Get()
			chat, err := shared.InitializeChat(app, chatModel)
			if err != nil {
				return err
			}

			var history []domain.Message
			if systemPrompt != "" {
				history = append(history, domain.Message{Role: domain.RoleSystem, Content: systemPrompt})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Chatting with %s. Type quit to exit.\n", chat.Model())
			return repl(cmd, chat, history)
		},
	}
)

func repl(cmd *cobra.Command, chat *llm.Chat, history []domain.Message) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprintf(out, "%s ", userLabel)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "quit") {
			return nil
		}

		history = append(history, domain.Message{Role: domain.RoleUser, Content: line})
		reply, err := streamReply(cmd, out, chat, history)
		if err != nil {
			// The failed turn is dropped so the user can retry
			history = history[:len(history)-1]
			fmt.Fprintln(out, errorStyle.Render(err.Error()))
			continue
		}
		history = append(history, domain.Message{Role: domain.RoleAssistant, Content: reply})
	}
}

func streamReply(cmd *cobra.Command, out io.Writer, chat *llm.Chat, history []domain.Message) (string, error) {
	fmt.Fprintf(out, "%s ", assistantLabel)

	var reply strings.Builder
	for chunk, err := range chat.Stream(cmd.Context(), history) {
		if err != nil {
			fmt.Fprintln(out)
			return "", err
		}
		fmt.Fprint(out, chunk)
		reply.WriteString(chunk)
	}
	fmt.Fprintln(out)
	return reply.String(), nil
}

func init() {
	ChatCmd.Flags().StringVar(&chatModel, "chat-model", "", "Model for this chat session (defaults to ollama.chatModel)")
	ChatCmd.Flags().StringVar(&systemPrompt, "system", "", "System prompt for the session")
}
