// Package console implements the line mode commands.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/malonaz/notebook/internal/app"
	"github.com/malonaz/notebook/internal/cli"
	"github.com/malonaz/notebook/internal/configuration"
	"github.com/malonaz/notebook/internal/history"
	"github.com/malonaz/notebook/internal/surface"
	"github.com/malonaz/notebook/internal/types"
	"github.com/malonaz/notebook/internal/upload"
)

// session is one line mode invocation.
type session struct {
	app     *app.App
	surface *surface.Surface
}

func newSession(ctx context.Context, config *configuration.Config, client app.Client, assumeYes bool) (*session, error) {
	s := newSurface(assumeYes)
	a, err := app.New(ctx, client, s, config, history.NewHistory(config.Chat.HistoryFile))
	if err != nil {
		return nil, errors.Wrap(err, "creating app")
	}
	return &session{app: a, surface: s}, nil
}

// hydrate fetches the listing once.
func (s *session) hydrate() {
	s.app.Drive(s.app.Init())
}

// ask submits a query and waits for its answer.
func (s *session) ask(query string) {
	s.surface.ChatInput.SetValue(query)
	s.app.Drive(s.app.Send())
}

// upload sends a file and returns an error if the upload did not succeed.
func (s *session) upload(path string) error {
	if path == "" {
		return errors.New("missing file")
	}
	s.app.Drive(s.app.SelectFiles(path))
	switch text := s.surface.Status.(*status).Text(); text {
	case upload.ErrorText, upload.FailedText:
		return errors.New(text)
	}
	return nil
}

// remove deletes a document by name. A refused or failed delete leaves it listed.
func (s *session) remove(filename string) error {
	var entry *types.Entry
	for _, e := range s.app.Documents.Entries() {
		if e.Filename == filename {
			entry = e
			break
		}
	}
	if entry == nil {
		return errors.Errorf("no document named %q", filename)
	}
	if !entry.Deletable {
		return errors.New("deleting documents requires admin")
	}
	s.app.Drive(s.app.Delete(entry))
	return nil
}

// NewListCmd instantiates and returns the ls command.
func NewListCmd(config *configuration.Config, client app.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List uploaded documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), config, client, false)
			if err != nil {
				return err
			}
			s.hydrate()
			printDocuments(s.app.Documents.Entries())
			return nil
		},
	}
}

// NewUploadCmd instantiates and returns the upload command.
func NewUploadCmd(config *configuration.Config, client app.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), config, client, false)
			if err != nil {
				return err
			}
			if len(args) > 1 {
				cli.Status(fmt.Sprintf("Only the first file is uploaded: %s", args[0]))
			}
			return s.upload(args[0])
		},
	}
}

// NewRemoveCmd instantiates and returns the rm command.
func NewRemoveCmd(config *configuration.Config, client app.Client) *cobra.Command {
	var opts struct {
		Yes bool
	}
	cmd := &cobra.Command{
		Use:   "rm NAME",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), config, client, opts.Yes)
			if err != nil {
				return err
			}
			s.hydrate()
			if err := s.remove(args[0]); err != nil {
				return err
			}
			printDocuments(s.app.Documents.Entries())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// NewAskCmd instantiates and returns the ask command.
func NewAskCmd(config *configuration.Config, client app.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUERY...",
		Short: "Ask a single question about the documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), config, client, false)
			if err != nil {
				return err
			}
			s.ask(strings.Join(args, " "))
			return nil
		},
	}
}

// NewChatCmd instantiates and returns the chat command.
func NewChatCmd(config *configuration.Config, client app.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat about the documents in line mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), config, client, false)
			if err != nil {
				return err
			}
			s.hydrate()
			printDocuments(s.app.Documents.Entries())
			cli.Title("/upload FILE, /docs, /rm NAME, /quit")
			var historyFile string
			if config.Chat.HistoryFile != "" {
				historyFile = config.Chat.HistoryFile + ".readline"
			}
			for {
				line, err := cli.PromptUser(historyFile)
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				if quit := s.handle(line); quit {
					return nil
				}
			}
		},
	}
}

// handle runs one line of the chat loop and reports whether the loop should end.
func (s *session) handle(line string) bool {
	command, argument, _ := strings.Cut(strings.TrimSpace(line), " ")
	argument = strings.TrimSpace(argument)
	var err error
	switch command {
	case "/quit", "/exit":
		return true
	case "/docs":
		printDocuments(s.app.Documents.Entries())
	case "/upload":
		err = s.upload(argument)
	case "/rm":
		err = s.remove(argument)
	default:
		s.ask(line)
	}
	if err != nil {
		cli.Status(err.Error())
	}
	return false
}
