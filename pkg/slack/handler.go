package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aiburn/aiburn/internal/utils"
	"github.com/aiburn/aiburn/pkg/initiative"
	"github.com/aiburn/aiburn/pkg/timeentry"
	"github.com/aiburn/aiburn/pkg/user"
	log "github.com/sirupsen/logrus"
)

// CommandHandler serves the /report slash command. The command is
// acknowledged immediately and the actual write happens in the background,
// with the outcome delivered through the command's response_url.
type CommandHandler struct {
	signingSecret string
	users         user.Service
	initiatives   initiative.InitiativeService
	timeEntries   timeentry.TimeEntryService
	client        *Client
	clock         utils.Clock
}

func NewCommandHandler(
	signingSecret string,
	users user.Service,
	initiatives initiative.InitiativeService,
	timeEntries timeentry.TimeEntryService,
	client *Client,
	clock utils.Clock,
) *CommandHandler {
	return &CommandHandler{
		signingSecret: signingSecret,
		users:         users,
		initiatives:   initiatives,
		timeEntries:   timeEntries,
		client:        client,
		clock:         clock,
	}
}

func (handler *CommandHandler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "could not read request body", http.StatusBadRequest)
		return
	}

	if !VerifySignature(
		handler.signingSecret,
		body,
		r.Header.Get("X-Slack-Signature"),
		r.Header.Get("X-Slack-Request-Timestamp"),
		handler.clock.Now(),
	) {
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		http.Error(w, "could not parse request body", http.StatusBadRequest)
		return
	}
	slackUserId := form.Get("user_id")
	slackTeamId := form.Get("team_id")
	commandText := form.Get("text")
	responseUrl := form.Get("response_url")

	if slackUserId == "" || slackTeamId == "" {
		writeEphemeral(w, "Invalid request")
		return
	}

	caller, err := handler.users.GetUserBySlackId(r.Context(), slackUserId, slackTeamId)
	if errors.Is(err, user.ErrUserNotFound) {
		writeEphemeral(w, "Please link your Slack account first.")
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	ctx := user.WithUser(r.Context(), caller)

	parsed, err := ParseReportCommand(commandText)
	if err != nil {
		writeEphemeral(w, err.Error())
		return
	}

	initiatives, err := handler.initiatives.List(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	target, ok := timeentry.ResolveByName(initiatives, parsed.InitiativeName)
	if !ok {
		available := make([]string, 0, len(initiatives))
		for _, i := range initiatives {
			available = append(available, fmt.Sprintf("%q", i.Name))
		}
		writeEphemeral(w, fmt.Sprintf("Initiative %q not found.\n\nAvailable initiatives: %s",
			parsed.InitiativeName, strings.Join(available, ", ")))
		return
	}

	go handler.processReport(caller, target, parsed, responseUrl)

	writeEphemeral(w, fmt.Sprintf("Logging %gd on %q...", parsed.PersonDays, target.Name))
}

// processReport runs after the command has been acknowledged, on a context
// detached from the already-answered HTTP request.
func (handler *CommandHandler) processReport(caller user.User, target initiative.Initiative, parsed ParsedReport, responseUrl string) {
	ctx := user.WithUser(context.Background(), caller)

	entry, err := handler.timeEntries.LogTime(ctx, target.Id, parsed.PersonDays, handler.clock.Now().UTC(), parsed.Note)
	if err != nil {
		log.Errorf("failed to log time from slack command: %v", err)
		if postErr := handler.client.PostResponse(ctx, responseUrl, fmt.Sprintf("Failed to log time: %s", err.Error())); postErr != nil {
			log.Errorf("failed to post slack response: %v", postErr)
		}
		return
	}

	confirmation := fmt.Sprintf("Logged %gd on %q for the week of %s. Week total: %gd.",
		parsed.PersonDays, target.Name, entry.WeekOf.Format("Jan 2"), entry.PersonDays)
	if err := handler.client.PostResponse(ctx, responseUrl, confirmation); err != nil {
		log.Errorf("failed to post slack response: %v", err)
	}
}

func writeEphemeral(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(message{ResponseType: "ephemeral", Text: text}); err != nil {
		log.Errorf("failed to encode slack response: %v", err)
	}
}
