package app

import (
	"github.com/aiburn/aiburn/internal/config"
	"github.com/aiburn/aiburn/internal/event_bus"
	"github.com/aiburn/aiburn/internal/utils"
	"github.com/aiburn/aiburn/pkg/budget"
	"github.com/aiburn/aiburn/pkg/initiative"
	"github.com/aiburn/aiburn/pkg/reporting"
	"github.com/aiburn/aiburn/pkg/slack"
	"github.com/aiburn/aiburn/pkg/timeentry"
	"github.com/aiburn/aiburn/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	UserService user.Service

	BudgetRepo    budget.BudgetRepo
	BudgetService budget.BudgetService
	BudgetHandler *budget.BudgetHandler

	InitiativeRepo    initiative.InitiativeRepo
	InitiativeService initiative.InitiativeService
	InitiativeHandler *initiative.InitiativeHandler

	TimeEntryRepo    timeentry.TimeEntryRepo
	TimeEntryService timeentry.TimeEntryService
	TimeEntryHandler *timeentry.TimeEntryHandler

	ReportingService reporting.ReportingService
	ReportingHandler *reporting.ReportingHandler

	SlackClient         *slack.Client
	SlackNotifier       *slack.Notifier
	SlackCommandHandler *slack.CommandHandler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	deps.UserService = user.NewService(user.NewRepo(db))

	deps.BudgetRepo = budget.NewBudgetRepo(db)
	deps.BudgetService = budget.NewBudgetService(deps.BudgetRepo, deps.Clock)
	deps.BudgetHandler = budget.NewBudgetHandler(deps.BudgetService)

	deps.InitiativeRepo = initiative.NewInitiativeRepo(db)
	deps.InitiativeService = initiative.NewInitiativeService(deps.InitiativeRepo, deps.EventBus)
	deps.InitiativeHandler = initiative.NewInitiativeHandler(deps.InitiativeService)

	deps.TimeEntryRepo = timeentry.NewTimeEntryRepo(db)
	deps.TimeEntryService = timeentry.NewTimeEntryService(deps.TimeEntryRepo, deps.InitiativeService, deps.EventBus, deps.Clock)
	deps.TimeEntryHandler = timeentry.NewTimeEntryHandler(deps.TimeEntryService)

	deps.ReportingService = reporting.NewReportingService(deps.BudgetRepo, deps.InitiativeRepo, deps.TimeEntryRepo, deps.Clock)
	deps.ReportingHandler = reporting.NewReportingHandler(deps.ReportingService)

	deps.SlackClient = slack.NewClient(cfg.Slack.NotificationWebhookUrl)
	deps.SlackNotifier = slack.NewNotifier(deps.EventBus, deps.SlackClient)
	deps.SlackCommandHandler = slack.NewCommandHandler(
		cfg.Slack.SigningSecret,
		deps.UserService,
		deps.InitiativeService,
		deps.TimeEntryService,
		deps.SlackClient,
		deps.Clock,
	)

	return deps
}
