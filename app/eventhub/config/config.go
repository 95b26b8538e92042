// Package config wires the repositories and use cases shared by the eventhub server
// and the admin tooling.
package config

import (
	"github.com/jrazmi/eventhub/core/repositories/accountsrepo"
	"github.com/jrazmi/eventhub/core/repositories/accountsrepo/stores/accountspgxstore"
	"github.com/jrazmi/eventhub/core/repositories/eventsessionsrepo"
	"github.com/jrazmi/eventhub/core/repositories/eventsessionsrepo/stores/eventsessionspgxstore"
	"github.com/jrazmi/eventhub/core/repositories/eventsrepo"
	"github.com/jrazmi/eventhub/core/repositories/eventsrepo/stores/eventspgxstore"
	"github.com/jrazmi/eventhub/core/repositories/pgxstore"
	"github.com/jrazmi/eventhub/core/repositories/registrationsrepo"
	"github.com/jrazmi/eventhub/core/repositories/registrationsrepo/stores/registrationspgxstore"
	"github.com/jrazmi/eventhub/core/repositories/sessionparticipantsrepo"
	"github.com/jrazmi/eventhub/core/repositories/sessionparticipantsrepo/stores/sessionparticipantspgxstore"
	"github.com/jrazmi/eventhub/core/repositories/sessionsrepo"
	"github.com/jrazmi/eventhub/core/repositories/sessionsrepo/stores/sessionspgxstore"
	"github.com/jrazmi/eventhub/core/repositories/sponsorsrepo"
	"github.com/jrazmi/eventhub/core/repositories/sponsorsrepo/stores/sponsorspgxstore"
	"github.com/jrazmi/eventhub/core/repositories/usersrepo"
	"github.com/jrazmi/eventhub/core/repositories/usersrepo/stores/userspgxstore"
	"github.com/jrazmi/eventhub/core/repositories/verificationtokensrepo"
	"github.com/jrazmi/eventhub/core/repositories/verificationtokensrepo/stores/verificationtokenspgxstore"
	"github.com/jrazmi/eventhub/core/usecases/eventuc"
	"github.com/jrazmi/eventhub/sdk/logger"
	"github.com/jrazmi/eventhub/sdk/telemetry"
)

// AppName is the environment prefix, e.g. EVENTHUB_PG_DATABASE_URL.
const AppName = "EVENTHUB"

// Repositories represents the repositories this instance of eventhub needs.
type Repositories struct {
	Users               *usersrepo.Repository
	Accounts            *accountsrepo.Repository
	Sessions            *sessionsrepo.Repository
	VerificationTokens  *verificationtokensrepo.Repository
	Events              *eventsrepo.Repository
	Registrations       *registrationsrepo.Repository
	EventSessions       *eventsessionsrepo.Repository
	Sponsors            *sponsorsrepo.Repository
	SessionParticipants *sessionparticipantsrepo.Repository
}

// NewRepositories builds every repository on its pgx store.
func NewRepositories(log *logger.Logger, db pgxstore.DB) Repositories {
	return Repositories{
		Users:               usersrepo.NewRepository(log, userspgxstore.NewStore(log, db)),
		Accounts:            accountsrepo.NewRepository(log, accountspgxstore.NewStore(log, db)),
		Sessions:            sessionsrepo.NewRepository(log, sessionspgxstore.NewStore(log, db)),
		VerificationTokens:  verificationtokensrepo.NewRepository(log, verificationtokenspgxstore.NewStore(log, db)),
		Events:              eventsrepo.NewRepository(log, eventspgxstore.NewStore(log, db)),
		Registrations:       registrationsrepo.NewRepository(log, registrationspgxstore.NewStore(log, db)),
		EventSessions:       eventsessionsrepo.NewRepository(log, eventsessionspgxstore.NewStore(log, db)),
		Sponsors:            sponsorsrepo.NewRepository(log, sponsorspgxstore.NewStore(log, db)),
		SessionParticipants: sessionparticipantsrepo.NewRepository(log, sessionparticipantspgxstore.NewStore(log, db)),
	}
}

type UseCases struct {
	Events *eventuc.UseCase
}

// NewUseCases composes the use cases over repos.
func NewUseCases(log *logger.Logger, repos Repositories) UseCases {
	return UseCases{
		Events: eventuc.New(eventuc.Config{
			Log:           log,
			Users:         repos.Users,
			Accounts:      repos.Accounts,
			Events:        repos.Events,
			Registrations: repos.Registrations,
			EventSessions: repos.EventSessions,
			Sponsors:      repos.Sponsors,
			Participants:  repos.SessionParticipants,
		}),
	}
}

// Eventhub is the overall configuration for the eventhub application.
type Eventhub struct {
	Build        string
	Logger       *logger.Logger
	Repositories Repositories
	UseCases     UseCases
	Telemetry    telemetry.Telemetry
}
