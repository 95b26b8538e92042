// Package usersrepobridge serves users over HTTP.
package usersrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrazmi/eventhub/bridge/scaffolding/crudbridge"
	"github.com/jrazmi/eventhub/bridge/scaffolding/errs"
	"github.com/jrazmi/eventhub/bridge/scaffolding/fopbridge"
	"github.com/jrazmi/eventhub/core/repositories/usersrepo"
	"github.com/jrazmi/eventhub/core/usecases/eventuc"
	"github.com/jrazmi/eventhub/infrastructure/web"
	"github.com/jrazmi/eventhub/sdk/logger"
)

// Config holds configuration for the User bridge
type Config struct {
	Log        *logger.Logger
	Repository *usersrepo.Repository
	UseCase    *eventuc.UseCase
	Middleware []web.Middleware
}

type bridge struct {
	*crudbridge.Bridge[usersrepo.User, usersrepo.CreateUser, usersrepo.UpdateUser, usersrepo.UserFilter]
	log        *logger.Logger
	repository *usersrepo.Repository
	useCase    *eventuc.UseCase
}

// AddHttpRoutes registers all HTTP routes for User
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := &bridge{
		Bridge: crudbridge.New(crudbridge.Config[usersrepo.User, usersrepo.CreateUser, usersrepo.UpdateUser, usersrepo.UserFilter]{
			Repository:   cfg.Repository,
			Resource:     "users",
			IDParam:      "user_id",
			OrderFields:  orderByFields,
			DefaultOrder: usersrepo.DefaultOrderBy,
			PKColumn:     usersrepo.PKColumn,
			Filter:       parseFilter,
		}),
		log:        cfg.Log,
		repository: cfg.Repository,
		useCase:    cfg.UseCase,
	}

	b.AddRoutes(group, cfg.Middleware...)
	group.GET("/users/lookup", b.httpLookup, cfg.Middleware...)
	group.GET("/users/{user_id}/detail", b.httpDetail, cfg.Middleware...)
}

// httpLookup finds a user by ?email=.
func (b *bridge) httpLookup(ctx context.Context, r *http.Request) web.Encoder {
	email := web.QueryParam(r, "email")
	if email == "" {
		return errs.NewFieldErrors("email", errors.New("is required"))
	}

	user, err := b.repository.GetByEmail(ctx, email)
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.NewRecordResponse(user)
}

func (b *bridge) httpDetail(ctx context.Context, r *http.Request) web.Encoder {
	if b.useCase == nil {
		return errs.Newf(errs.Unimplemented, "user detail is not configured")
	}
	detail, err := b.useCase.UserDetail(ctx, web.Param(r, "user_id"))
	if err != nil {
		return b.Error(err)
	}
	return fopbridge.NewRecordResponse(detail)
}
