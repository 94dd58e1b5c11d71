package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Spikeyfun/prediction/internal/api/middlewares"
	"github.com/Spikeyfun/prediction/internal/config"
	"github.com/Spikeyfun/prediction/internal/services"
	"github.com/Spikeyfun/prediction/internal/types"
)

type Handler struct {
	config   *config.Config
	services *services.Services
}

type PublicResponse[T any] struct {
	Data T `json:"data"`
}

type Result struct {
	Data   interface{}
	Status int
}

// NewResult returns a successful result, with default status code 200
func NewResult[T any](data T) *Result {
	res := &PublicResponse[T]{Data: data}
	return &Result{Data: res, Status: http.StatusOK}
}

func New(
	ctx context.Context, cfg *config.Config, services *services.Services,
) (*Handler, error) {
	return &Handler{
		config:   cfg,
		services: services,
	}, nil
}

// requireCaller extracts the caller identity attached by the identity
// middleware; operations that act on behalf of a caller cannot proceed
// without one.
func requireCaller(request *http.Request) (string, *types.Error) {
	identity := middlewares.CallerIdentity(request)
	if identity == "" {
		return "", types.NewErrorWithMsg(
			http.StatusUnauthorized, types.Unauthorized, "missing caller identity",
		)
	}
	return identity, nil
}

func parseSlotIDQuery(request *http.Request, queryName string) (uint64, *types.Error) {
	value := request.URL.Query().Get(queryName)
	if value == "" {
		return 0, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, queryName+" is required",
		)
	}
	slotID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid "+queryName,
		)
	}
	return slotID, nil
}
