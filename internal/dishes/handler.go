package dishes

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-grubdash/internal/events"
	"github.com/imrishuroy/go-grubdash/internal/ids"
	"github.com/imrishuroy/go-grubdash/internal/logger"
	"github.com/imrishuroy/go-grubdash/internal/pipeline"
	"github.com/imrishuroy/go-grubdash/internal/store"
	"github.com/imrishuroy/go-grubdash/internal/validation"
)

const (
	idParam = "dishId"
	dishKey = "dishes.dish"
)

// Messages returned by the dish checks.
const (
	MsgName        = "Dish must include a name."
	MsgDescription = "Dish must include a description."
	MsgPrice       = "Dish must include a price and it must be an integer greater than 0."
	MsgImageURL    = "Dish must include an image_url."
)

// HandlerConfig groups dependencies for the dishes handler.
type HandlerConfig struct {
	Store     *store.Memory[Dish]
	IDs       *ids.Generator
	Checker   *validation.Checker
	Publisher events.Publisher
	Log       *zap.Logger
}

type handler struct {
	cfg HandlerConfig
	mu  sync.Mutex // held across lookup-then-mutate chains
}

// RegisterRoutes registers the /dishes routes on r. Dishes cannot be deleted.
func RegisterRoutes(r gin.IRouter, cfg HandlerConfig) {
	if cfg.IDs == nil {
		cfg.IDs = ids.NewGenerator()
	}
	if cfg.Checker == nil {
		cfg.Checker = validation.NewChecker()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.Nop{}
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	h := &handler{cfg: cfg}
	k := cfg.Checker

	bodyChecks := []pipeline.Step{
		validation.StringField(k, "name", MsgName),
		validation.StringField(k, "description", MsgDescription),
		validation.IntegerField(k, "price", MsgPrice),
		validation.StringField(k, "image_url", MsgImageURL),
	}
	exists := pipeline.NewStep("dish exists", h.dishExists)

	r.GET("/dishes", pipeline.Chain(pipeline.NewStep("list", h.list)))
	r.POST("/dishes", pipeline.Exclusive(&h.mu), pipeline.Chain(
		append(bodyChecks, pipeline.NewStep("create", h.create))...,
	))
	r.GET("/dishes/:"+idParam, pipeline.Chain(exists, pipeline.NewStep("read", h.read)))

	update := []pipeline.Step{exists, validation.IDMatchesRoute(idParam, "Dish")}
	update = append(update, bodyChecks...)
	update = append(update, pipeline.NewStep("update", h.update))
	r.PUT("/dishes/:"+idParam, pipeline.Exclusive(&h.mu), pipeline.Chain(update...))
}

func (h *handler) dishExists(c *gin.Context) error {
	id := c.Param(idParam)
	dish, ok := h.cfg.Store.Get(id)
	if !ok {
		return pipeline.NotFound("Dish does not exist: %s.", id)
	}
	c.Set(dishKey, dish)
	return nil
}

func (h *handler) list(c *gin.Context) error {
	c.JSON(http.StatusOK, gin.H{"data": h.cfg.Store.List()})
	return nil
}

func (h *handler) read(c *gin.Context) error {
	c.JSON(http.StatusOK, gin.H{"data": c.MustGet(dishKey).(Dish)})
	return nil
}

func (h *handler) create(c *gin.Context) error {
	p, err := validation.PayloadFrom(c)
	if err != nil {
		return err
	}
	var dish Dish
	if err := validation.Decode(p, &dish, "id"); err != nil {
		return err
	}
	dish.ID = h.cfg.IDs.Next(h.cfg.Store.Has)
	if err := h.cfg.Store.Append(dish); err != nil {
		return fmt.Errorf("append dish %s: %w", dish.ID, err)
	}

	h.publish(c, events.New(events.DishCreated, dish.ID))
	c.JSON(http.StatusCreated, gin.H{"data": dish})
	return nil
}

func (h *handler) update(c *gin.Context) error {
	p, err := validation.PayloadFrom(c)
	if err != nil {
		return err
	}
	dish := c.MustGet(dishKey).(Dish)
	updated, err := validation.MergeExisting(dish, p, "id")
	if err != nil {
		return err
	}
	if updated != dish {
		if err := h.cfg.Store.Replace(updated); err != nil {
			return fmt.Errorf("replace dish %s: %w", dish.ID, err)
		}
		h.publish(c, events.New(events.DishUpdated, dish.ID))
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
	return nil
}

func (h *handler) publish(c *gin.Context, ev events.Event) {
	ev.CorrelationID = logger.RequestID(c)
	if err := h.cfg.Publisher.Publish(c.Request.Context(), ev); err != nil {
		h.cfg.Log.Warn("publish dish event",
			zap.String("type", string(ev.Type)),
			zap.String("dish_id", ev.EntityID),
			zap.Error(err),
		)
	}
}
