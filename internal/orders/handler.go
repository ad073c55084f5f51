package orders

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
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
	idParam  = "orderId"
	orderKey = "orders.order"
)

// Messages returned by the order checks.
const (
	MsgDeliverTo     = "Order must include a deliverTo property."
	MsgMobileNumber  = "Order must include a mobileNumber property."
	MsgDishes        = "Order must include at least one dish."
	MsgStatus        = "Order must have a status of pending, preparing, out-for-delivery, or delivered."
	MsgDelivered     = "A delivered order cannot be changed."
	MsgDeletePending = "An order cannot be deleted unless it is pending."
)

// HandlerConfig groups dependencies for the orders handler.
type HandlerConfig struct {
	Store     *store.Memory[Order]
	IDs       *ids.Generator
	Checker   *validation.Checker
	Publisher events.Publisher
	Log       *zap.Logger
}

type handler struct {
	cfg HandlerConfig
	mu  sync.Mutex // held across lookup-then-mutate chains
}

// RegisterRoutes registers the /orders routes on r.
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
		validation.StringField(k, "deliverTo", MsgDeliverTo),
		validation.StringField(k, "mobileNumber", MsgMobileNumber),
		validation.ListField(k, "dishes", MsgDishes),
		pipeline.NewStep("dish quantities", h.dishQuantities),
	}
	exists := pipeline.NewStep("order exists", h.orderExists)

	r.GET("/orders", pipeline.Chain(pipeline.NewStep("list", h.list)))

	create := append([]pipeline.Step{}, bodyChecks...)
	create = append(create,
		pipeline.NewStep("status if present", h.statusIfPresent),
		pipeline.NewStep("create", h.create),
	)
	r.POST("/orders", pipeline.Exclusive(&h.mu), pipeline.Chain(create...))

	r.GET("/orders/:"+idParam, pipeline.Chain(exists, pipeline.NewStep("read", h.read)))

	update := []pipeline.Step{
		exists,
		pipeline.NewStep("not delivered", h.notDelivered),
		validation.IDMatchesRoute(idParam, "Order"),
		validation.OneOfField(k, "status", MsgStatus, statusNames()...),
	}
	update = append(update, bodyChecks...)
	update = append(update, pipeline.NewStep("update", h.update))
	r.PUT("/orders/:"+idParam, pipeline.Exclusive(&h.mu), pipeline.Chain(update...))

	r.DELETE("/orders/:"+idParam, pipeline.Exclusive(&h.mu), pipeline.Chain(
		exists,
		pipeline.NewStep("is pending", h.isPending),
		pipeline.NewStep("destroy", h.destroy),
	))
}

func statusNames() []string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return names
}

func (h *handler) orderExists(c *gin.Context) error {
	id := c.Param(idParam)
	order, ok := h.cfg.Store.Get(id)
	if !ok {
		return pipeline.NotFound("No matching order is found for orderId %s.", id)
	}
	c.Set(orderKey, order)
	return nil
}

func (h *handler) notDelivered(c *gin.Context) error {
	if c.MustGet(orderKey).(Order).Status == StatusDelivered {
		return pipeline.Validation(MsgDelivered)
	}
	return nil
}

func (h *handler) isPending(c *gin.Context) error {
	if c.MustGet(orderKey).(Order).Status != StatusPending {
		return pipeline.Validation(MsgDeletePending)
	}
	return nil
}

// dishQuantities reports every dish entry without a positive integer
// quantity in a single error.
func (h *handler) dishQuantities(c *gin.Context) error {
	p, err := validation.PayloadFrom(c)
	if err != nil {
		return err
	}
	list, _ := h.cfg.Checker.NonEmptyList(p["dishes"])
	bad := h.cfg.Checker.InvalidIndices(list, "quantity")
	switch len(bad) {
	case 0:
		return nil
	case 1:
		return pipeline.Validation("Dish %d must have a quantity that is an integer greater than 0.", bad[0])
	}
	idx := make([]string, len(bad))
	for i, b := range bad {
		idx[i] = strconv.Itoa(b)
	}
	return pipeline.Validation("Dishes %s must have a quantity that is an integer greater than 0.", strings.Join(idx, ", "))
}

// statusIfPresent lets a new order omit status (it starts pending) but
// rejects one outside the lifecycle.
func (h *handler) statusIfPresent(c *gin.Context) error {
	p, err := validation.PayloadFrom(c)
	if err != nil {
		return err
	}
	v, ok := p["status"]
	if !ok || v == nil {
		return nil
	}
	if s, isString := v.(string); !isString || !Status(s).Valid() {
		return pipeline.Validation(MsgStatus)
	}
	return nil
}

func (h *handler) list(c *gin.Context) error {
	c.JSON(http.StatusOK, gin.H{"data": h.cfg.Store.List()})
	return nil
}

func (h *handler) read(c *gin.Context) error {
	c.JSON(http.StatusOK, gin.H{"data": c.MustGet(orderKey).(Order)})
	return nil
}

func (h *handler) create(c *gin.Context) error {
	p, err := validation.PayloadFrom(c)
	if err != nil {
		return err
	}
	var order Order
	if err := validation.Decode(p, &order, "id"); err != nil {
		return err
	}
	if order.Status == "" {
		order.Status = StatusPending
	}
	order.ID = h.cfg.IDs.Next(h.cfg.Store.Has)
	if err := h.cfg.Store.Append(order); err != nil {
		return fmt.Errorf("append order %s: %w", order.ID, err)
	}

	h.publish(c, events.OrderCreated, order)
	c.JSON(http.StatusCreated, gin.H{"data": order})
	return nil
}

func (h *handler) update(c *gin.Context) error {
	p, err := validation.PayloadFrom(c)
	if err != nil {
		return err
	}
	order := c.MustGet(orderKey).(Order)
	updated, err := validation.MergeExisting(order, p, "id")
	if err != nil {
		return err
	}
	if !reflect.DeepEqual(updated, order) {
		if err := h.cfg.Store.Replace(updated); err != nil {
			return fmt.Errorf("replace order %s: %w", order.ID, err)
		}
		h.publish(c, events.OrderUpdated, updated)
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
	return nil
}

func (h *handler) destroy(c *gin.Context) error {
	order := c.MustGet(orderKey).(Order)
	if err := h.cfg.Store.Delete(order.ID); err != nil {
		return fmt.Errorf("delete order %s: %w", order.ID, err)
	}

	h.publish(c, events.OrderDeleted, order)
	c.Status(http.StatusNoContent)
	return nil
}

func (h *handler) publish(c *gin.Context, t events.Type, order Order) {
	ev := events.New(t, order.ID)
	ev.Status = string(order.Status)
	ev.CorrelationID = logger.RequestID(c)
	if err := h.cfg.Publisher.Publish(c.Request.Context(), ev); err != nil {
		h.cfg.Log.Warn("publish order event",
			zap.String("type", string(t)),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}
