package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/visitor-pass-service/internal/model"
	"github.com/iliyamo/visitor-pass-service/internal/occupancy"
	"github.com/iliyamo/visitor-pass-service/internal/qr"
	"github.com/iliyamo/visitor-pass-service/internal/queue"
	"github.com/iliyamo/visitor-pass-service/internal/repository"
	"github.com/iliyamo/visitor-pass-service/internal/utils"
)

// PassStore is the persistence surface the pass endpoints need. It
// is implemented by *repository.PassRepo; tests substitute a fake.
type PassStore interface {
	Create(ctx context.Context, p *model.Pass) error
	AttachQRImage(ctx context.Context, id uint64, image string) error
	GetByID(ctx context.Context, id uint64) (*repository.PassDetail, error)
	QRImage(ctx context.Context, id uint64) (*string, error)
	List(ctx context.Context, f repository.PassFilter) ([]repository.PassDetail, error)
	Update(ctx context.Context, id uint64, upd repository.PassUpdate) (*repository.PassDetail, error)
	Delete(ctx context.Context, id uint64) (*repository.PassDetail, error)
	ListActive(ctx context.Context) ([]occupancy.PassSnapshot, error)
	CheckIn(ctx context.Context, id uint64, now time.Time) error
	CheckOut(ctx context.Context, id uint64, now time.Time) error
}

// PassHandler bundles the dependencies of the pass endpoints.
// Publish is best-effort: a broker outage never fails the request.
// Now is injectable for deterministic tests.
type PassHandler struct {
	Store   PassStore
	Encoder qr.Encoder
	Publish func(ctx context.Context, ev queue.PassIssuedEvent) error
	Now     func() time.Time
}

// NewPassHandler constructs a PassHandler. publish may be nil when
// no broker is configured.
func NewPassHandler(store PassStore, enc qr.Encoder, publish func(context.Context, queue.PassIssuedEvent) error) *PassHandler {
	if store == nil || enc == nil {
		panic("nil dependency passed to NewPassHandler")
	}
	return &PassHandler{Store: store, Encoder: enc, Publish: publish, Now: time.Now}
}

type createPassReq struct {
	Visitor     *uint64    `json:"visitor"`
	Host        *uint64    `json:"host"`
	Appointment *uint64    `json:"appointment"`
	ValidFrom   *time.Time `json:"validFrom"`
	ValidTo     *time.Time `json:"validTo"`
	Building    *string    `json:"building"`
	Purpose     *string    `json:"purpose"`
}

// Create handles POST /api/passes: the two-phase issuance flow.
func (h *PassHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPassReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	// Report every absent mandatory field at once, in the order
	// checked, so the form can mark all of them in one round trip.
	empty := []string{}
	if req.Visitor == nil {
		empty = append(empty, "visitor")
	}
	if req.Host == nil {
		empty = append(empty, "host")
	}
	if req.ValidFrom == nil {
		empty = append(empty, "validFrom")
	}
	if req.ValidTo == nil {
		empty = append(empty, "validTo")
	}
	if len(empty) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":       "please fill out all the fields",
			"emptyFields": empty,
		})
	}

	now := h.Now().UTC()
	passNumber := utils.NewPassNumber(now)
	qrData, err := qr.Payload(passNumber)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	pass := &model.Pass{
		PassNumber:    passNumber,
		VisitorID:     *req.Visitor,
		HostID:        *req.Host,
		AppointmentID: req.Appointment,
		QRData:        qrData,
		ValidFrom:     req.ValidFrom,
		ValidTo:       req.ValidTo,
		Building:      req.Building,
		Purpose:       req.Purpose,
		Status:        model.PassStatusActive,
		CreatedBy:     userID,
	}

	ctx := c.Request().Context()
	if err := h.Store.Create(ctx, pass); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	// Phase two: encode and attach the image. On failure the pass
	// stays in the PENDING image state and the backfill job picks it
	// up later.
	image, err := h.Encoder.Encode(qrData)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if err := h.Store.AttachQRImage(ctx, pass.ID, image); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	det, err := h.Store.GetByID(ctx, pass.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	if h.Publish != nil {
		ev := queue.PassIssuedEvent{
			EventID:     uuid.NewString(),
			PassID:      det.ID,
			PassNumber:  det.PassNumber,
			VisitorName: det.Visitor.Name,
			HostName:    det.Host.Name,
			IssuedBy:    userID,
			IssuedAt:    now.Format(time.RFC3339),
		}
		if det.Building != nil {
			ev.Building = *det.Building
		}
		if det.ValidFrom != nil {
			ev.ValidFrom = det.ValidFrom.Format(time.RFC3339)
		}
		if det.ValidTo != nil {
			ev.ValidTo = det.ValidTo.Format(time.RFC3339)
		}
		if err := h.Publish(ctx, ev); err != nil {
			log.Printf("pass-handler: publish pass.issued failed: %v", err)
		}
	}

	return c.JSON(http.StatusCreated, det)
}

// List handles GET /api/passes with optional host/visitor/status
// filters. Non-admin callers only ever see passes they created.
func (h *PassHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var filter repository.PassFilter
	if v := c.QueryParam("visitor"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid visitor filter"})
		}
		filter.VisitorID = &id
	}
	if v := c.QueryParam("host"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid host filter"})
		}
		filter.HostID = &id
	}
	filter.Status = c.QueryParam("status")
	if getRole(c) != model.RoleAdmin {
		filter.CreatedBy = &userID
	}

	passes, err := h.Store.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, passes)
}

// Get handles GET /api/passes/:id.
func (h *PassHandler) Get(c echo.Context) error {
	id, ok := parsePathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such pass"})
	}
	det, err := h.Store.GetByID(c.Request().Context(), id)
	if err == repository.ErrPassNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such pass"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, det)
}

// QR handles GET /api/passes/:id/qr, returning only the stored
// image. The value is null while the pass is awaiting backfill.
func (h *PassHandler) QR(c echo.Context) error {
	id, ok := parsePathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such pass"})
	}
	img, err := h.Store.QRImage(c.Request().Context(), id)
	if err == repository.ErrPassNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such pass"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"qrImage": img})
}

// updatableFields is the allow-list for PUT /api/passes/:id. Any
// other key in the body is rejected by name, which keeps the pass
// number, QR payload and ownership immutable from the outside.
var updatableFields = map[string]bool{
	"status":           true,
	"validFrom":        true,
	"validTo":          true,
	"expectedExitTime": true,
	"entryTime":        true,
	"building":         true,
	"purpose":          true,
	"appointment":      true,
}

var validStatuses = map[string]bool{
	model.PassStatusActive:  true,
	model.PassStatusExpired: true,
	model.PassStatusRevoked: true,
	model.PassStatusUsed:    true,
}

type updatePassReq struct {
	Status           *string    `json:"status"`
	ValidFrom        *time.Time `json:"validFrom"`
	ValidTo          *time.Time `json:"validTo"`
	ExpectedExitTime *time.Time `json:"expectedExitTime"`
	EntryTime        *time.Time `json:"entryTime"`
	Building         *string    `json:"building"`
	Purpose          *string    `json:"purpose"`
	Appointment      *uint64    `json:"appointment"`
}

// Update handles PUT /api/passes/:id.
func (h *PassHandler) Update(c echo.Context) error {
	id, ok := parsePathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such pass"})
	}

	// Decode to raw keys first so fields outside the allow-list can
	// be named in the rejection instead of being merged silently.
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	rejected := []string{}
	for k := range raw {
		if !updatableFields[k] {
			rejected = append(rejected, k)
		}
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "field not updatable",
			"fields": rejected,
		})
	}

	var req updatePassReq
	body, _ := json.Marshal(raw)
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Status != nil && !validStatuses[strings.ToUpper(*req.Status)] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	det, err := h.Store.Update(c.Request().Context(), id, repository.PassUpdate{
		Status:           req.Status,
		ValidFrom:        req.ValidFrom,
		ValidTo:          req.ValidTo,
		ExpectedExitTime: req.ExpectedExitTime,
		EntryTime:        req.EntryTime,
		Building:         req.Building,
		Purpose:          req.Purpose,
		AppointmentID:    req.Appointment,
	})
	if err == repository.ErrPassNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such pass"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, det)
}

// Delete handles DELETE /api/passes/:id and returns the removed
// pass's last state.
func (h *PassHandler) Delete(c echo.Context) error {
	id, ok := parsePathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such pass"})
	}
	det, err := h.Store.Delete(c.Request().Context(), id)
	if err == repository.ErrPassNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such pass"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, det)
}

// CheckIn handles POST /api/passes/:id/checkin.
func (h *PassHandler) CheckIn(c echo.Context) error {
	return h.transition(c, h.Store.CheckIn)
}

// CheckOut handles POST /api/passes/:id/checkout.
func (h *PassHandler) CheckOut(c echo.Context) error {
	return h.transition(c, h.Store.CheckOut)
}

func (h *PassHandler) transition(c echo.Context, op func(context.Context, uint64, time.Time) error) error {
	id, ok := parsePathID(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such pass"})
	}
	ctx := c.Request().Context()
	switch err := op(ctx, id, h.Now().UTC()); err {
	case nil:
	case repository.ErrPassNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no such pass"})
	case repository.ErrPassNotActive, repository.ErrAlreadyInside, repository.ErrNotCheckedIn:
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	det, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, det)
}

// Live handles GET /api/passes/live: the occupancy snapshot the
// dashboard polls.
func (h *PassHandler) Live(c echo.Context) error {
	snapshot, err := h.Store.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to fetch live visitors"})
	}
	return c.JSON(http.StatusOK, occupancy.Compute(h.Now().UTC(), snapshot))
}
