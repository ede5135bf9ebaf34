package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/plc-visualizer/strintern/internal/intern"
	"github.com/plc-visualizer/strintern/internal/models"
)

// Handler serves registry diagnostics.
type Handler struct {
	source RegistrySource
	log    *logrus.Entry
}

// NewHandler creates a new API handler. A nil logger uses the logrus standard logger.
func NewHandler(source RegistrySource, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		source: source,
		log:    logger.WithField("component", "api"),
	}
}

// HandleStats returns registry counters.
func (h *Handler) HandleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, models.NewStats(h.source()))
}

// HandleSnapshot returns the full table as JSON.
func (h *Handler) HandleSnapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, models.NewSnapshot(h.source()))
}

// HandleSnapshotMsgpack returns the full table as msgpack.
func (h *Handler) HandleSnapshotMsgpack(c echo.Context) error {
	data, err := msgpack.Marshal(models.NewSnapshot(h.source()))
	if err != nil {
		return RespondWithError(c, NewInternalError("failed to encode msgpack", err))
	}

	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleIntern interns the posted text.
func (h *Handler) HandleIntern(c echo.Context) error {
	var req models.InternRequest
	if err := c.Bind(&req); err != nil {
		return RespondWithError(c, NewBadRequestError("invalid request body", err))
	}
	if req.Text == nil {
		return RespondWithError(c, NewValidationError("text"))
	}

	hd, created := h.source().Insert(*req.Text)
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.log.WithField("id", hd.ID().String()).Debug("interned via api")
	}
	return c.JSON(status, models.InternResponse{
		EntryView: models.NewEntryView(intern.Entry{ID: hd.ID(), Text: hd.Text()}),
		Created:   created,
	})
}

// HandleResolve looks up an identifier given in decimal or 0x-prefixed hex.
func (h *Handler) HandleResolve(c echo.Context) error {
	raw := c.Param("id")
	id, err := intern.ParseID(raw)
	if err != nil {
		return RespondWithError(c, NewBadRequestError("invalid id", err))
	}

	text, ok := h.source().Resolve(id)
	if !ok {
		return RespondWithError(c, NewNotFoundError("interned string", raw))
	}

	return c.JSON(http.StatusOK, models.NewEntryView(intern.Entry{ID: id, Text: text}))
}

// HandleInterned reports presence for ?text= or ?id=.
func (h *Handler) HandleInterned(c echo.Context) error {
	r := h.source()

	var id intern.ID
	switch {
	case c.QueryParams().Has("text"):
		id = r.Hash(c.QueryParam("text"))
	case c.QueryParam("id") != "":
		parsed, err := intern.ParseID(c.QueryParam("id"))
		if err != nil {
			return RespondWithError(c, NewBadRequestError("invalid id", err))
		}
		id = parsed
	default:
		return RespondWithError(c, NewValidationError("text or id"))
	}

	return c.JSON(http.StatusOK, models.PresenceResponse{
		Interned: r.IsInternedID(id),
		ID:       strconv.FormatUint(uint64(id), 10),
		Hex:      "0x" + id.String(),
	})
}
