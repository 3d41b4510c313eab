package rest

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/totegamma/textcanon"
	"github.com/totegamma/textcanon/internal/domain"
	"github.com/totegamma/textcanon/internal/usecase"
	"github.com/totegamma/textcanon/internal/utils"
)

type Handler struct {
	contents     *usecase.TextContentUsecase
	canons       *usecase.CanonUsecase
	translations *usecase.TranslationUsecase
	units        *usecase.UnitUsecase
	refs         *usecase.ReferenceUsecase
	logger       *slog.Logger
}

func NewHandler(
	contents *usecase.TextContentUsecase,
	canons *usecase.CanonUsecase,
	translations *usecase.TranslationUsecase,
	units *usecase.UnitUsecase,
	refs *usecase.ReferenceUsecase,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		contents:     contents,
		canons:       canons,
		translations: translations,
		units:        units,
		refs:         refs,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/text-contents", h.handleCreateTextContent)
	e.GET("/text-contents/:id", h.handleGetTextContent)
	e.PATCH("/text-contents/:id", h.handleUpdateTextContent)
	e.DELETE("/text-contents/:id", h.handleDeleteTextContent)
	e.GET("/text-contents/:id/canons", h.handleListCanonsFor)
	e.PUT("/text-contents/:id/canons", h.handleSetCanons)
	e.POST("/text-contents/:id/translations", h.handleAppendTranslation)
	e.GET("/text-contents/:id/translations", h.handleTranslationHistory)
	e.GET("/text-contents/:id/translations/latest", h.handleLatestTranslation)
	e.POST("/translations/:id/promote", h.handlePromoteTranslation)
	e.POST("/translations/:id/confirm", h.handleConfirmTranslation)
	e.GET("/sources/:source/books/:book/units/:group/:unit", h.handleGetByCoordinates)

	e.GET("/canons", h.handleListCanons)
	e.POST("/canons", h.handleSaveCanon)
	e.GET("/canons/:id/text-contents", h.handleFindByCanon)
	e.GET("/canons/:id/units", h.handleListCanonUnits)
	e.POST("/canons/:id/units", h.handleMapToCanon)

	e.POST("/text-units", h.handleRegisterUnit)
	e.GET("/text-units/:unitId", h.handleGetUnit)
	e.PUT("/text-units/:unitId/payloads", h.handlePutPayload)

	e.POST("/languages", h.handleSaveLanguage)
	e.POST("/unit-types", h.handleSaveUnitType)
	e.POST("/sources", h.handleSaveSource)
	e.POST("/books", h.handleSaveBook)
}

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrKeyConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError returns domain error messages verbatim. Anything else is
// logged and reported as a bare internal error.
func (h *Handler) respondError(c echo.Context, err error) error {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(c.Request().Context(), "request failed",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		return c.JSON(status, echo.Map{"error": http.StatusText(status)})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": message})
}

func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func pathString(c echo.Context, name string) string {
	raw := c.Param(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func queryID(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (h *Handler) handleCreateTextContent(c echo.Context) error {
	ctx := c.Request().Context()

	var req textcanon.TextContentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.contents.Create(ctx, req.TextContentFields, req.CanonIDs)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) handleGetTextContent(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid text content id")
	}

	content, err := h.contents.Get(ctx, id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, content)
}

func (h *Handler) handleUpdateTextContent(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid text content id")
	}

	var req textcanon.TextContentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.contents.Update(ctx, id, req.TextContentFields, req.CanonIDs)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) handleDeleteTextContent(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid text content id")
	}

	if err := h.contents.Delete(ctx, id); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func canonsResponse(refs []domain.CanonRef) textcanon.CanonsResponse[*utils.OrderedMap[domain.CanonRef]] {
	byCode := utils.NewOrderedMap[domain.CanonRef]()
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
		byCode.Set(ref.Code, ref)
	}
	return textcanon.CanonsResponse[*utils.OrderedMap[domain.CanonRef]]{Names: names, ByCode: byCode}
}

func (h *Handler) handleListCanonsFor(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid text content id")
	}

	refs, err := h.canons.ListCanonsFor(ctx, id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, canonsResponse(refs))
}

func (h *Handler) handleSetCanons(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid text content id")
	}

	var req textcanon.SetCanonsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	refs, err := h.canons.SetCanons(ctx, id, req.CanonIDs)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, canonsResponse(refs))
}

func (h *Handler) handleAppendTranslation(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid text content id")
	}

	var req textcanon.AppendTranslationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	revision, err := h.translations.AppendRevision(ctx, id, req.LanguageID, req.TranslationFields)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, revision)
}

func (h *Handler) handleTranslationHistory(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid text content id")
	}
	languageID, err := queryID(c, "language")
	if err != nil {
		return badRequest(c, "invalid language parameter")
	}

	history, err := h.translations.History(ctx, id, languageID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

func (h *Handler) handleLatestTranslation(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid text content id")
	}
	languageID, err := queryID(c, "language")
	if err != nil || languageID == 0 {
		return badRequest(c, "language parameter is required")
	}

	latest, err := h.translations.LatestFor(ctx, id, languageID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, latest)
}

func (h *Handler) handlePromoteTranslation(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid translation id")
	}

	promoted, err := h.translations.Promote(ctx, id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, promoted)
}

func (h *Handler) handleConfirmTranslation(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid translation id")
	}

	var req textcanon.ConfirmTranslationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	confirmed, err := h.translations.Confirm(ctx, id, req.ConfirmedBy)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, confirmed)
}

func (h *Handler) handleGetByCoordinates(c echo.Context) error {
	ctx := c.Request().Context()

	content, err := h.contents.GetByCoordinates(ctx, textcanon.UnitCoordinates{
		SourceCode: pathString(c, "source"),
		BookCode:   pathString(c, "book"),
		UnitGroup:  pathString(c, "group"),
		Unit:       pathString(c, "unit"),
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, content)
}

func (h *Handler) handleListCanons(c echo.Context) error {
	canons, err := h.refs.ListCanons(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, canons)
}

func (h *Handler) handleFindByCanon(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid canon id")
	}

	contents, err := h.canons.FindByCanon(ctx, id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, contents)
}

func (h *Handler) handleListCanonUnits(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid canon id")
	}

	units, err := h.units.ListCanonUnits(ctx, id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, units)
}

func (h *Handler) handleMapToCanon(c echo.Context) error {
	ctx := c.Request().Context()
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid canon id")
	}

	var req textcanon.CanonMapRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	mapped, err := h.units.MapToCanon(ctx, id, req.UnitID, req.Sequence)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, mapped)
}

func (h *Handler) handleRegisterUnit(c echo.Context) error {
	ctx := c.Request().Context()

	var unit domain.TextUnit
	if err := c.Bind(&unit); err != nil {
		return badRequest(c, err.Error())
	}

	registered, err := h.units.RegisterUnit(ctx, unit)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, registered)
}

func (h *Handler) handleGetUnit(c echo.Context) error {
	detail, err := h.units.GetUnit(c.Request().Context(), pathString(c, "unitId"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handler) handlePutPayload(c echo.Context) error {
	ctx := c.Request().Context()

	var req textcanon.PayloadRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}

	payload, err := h.units.PutPayload(ctx, domain.TextPayload{
		UnitID:     pathString(c, "unitId"),
		EditionID:  req.EditionID,
		Layer:      req.Layer,
		LanguageID: req.LanguageID,
		Content:    req.Content,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, payload)
}

func (h *Handler) handleSaveLanguage(c echo.Context) error {
	var l domain.Language
	if err := c.Bind(&l); err != nil {
		return badRequest(c, err.Error())
	}
	saved, err := h.refs.SaveLanguage(c.Request().Context(), l)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *Handler) handleSaveUnitType(c echo.Context) error {
	var u domain.UnitType
	if err := c.Bind(&u); err != nil {
		return badRequest(c, err.Error())
	}
	saved, err := h.refs.SaveUnitType(c.Request().Context(), u)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *Handler) handleSaveSource(c echo.Context) error {
	var s domain.Source
	if err := c.Bind(&s); err != nil {
		return badRequest(c, err.Error())
	}
	saved, err := h.refs.SaveSource(c.Request().Context(), s)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *Handler) handleSaveBook(c echo.Context) error {
	var b domain.Book
	if err := c.Bind(&b); err != nil {
		return badRequest(c, err.Error())
	}
	saved, err := h.refs.SaveBook(c.Request().Context(), b)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *Handler) handleSaveCanon(c echo.Context) error {
	var canon domain.Canon
	if err := c.Bind(&canon); err != nil {
		return badRequest(c, err.Error())
	}
	saved, err := h.refs.SaveCanon(c.Request().Context(), canon)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}
