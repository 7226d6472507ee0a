package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/moradaviva/amenity-reservation/internal/model"
    "github.com/moradaviva/amenity-reservation/internal/repository"
    "github.com/moradaviva/amenity-reservation/internal/termgate"
)

// OpenTermSession handles POST /v1/reservations/:id/term/session.  It
// starts (or restarts) the timed reading session for the reservation's
// term of responsibility.  Reading progress is never persisted: coming
// back to the screen always starts over at zero.
func (h *ResidentHandler) OpenTermSession(c echo.Context) error {
    res, errResp := h.loadOwned(c)
    if res == nil {
        return errResp
    }
    userID, _ := currentUserID(c)
    if _, err := h.Terms.GetByReservation(c.Request().Context(), res.ID); err == nil {
        return c.JSON(http.StatusConflict, echo.Map{"error": "term already signed"})
    } else if !errors.Is(err, sql.ErrNoRows) {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    s := h.Gates.Open(userID, res.ID)
    return c.JSON(http.StatusCreated, echo.Map{
        "session":         s.ID,
        "declaracao":      model.TermStatement(res.Nome, res.Apartamento),
        "requiredSeconds": h.Gates.RequiredSeconds(),
    })
}

// TermSessionState handles GET /v1/reservations/:id/term/session.  It
// reports whether the acceptance checkbox is actionable yet and, while
// reading, how many seconds remain.
func (h *ResidentHandler) TermSessionState(c echo.Context) error {
    res, errResp := h.loadOwned(c)
    if res == nil {
        return errResp
    }
    userID, _ := currentUserID(c)
    s := h.Gates.Get(userID, res.ID)
    if s == nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no open reading session"})
    }
    state, remaining := s.Gate.State()
    return c.JSON(http.StatusOK, echo.Map{
        "session":          s.ID,
        "state":            state,
        "remainingSeconds": remaining,
    })
}

// DiscardTermSession handles DELETE /v1/reservations/:id/term/session.
// Leaving the flow stops the session's ticker; partial progress is
// dropped by design.
func (h *ResidentHandler) DiscardTermSession(c echo.Context) error {
    res, errResp := h.loadOwned(c)
    if res == nil {
        return errResp
    }
    userID, _ := currentUserID(c)
    h.Gates.Discard(userID, res.ID)
    return c.NoContent(http.StatusNoContent)
}

// SubmitTerm handles POST /v1/reservations/:id/term.  The precondition
// is an Eligible reading session plus the ticked acceptance box; a
// premature submit is rejected locally with the remaining seconds and no
// I/O happens.  A store failure keeps the session (and its eligibility)
// alive so the user retries without re-waiting; success writes the
// one-time term record and closes the session.
func (h *ResidentHandler) SubmitTerm(c echo.Context) error {
    res, errResp := h.loadOwned(c)
    if res == nil {
        return errResp
    }
    userID, _ := currentUserID(c)
    var body struct {
        Accepted bool   `json:"accepted"`
        CPF      string `json:"cpf"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    s := h.Gates.Get(userID, res.ID)
    if s == nil {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no open reading session"})
    }
    if err := s.Gate.CheckSubmit(body.Accepted); err != nil {
        var notEligible *termgate.ErrNotEligible
        if errors.As(err, &notEligible) {
            return c.JSON(http.StatusUnprocessableEntity, echo.Map{
                "error":            "reading time not elapsed",
                "remainingSeconds": notEligible.Remaining,
            })
        }
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "terms not accepted"})
    }
    cpf := body.CPF
    if cpf == "" {
        cpf = res.CPF
    }
    term := model.NewTermAcceptance(res.Nome, res.Apartamento, cpf, time.Now())
    if err := h.Terms.Submit(c.Request().Context(), res.ID, term); err != nil {
        if errors.Is(err, repository.ErrTermAlreadySigned) {
            h.Gates.Discard(userID, res.ID)
            return c.JSON(http.StatusConflict, echo.Map{"error": "term already signed"})
        }
        // Session stays open on purpose: eligibility survives a failed
        // write so the user need not read the term again.
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit term"})
    }
    h.Gates.Discard(userID, res.ID)
    return c.JSON(http.StatusCreated, term)
}

// GetTerm handles GET /v1/reservations/:id/term, returning the signed
// record when one exists.
func (h *ResidentHandler) GetTerm(c echo.Context) error {
    res, errResp := h.loadOwned(c)
    if res == nil {
        return errResp
    }
    term, err := h.Terms.GetByReservation(c.Request().Context(), res.ID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "term not signed"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, term)
}
