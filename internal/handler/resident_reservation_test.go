package handler

import (
    "database/sql"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/moradaviva/amenity-reservation/internal/model"
    "github.com/moradaviva/amenity-reservation/internal/repository"
    "github.com/moradaviva/amenity-reservation/internal/termgate"
)

type fixture struct {
    h     *ResidentHandler
    mock  sqlmock.Sqlmock
    gates *termgate.Registry
}

func newFixture(t *testing.T) *fixture {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    gates := termgate.NewRegistry(30, 0)
    h := NewResidentHandler(
        repository.NewReservationRepo(db),
        repository.NewGuestRepo(db),
        repository.NewTermRepo(db),
        gates,
        nil, nil,
    )
    return &fixture{h: h, mock: mock, gates: gates}
}

// ctx builds an echo context the way the JWT middleware leaves it:
// identity claims stored as context values.
func (f *fixture) ctx(method, target, body, userID, apartamento string) (echo.Context, *httptest.ResponseRecorder) {
    var reader *strings.Reader
    if body == "" {
        reader = strings.NewReader("")
    } else {
        reader = strings.NewReader(body)
    }
    req := httptest.NewRequest(method, target, reader)
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    rec := httptest.NewRecorder()
    c := echo.New().NewContext(req, rec)
    if userID != "" {
        c.Set("user_id", userID)
        c.Set("role", "RESIDENT")
        c.Set("apartamento", apartamento)
    }
    return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
    t.Helper()
    var out map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
    return out
}

var resCols = []string{
    "id", "tipo", "nome", "cpf", "apartamento", "id_morador", "data_evento", "data_criacao", "criado_por",
}

func TestCreateReservationAdmits(t *testing.T) {
    f := newFixture(t)
    eventDate := time.Now().UTC().AddDate(0, 0, 10).Format("2006-01-02")

    f.mock.ExpectQuery("SELECT (.+) FROM reservations\\s+WHERE event_day = \\?").
        WillReturnRows(sqlmock.NewRows(resCols))
    f.mock.ExpectBegin()
    f.mock.ExpectQuery("SELECT (.+) FOR UPDATE").WillReturnError(sql.ErrNoRows)
    f.mock.ExpectExec("INSERT INTO reservations").WillReturnResult(sqlmock.NewResult(42, 1))
    f.mock.ExpectCommit()

    body := `{"tipo":"Evento","nome":"Ana Souza","cpf":"123.456.789-00","dataEvento":"` + eventDate + `"}`
    c, rec := f.ctx(http.MethodPost, "/v1/reservations", body, "morador-1", "302")
    require.NoError(t, f.h.CreateReservation(c))

    assert.Equal(t, http.StatusCreated, rec.Code)
    got := decode(t, rec)
    assert.Equal(t, float64(42), got["id"])
    assert.Equal(t, "302", got["apartamento"])
    assert.Equal(t, string(model.StateUpcoming), got["estado"])
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateReservationConflictNamesOccupiedSlot(t *testing.T) {
    f := newFixture(t)
    day := time.Now().UTC().AddDate(0, 0, 10)
    eventDate := day.Format("2006-01-02")

    // Another apartment already holds the Evento slot for that day.
    f.mock.ExpectQuery("SELECT (.+) FROM reservations\\s+WHERE event_day = \\?").
        WillReturnRows(sqlmock.NewRows(resCols).AddRow(
            7, "Evento", "Bruno Lima", "987.654.321-00", "104", "morador-2",
            model.DateOnly(day), day.AddDate(0, 0, -2), nil,
        ))

    body := `{"tipo":"evento","nome":"Ana Souza","cpf":"123.456.789-00","dataEvento":"` + eventDate + `"}`
    c, rec := f.ctx(http.MethodPost, "/v1/reservations", body, "morador-1", "302")
    require.NoError(t, f.h.CreateReservation(c))

    assert.Equal(t, http.StatusConflict, rec.Code)
    got := decode(t, rec)
    conflito, ok := got["conflito"].(map[string]any)
    require.True(t, ok, "conflict body must name the occupied slot")
    assert.Equal(t, "Evento", conflito["tipo"])
    assert.Equal(t, eventDate, conflito["dataEvento"])
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateReservationSameDayOtherCategoryAdmits(t *testing.T) {
    f := newFixture(t)
    day := time.Now().UTC().AddDate(0, 0, 10)
    eventDate := day.Format("2006-01-02")

    f.mock.ExpectQuery("SELECT (.+) FROM reservations\\s+WHERE event_day = \\?").
        WillReturnRows(sqlmock.NewRows(resCols).AddRow(
            7, "Evento", "Bruno Lima", "987.654.321-00", "104", "morador-2",
            model.DateOnly(day), day.AddDate(0, 0, -2), nil,
        ))
    f.mock.ExpectBegin()
    f.mock.ExpectQuery("SELECT (.+) FOR UPDATE").WillReturnError(sql.ErrNoRows)
    f.mock.ExpectExec("INSERT INTO reservations").WillReturnResult(sqlmock.NewResult(43, 1))
    f.mock.ExpectCommit()

    body := `{"tipo":"Mudanca","nome":"Ana Souza","cpf":"123.456.789-00","dataEvento":"` + eventDate + `"}`
    c, rec := f.ctx(http.MethodPost, "/v1/reservations", body, "morador-1", "302")
    require.NoError(t, f.h.CreateReservation(c))

    assert.Equal(t, http.StatusCreated, rec.Code)
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateReservationValidation(t *testing.T) {
    f := newFixture(t)

    cases := map[string]string{
        "missing fields":   `{"tipo":"Evento"}`,
        "unknown category": `{"tipo":"Festa","nome":"Ana","cpf":"1","dataEvento":"2030-01-01"}`,
        "bad date":         `{"tipo":"Evento","nome":"Ana","cpf":"1","dataEvento":"20/07/2030"}`,
    }
    for name, body := range cases {
        t.Run(name, func(t *testing.T) {
            c, rec := f.ctx(http.MethodPost, "/v1/reservations", body, "morador-1", "302")
            require.NoError(t, f.h.CreateReservation(c))
            assert.Equal(t, http.StatusBadRequest, rec.Code)
        })
    }
    // Nothing reached the store.
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateReservationUnauthenticated(t *testing.T) {
    f := newFixture(t)
    c, rec := f.ctx(http.MethodPost, "/v1/reservations", `{}`, "", "")
    require.NoError(t, f.h.CreateReservation(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteReservationForbiddenForOtherApartment(t *testing.T) {
    f := newFixture(t)
    day := time.Now().UTC().AddDate(0, 0, 5)

    f.mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\?").
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows(resCols).AddRow(
            7, "Evento", "Bruno Lima", "987.654.321-00", "104", "morador-2",
            model.DateOnly(day), day.AddDate(0, 0, -2), nil,
        ))

    c, rec := f.ctx(http.MethodDelete, "/v1/reservations/7", "", "morador-1", "302")
    c.SetParamNames("id")
    c.SetParamValues("7")
    require.NoError(t, f.h.DeleteReservation(c))

    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestDeleteReservationCancelsAndReportsState(t *testing.T) {
    f := newFixture(t)
    day := time.Now().UTC().AddDate(0, 0, 5)
    owned := sqlmock.NewRows(resCols).AddRow(
        7, "Evento", "Ana Souza", "123.456.789-00", "302", "morador-1",
        model.DateOnly(day), day.AddDate(0, 0, -2), nil,
    )

    f.mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\?").
        WithArgs(uint64(7)).
        WillReturnRows(owned)
    f.mock.ExpectBegin()
    f.mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\? FOR UPDATE").
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows(resCols).AddRow(
            7, "Evento", "Ana Souza", "123.456.789-00", "302", "morador-1",
            model.DateOnly(day), day.AddDate(0, 0, -2), nil,
        ))
    f.mock.ExpectExec("INSERT INTO reservation_cancellations").
        WillReturnResult(sqlmock.NewResult(1, 1))
    f.mock.ExpectExec("DELETE FROM reservations WHERE id = \\?").
        WithArgs(uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    f.mock.ExpectCommit()

    // An open reading session for the reservation must die with it.
    f.gates.Open("morador-1", 7)

    c, rec := f.ctx(http.MethodDelete, "/v1/reservations/7", "", "morador-1", "302")
    c.SetParamNames("id")
    c.SetParamValues("7")
    require.NoError(t, f.h.DeleteReservation(c))

    assert.Equal(t, http.StatusOK, rec.Code)
    got := decode(t, rec)
    assert.Equal(t, string(model.StateCancelled), got["estado"])
    assert.Nil(t, f.gates.Get("morador-1", 7))
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmitTermBeforeReadingTimeKeepsSession(t *testing.T) {
    f := newFixture(t)
    day := time.Now().UTC().AddDate(0, 0, 5)

    f.mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\?").
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows(resCols).AddRow(
            7, "Evento", "Ana Souza", "123.456.789-00", "302", "morador-1",
            model.DateOnly(day), day.AddDate(0, 0, -2), nil,
        ))

    s := f.gates.Open("morador-1", 7)
    for i := 0; i < 12; i++ {
        s.Gate.Tick()
    }

    c, rec := f.ctx(http.MethodPost, "/v1/reservations/7/term", `{"accepted":true}`, "morador-1", "302")
    c.SetParamNames("id")
    c.SetParamValues("7")
    require.NoError(t, f.h.SubmitTerm(c))

    assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
    got := decode(t, rec)
    assert.Equal(t, float64(18), got["remainingSeconds"])
    // The premature attempt must not reset or close the session.
    require.NotNil(t, f.gates.Get("morador-1", 7))
    _, remaining := f.gates.Get("morador-1", 7).Gate.State()
    assert.Equal(t, 18, remaining)
    assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSubmitTermAfterReadingTimeSigns(t *testing.T) {
    f := newFixture(t)
    day := time.Now().UTC().AddDate(0, 0, 5)

    f.mock.ExpectQuery("SELECT (.+) FROM reservations WHERE id = \\?").
        WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows(resCols).AddRow(
            7, "Evento", "Ana Souza", "123.456.789-00", "302", "morador-1",
            model.DateOnly(day), day.AddDate(0, 0, -2), nil,
        ))
    f.mock.ExpectExec("INSERT INTO reservation_terms").
        WillReturnResult(sqlmock.NewResult(1, 1))

    s := f.gates.Open("morador-1", 7)
    for i := 0; i < 30; i++ {
        s.Gate.Tick()
    }

    c, rec := f.ctx(http.MethodPost, "/v1/reservations/7/term", `{"accepted":true}`, "morador-1", "302")
    c.SetParamNames("id")
    c.SetParamValues("7")
    require.NoError(t, f.h.SubmitTerm(c))

    assert.Equal(t, http.StatusCreated, rec.Code)
    got := decode(t, rec)
    assert.Equal(t, model.TermStatement("Ana Souza", "302"), got["declaracao"])
    assert.Equal(t, "123.456.789-00", got["cpf"])
    // Success closes the reading session.
    assert.Nil(t, f.gates.Get("morador-1", 7))
    assert.NoError(t, f.mock.ExpectationsWereMet())
}
