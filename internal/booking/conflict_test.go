package booking

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/moradaviva/amenity-reservation/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckConflictEmptySetAdmits(t *testing.T) {
    err := CheckConflict(Candidate{Tipo: model.CategoryEvent, DataEvento: day(2024, 7, 20)}, nil)
    assert.NoError(t, err)
}

func TestCheckConflictSameCategorySameDayRejects(t *testing.T) {
    existing := []model.Reservation{{
        ID:         7,
        Tipo:       model.CategoryEvent,
        DataEvento: time.Date(2024, 7, 20, 14, 30, 0, 0, time.UTC),
    }}
    err := CheckConflict(Candidate{Tipo: model.CategoryEvent, DataEvento: day(2024, 7, 20)}, existing)

    var conflict *ConflictError
    require.ErrorAs(t, err, &conflict)
    assert.Equal(t, uint64(7), conflict.Conflicting.ID)
    assert.Contains(t, conflict.Error(), "2024-07-20")
}

func TestCheckConflictDifferentCategorySameDayAdmits(t *testing.T) {
    existing := []model.Reservation{{Tipo: model.CategoryEvent, DataEvento: day(2024, 7, 20)}}
    err := CheckConflict(Candidate{Tipo: model.CategoryMove, DataEvento: day(2024, 7, 20)}, existing)
    assert.NoError(t, err)
}

func TestCheckConflictIgnoresTimeOfDay(t *testing.T) {
    existing := []model.Reservation{{Tipo: model.CategoryMove, DataEvento: time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)}}
    err := CheckConflict(Candidate{
        Tipo:       model.CategoryMove,
        DataEvento: time.Date(2024, 3, 5, 22, 45, 0, 0, time.UTC),
    }, existing)
    assert.Error(t, err)
}

func TestCheckConflictCategoryCaseInsensitive(t *testing.T) {
    existing := []model.Reservation{{Tipo: "EVENTO", DataEvento: day(2024, 7, 20)}}
    err := CheckConflict(Candidate{Tipo: "evento", DataEvento: day(2024, 7, 20)}, existing)
    assert.Error(t, err)
}

func TestCheckConflictResubmissionRejectedLikeAnyDuplicate(t *testing.T) {
    res := model.Reservation{Tipo: model.CategoryEvent, DataEvento: day(2024, 7, 20), Apartamento: "101"}
    err := CheckConflict(Candidate{Tipo: res.Tipo, DataEvento: res.DataEvento}, []model.Reservation{res})
    assert.Error(t, err)
}

func TestCheckConflictDeterministic(t *testing.T) {
    existing := []model.Reservation{
        {Tipo: model.CategoryEvent, DataEvento: day(2024, 7, 20)},
        {Tipo: model.CategoryMove, DataEvento: day(2024, 7, 21)},
    }
    cand := Candidate{Tipo: model.CategoryMove, DataEvento: day(2024, 7, 22)}
    first := CheckConflict(cand, existing)
    second := CheckConflict(cand, existing)
    assert.Equal(t, first, second)
}
