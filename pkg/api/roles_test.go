package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLandingRoute(t *testing.T) {
	cases := map[UserType]string{
		UserTypePersonal:     "/dashboard/personal",
		UserTypeAluno:        "/dashboard/aluno",
		UserTypeAdmin:        "/dashboard/academia",
		UserTypeAdminSistema: "/dashboard/admin",
		UserType("OUTRO"):    "/dashboard",
		UserType(""):         "/dashboard",
	}
	for ut, want := range cases {
		assert.Equal(t, want, LandingRoute(ut), "user_type %q", ut)
	}
}

func TestParsePeriodo(t *testing.T) {
	assert.Equal(t, PeriodoSemana, ParsePeriodo("semana"))
	assert.Equal(t, PeriodoTrimestre, ParsePeriodo("trimestre"))
	assert.Equal(t, PeriodoAno, ParsePeriodo("ano"))
	assert.Equal(t, PeriodoMes, ParsePeriodo("mes"))
	assert.Equal(t, PeriodoMes, ParsePeriodo(""))
	assert.Equal(t, PeriodoMes, ParsePeriodo("decada"))

	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.AddDate(0, 0, -7), PeriodoSemana.Since(now))
	assert.Equal(t, 365, PeriodoAno.Days())
}

func TestDateAge(t *testing.T) {
	d, err := ParseDate("2000-06-15")
	assert.NoError(t, err)
	assert.Equal(t, 23, d.Age(time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24, d.Age(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)))

	b, err := d.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"2000-06-15"`, string(b))
}
