package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tteodorogustavo/athlos/pkg/api"
)

// DashboardService fetches the per-role dashboard figures.
type DashboardService struct{ c *Client }

func (s *DashboardService) Personal(ctx context.Context) (*api.PersonalDashboard, error) {
	var out api.PersonalDashboard
	if err := s.c.do(ctx, http.MethodGet, "/dashboard/personal/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) Aluno(ctx context.Context) (*api.AlunoDashboard, error) {
	var out api.AlunoDashboard
	if err := s.c.do(ctx, http.MethodGet, "/dashboard/aluno/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) Academia(ctx context.Context) (*api.AcademiaDashboard, error) {
	var out api.AcademiaDashboard
	if err := s.c.do(ctx, http.MethodGet, "/dashboard/academia/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) Admin(ctx context.Context) (*api.AdminDashboard, error) {
	var out api.AdminDashboard
	if err := s.c.do(ctx, http.MethodGet, "/dashboard/admin/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RelatorioService fetches the detailed reports.
type RelatorioService struct{ c *Client }

func reportQuery(f api.ReportFilter) url.Values {
	q := url.Values{}
	if f.Periodo != "" {
		q.Set("periodo", string(f.Periodo))
	}
	if f.AlunoID != nil {
		q.Set("aluno_id", strconv.FormatUint(uint64(*f.AlunoID), 10))
	}
	if f.AcademiaID != nil {
		q.Set("academia_id", strconv.FormatUint(uint64(*f.AcademiaID), 10))
	}
	return q
}

func (s *RelatorioService) Personal(ctx context.Context, f api.ReportFilter) (*api.PersonalReport, error) {
	var out api.PersonalReport
	if err := s.c.do(ctx, http.MethodGet, "/relatorios/personal/", reportQuery(f), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RelatorioService) Aluno(ctx context.Context, f api.ReportFilter) (*api.AlunoReport, error) {
	var out api.AlunoReport
	if err := s.c.do(ctx, http.MethodGet, "/relatorios/aluno/", reportQuery(f), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RelatorioService) Academia(ctx context.Context, f api.ReportFilter) (*api.AcademiaReport, error) {
	var out api.AcademiaReport
	if err := s.c.do(ctx, http.MethodGet, "/relatorios/academia/", reportQuery(f), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RelatorioService) Admin(ctx context.Context, f api.ReportFilter) (*api.AdminReport, error) {
	var out api.AdminReport
	if err := s.c.do(ctx, http.MethodGet, "/relatorios/admin/", reportQuery(f), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
