package main

import (
	"errors"
	"net/http"

	"github.com/rhportal/payslip-engine/internal/payslip"
	"github.com/rhportal/payslip-engine/internal/response"
)

type GetPayslipResponse = response.APIResponse[*payslip.PayslipResult]
type ListCompetenciesResponse = response.APIResponse[[]string]

// @Summary		Get payslip
// @Description	Reconciles the pay facts for one employee and competency and renders the printable document (base64).
// @Tags			Payslips
// @Produce		json
// @Param			cpf			query		string					true	"Employee CPF (11 digits)"
// @Param			registration	query		string					true	"Registration number"
// @Param			competency	query		string					true	"Competency (YYYY-MM, YYYYMM, YYYY/MM or MM/YYYY)"
// @Success		200			{object}	GetPayslipResponse		"Payslip reconciled and rendered"
// @Failure		400			{object}	response.ErrorResponse	"Invalid identity or competency"
// @Failure		404			{object}	response.ErrorResponse	"No reconcilable payslip"
// @Failure		422			{object}	response.ErrorResponse	"Corrupt pay event data"
// @Router			/payslips [get]
func (app *application) handleGetPayslip(w http.ResponseWriter, r *http.Request) {
	req := payslip.PayslipRequest{
		CPF:                r.URL.Query().Get("cpf"),
		RegistrationNumber: r.URL.Query().Get("registration"),
		Competency:         r.URL.Query().Get("competency"),
	}

	ctx := r.Context()
	data, err := app.service.GetPayslip(ctx, req)
	if err != nil {
		writePayslipError(w, err)
		return
	}

	response := &GetPayslipResponse{
		Success: true,
		Data:    data,
		Message: "Successfully reconciled and rendered payslip",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// @Summary		List competencies
// @Description	Lists the competencies that have pay events for the employee, most recent first.
// @Tags			Payslips
// @Produce		json
// @Param			cpf			query		string						true	"Employee CPF (11 digits)"
// @Param			registration	query		string						true	"Registration number"
// @Success		200			{object}	ListCompetenciesResponse	"Available competencies"
// @Failure		400			{object}	response.ErrorResponse		"Invalid identity"
// @Router			/payslips/competencies [get]
func (app *application) handleListCompetencies(w http.ResponseWriter, r *http.Request) {
	cpf := r.URL.Query().Get("cpf")
	registration := r.URL.Query().Get("registration")

	ctx := r.Context()
	data, err := app.service.ListCompetencies(ctx, cpf, registration)
	if err != nil {
		writePayslipError(w, err)
		return
	}

	response := &ListCompetenciesResponse{
		Success: true,
		Data:    data,
		Message: "Successfully listed competencies",
	}

	if err := writeJSON(w, http.StatusOK, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}

// writePayslipError maps the engine's discriminated failures onto HTTP
// statuses without collapsing them: the portal tells a missing header apart
// from a missing footer.
func writePayslipError(w http.ResponseWriter, err error) {
	var validation *payslip.ValidationError
	var invalidKind *payslip.InvalidEventKindError

	switch {
	case errors.As(err, &validation):
		writeJSONError(w, http.StatusBadRequest, validation.Error())
	case errors.Is(err, payslip.ErrNoEvents),
		errors.Is(err, payslip.ErrMissingHeader),
		errors.Is(err, payslip.ErrMissingFooter):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &invalidKind):
		writeJSONError(w, http.StatusUnprocessableEntity, invalidKind.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}
