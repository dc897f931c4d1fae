package main

import (
	"net/http"

	"github.com/rhportal/payslip-engine/internal/payslip"
	"github.com/rhportal/payslip-engine/internal/response"
)

type RecordAcknowledgmentResponse = response.APIResponse[*struct{}]

// @Summary		Record acknowledgment
// @Description	Captures the employee's confirmation of having received the digital payslip for a competency.
// @Tags			Acknowledgments
// @Accept			json
// @Produce		json
// @Param			acknowledgment	body		payslip.AcknowledgmentRequest	true	"Consent capture"
// @Success		201				{object}	RecordAcknowledgmentResponse	"Acknowledgment recorded"
// @Failure		400				{object}	response.ErrorResponse			"Invalid request payload"
// @Failure		500				{object}	response.ErrorResponse			"Failed to record acknowledgment"
// @Router			/acknowledgments [post]
func (app *application) handleRecordAcknowledgment(w http.ResponseWriter, r *http.Request) {
	var input payslip.AcknowledgmentRequest

	if err := readJSON(w, r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	ctx := r.Context()
	if err := app.service.RecordAcknowledgment(ctx, input); err != nil {
		writePayslipError(w, err)
		return
	}

	response := &RecordAcknowledgmentResponse{
		Success: true,
		Message: "Acknowledgment recorded",
	}

	if err := writeJSON(w, http.StatusCreated, response); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to write response")
	}
}
