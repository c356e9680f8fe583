package loans

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/pagination"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// LoansPath is where clients are sent after a renewal or return.
const LoansPath = "/loans"

// ReturnStatuses are the statuses a returned copy can be put in.
var ReturnStatuses = []string{
	models.InstanceStatusMaintenance,
	models.InstanceStatusAvailable,
	models.InstanceStatusReserved,
}

type handler struct {
	loanService  *Service
	pageSize     int
	defaultWeeks int
	maxWeeks     int
	strictGuard  bool
	now          func() time.Time
}

type RenewForm struct {
	Instance            *models.BookInstance `json:"instance"`
	ProposedRenewalDate models.Date          `json:"proposed_renewal_date"`
	EarliestRenewalDate models.Date          `json:"earliest_renewal_date"`
	LatestRenewalDate   models.Date          `json:"latest_renewal_date"`
}

type ReturnForm struct {
	Instance       *models.BookInstance `json:"instance"`
	ProposedStatus string               `json:"proposed_status"`
	Statuses       []string             `json:"statuses"`
}

func (h *handler) mine(c echo.Context) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	params := ListLoansQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	return h.respondWithPage(c, params.Page, ListLoansOptions{BorrowerID: &user.ID})
}

func (h *handler) all(c echo.Context) error {
	params := ListLoansQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	return h.respondWithPage(c, params.Page, ListLoansOptions{})
}

func (h *handler) respondWithPage(c echo.Context, rawPage string, opts ListLoansOptions) error {
	result, err := h.page(c.Request().Context(), rawPage, opts)
	if err != nil {
		return err
	}
	return errors.WithStack(c.JSON(http.StatusOK, result))
}

func (h *handler) page(ctx context.Context, rawPage string, opts ListLoansOptions) (pagination.Result[*models.BookInstance], error) {
	total, err := h.loanService.CountLoans(ctx, opts)
	if err != nil {
		return pagination.Result[*models.BookInstance]{}, errors.WithStack(err)
	}
	page := pagination.New(rawPage, total, h.pageSize)

	limit, offset := page.Limit(), page.Offset()
	opts.Limit = &limit
	opts.Offset = &offset
	loans, err := h.loanService.ListLoans(ctx, opts)
	if err != nil {
		return pagination.Result[*models.BookInstance]{}, errors.WithStack(err)
	}

	today := models.Today(h.now)
	for _, bi := range loans {
		bi.IsOverdue = bi.Overdue(today)
	}
	if loans == nil {
		loans = []*models.BookInstance{}
	}
	return pagination.Result[*models.BookInstance]{Items: loans, Page: page}, nil
}

func (h *handler) renewForm(c echo.Context) error {
	instance, err := h.retrieve(c)
	if err != nil {
		return err
	}

	today := models.Today(h.now)
	return errors.WithStack(c.JSON(http.StatusOK, RenewForm{
		Instance:            instance,
		ProposedRenewalDate: today.AddDays(h.defaultWeeks * 7),
		EarliestRenewalDate: today,
		LatestRenewalDate:   today.AddDays(h.maxWeeks * 7),
	}))
}

func (h *handler) renew(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	instance, err := h.retrieve(c)
	if err != nil {
		return err
	}

	params := RenewPayload{}
	if err := c.Bind(&params); err != nil {
		return withInput(err, map[string]any{"renewal_date": params.RenewalDate})
	}
	input := map[string]any{"renewal_date": params.RenewalDate}

	if err := h.guard(instance, input); err != nil {
		return err
	}

	renewalDate, err := models.ParseDate(params.RenewalDate)
	if err != nil {
		return errcodes.ValidationErrorWithInput("Dates should be in the format of YYYY-MM-DD", input)
	}

	today := models.Today(h.now)
	if renewalDate.Before(today) {
		return errcodes.ValidationErrorWithInput("Invalid date - renewal in past", input)
	}
	if renewalDate.After(today.AddDays(h.maxWeeks * 7)) {
		return errcodes.ValidationErrorWithInput(fmt.Sprintf("Invalid date - renewal more than %d weeks ahead", h.maxWeeks), input)
	}

	if err := h.loanService.Renew(ctx, instance, renewalDate); err != nil {
		return errors.WithStack(err)
	}
	log.Info("loan renewed", logger.Data{"instance_id": instance.ID, "due_back": renewalDate.String()})

	return h.respond(c)
}

func (h *handler) returnForm(c echo.Context) error {
	instance, err := h.retrieve(c)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, ReturnForm{
		Instance:       instance,
		ProposedStatus: models.InstanceStatusAvailable,
		Statuses:       ReturnStatuses,
	}))
}

func (h *handler) returnBook(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	instance, err := h.retrieve(c)
	if err != nil {
		return err
	}

	params := ReturnPayload{}
	if err := c.Bind(&params); err != nil {
		return withInput(err, map[string]any{"status": params.Status})
	}
	input := map[string]any{"status": params.Status}

	if err := h.guard(instance, input); err != nil {
		return err
	}

	if err := h.loanService.Return(ctx, instance, params.Status); err != nil {
		return errors.WithStack(err)
	}
	log.Info("loan returned", logger.Data{"instance_id": instance.ID, "status": params.Status})

	return h.respond(c)
}

func (h *handler) retrieve(c echo.Context) (*models.BookInstance, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, errcodes.NotFound("Book instance")
	}

	instance, err := h.loanService.RetrieveLoan(c.Request().Context(), id)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	instance.IsOverdue = instance.Overdue(models.Today(h.now))
	return instance, nil
}

// guard only lets copies that are currently lent out be renewed or returned.
func (h *handler) guard(instance *models.BookInstance, input map[string]any) error {
	if !h.strictGuard || instance.IsOnLoan() {
		return nil
	}
	return errcodes.ValidationErrorWithInput("This copy isn't on loan", input)
}

func (h *handler) respond(c echo.Context) error {
	instance, err := h.retrieve(c)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, LoansPath)
	return errors.WithStack(c.JSON(http.StatusOK, instance))
}

// withInput attaches the submitted values to a validation failure.
func withInput(err error, input map[string]any) error {
	var codeErr *errcodes.Error
	if errors.As(err, &codeErr) && codeErr.HTTPCode == http.StatusUnprocessableEntity {
		return errcodes.ValidationErrorWithInput(codeErr.Message, input)
	}
	return errors.WithStack(err)
}
