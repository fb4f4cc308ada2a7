package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saralbooks/saral-api/internal/application/service"
	"github.com/saralbooks/saral-api/internal/presentation/http/dto/response"
	"github.com/saralbooks/saral-api/pkg/printer"
)

// PrinterHandler handles printer-related HTTP requests
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// printerError maps printer sentinel errors onto HTTP status codes.
func printerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, printer.ErrNotSupported):
		response.ErrorWithCode(c, http.StatusNotImplemented, "Bluetooth is not supported on this host")
	case errors.Is(err, printer.ErrConnectInProgress):
		response.ErrorWithCode(c, http.StatusConflict, "A connect attempt is already in progress")
	case errors.Is(err, printer.ErrNotConnected):
		response.ErrorWithCode(c, http.StatusConflict, "No printer connected")
	case errors.Is(err, printer.ErrDeviceNotFound):
		response.ErrorWithCode(c, http.StatusServiceUnavailable, "No matching Bluetooth printer found")
	case errors.Is(err, printer.ErrNoWritableCharacteristic):
		response.ErrorWithCode(c, http.StatusServiceUnavailable, "Device has no writable characteristic")
	default:
		response.Error(c, err)
	}
}

// Status reports printer capability and connection state
func (h *PrinterHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status retrieved successfully", h.printerService.GetStatus())
}

// Connect establishes the Bluetooth link
func (h *PrinterHandler) Connect(c *gin.Context) {
	if err := h.printerService.Connect(c.Request.Context()); err != nil {
		printerError(c, err)
		return
	}

	response.OK(c, "Printer connected successfully", h.printerService.GetStatus())
}

// Disconnect tears down the Bluetooth link
func (h *PrinterHandler) Disconnect(c *gin.Context) {
	if err := h.printerService.Disconnect(); err != nil {
		printerError(c, err)
		return
	}

	response.OK(c, "Printer disconnected successfully", h.printerService.GetStatus())
}

// TestPrint sends a short fixed document to verify the connection
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	if err := h.printerService.TestPrint(); err != nil {
		printerError(c, err)
		return
	}

	response.OK(c, "Test print sent successfully", nil)
}

// PrintBill prints the receipt for a bill
func (h *PrinterHandler) PrintBill(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	if err := h.printerService.PrintBill(c.Request.Context(), id); err != nil {
		printerError(c, err)
		return
	}

	response.OK(c, "Receipt sent to printer", nil)
}
