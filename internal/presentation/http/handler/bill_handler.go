package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saralbooks/saral-api/internal/application/service"
	"github.com/saralbooks/saral-api/internal/domain/enum"
	"github.com/saralbooks/saral-api/internal/presentation/http/dto/request"
	"github.com/saralbooks/saral-api/internal/presentation/http/dto/response"
)

// BillHandler handles bill-related HTTP requests
type BillHandler struct {
	billService *service.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// Create handles bill creation
func (h *BillHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	input := &service.CreateBillInput{
		UserID:        *userID,
		DiscountType:  parseDiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
		PaymentMode:   req.PaymentMode,
		Paid:          req.Paid,
		Notes:         req.Notes,
		Terms:         req.Terms,
	}
	if req.CustomerID != nil {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		input.CustomerID = &customerID
	}
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			response.BadRequest(c, "Invalid product ID")
			return
		}
		input.Items = append(input.Items, service.BillItemInput{
			ProductID:     productID,
			Quantity:      item.Quantity,
			DiscountType:  parseDiscountType(item.DiscountType),
			DiscountValue: item.DiscountValue,
		})
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created successfully", bill)
}

// Get retrieves a single bill with items and payments
func (h *BillHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// List handles listing bills with filters
func (h *BillHandler) List(c *gin.Context) {
	input := &service.ListBillsInput{
		Search:     c.Query("search"),
		Pagination: *parsePagination(c),
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			response.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		input.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			response.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		// Include the whole end day.
		t = t.Add(24*time.Hour - time.Nanosecond)
		input.To = &t
	}
	if status := c.Query("status"); status != "" {
		var st enum.BillStatus
		switch status {
		case "pending":
			st = enum.BillStatusPending
		case "paid":
			st = enum.BillStatusPaid
		case "cancelled":
			st = enum.BillStatusCancelled
		default:
			response.BadRequest(c, "Invalid status, expected pending, paid or cancelled")
			return
		}
		input.Status = &st
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		input.CustomerID = &id
	}

	result, err := h.billService.ListBills(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", result)
}

// Cancel marks a bill cancelled and restores its stock
func (h *BillHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billService.CancelBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill cancelled successfully", bill)
}

// RecordPayment records a payment against a bill
func (h *BillHandler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	var req request.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		BillID: id,
		Amount: req.Amount,
		Mode:   req.Mode,
		Note:   req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", bill)
}
