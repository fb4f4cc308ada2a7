package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/saralbooks/saral-api/internal/application/service"
)

// stubPrinter is a minimal printer.Printer for handler tests.
type stubPrinter struct {
	jobs      int
	connected bool
	err       error
}

func (p *stubPrinter) Print(data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs++
	return nil
}

func (p *stubPrinter) Close() error      { return nil }
func (p *stubPrinter) IsConnected() bool { return p.connected }

func newPrinterRouter(p *stubPrinter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewPrinterService(p, nil, nil, 32)
	h := NewPrinterHandler(svc)

	router := gin.New()
	router.GET("/printer/status", h.Status)
	router.POST("/printer/connect", h.Connect)
	router.POST("/printer/test", h.TestPrint)
	return router
}

func TestPrinterStatusEndpoint(t *testing.T) {
	router := newPrinterRouter(&stubPrinter{connected: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/printer/status", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Supported bool `json:"supported"`
			Connected bool `json:"connected"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !body.Success || !body.Data.Supported || !body.Data.Connected {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestPrinterConnectRejectedForNonBluetooth(t *testing.T) {
	router := newPrinterRouter(&stubPrinter{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/printer/connect", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPrinterTestPrintEndpoint(t *testing.T) {
	p := &stubPrinter{connected: true}
	router := newPrinterRouter(p)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/printer/test", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if p.jobs != 1 {
		t.Errorf("print jobs = %d, want 1", p.jobs)
	}
}
