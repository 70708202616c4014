package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"finance-dashboard-backend/internal/models"
	"finance-dashboard-backend/internal/repository"
	"finance-dashboard-backend/internal/services/importer"
)

type BillHandler struct {
	txRepo    *repository.TransactionRepository
	importSvc *importer.Service
}

func NewBillHandler(txRepo *repository.TransactionRepository, importSvc *importer.Service) *BillHandler {
	return &BillHandler{txRepo: txRepo, importSvc: importSvc}
}

type billResponse struct {
	models.Transaction
	Tags []string `json:"tags"`
}

// List returns every stored transaction with its tag names, shadow
// rows included so the client can render the audit view.
func (h *BillHandler) List(c *gin.Context) {
	txs, err := h.txRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]billResponse, 0, len(txs))
	for i := range txs {
		out = append(out, billResponse{Transaction: txs[i], Tags: txs[i].TagNames()})
	}
	c.JSON(http.StatusOK, out)
}

// Save bulk-upserts client-extracted bills (JSON array). Shadow status
// is decided server-side at insert time either way.
func (h *BillHandler) Save(c *gin.Context) {
	var bills []models.Transaction
	if err := c.BindJSON(&bills); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	count, err := h.importSvc.ImportBills(bills)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

// Upload accepts one or more exported bill files (multipart field
// "files") and runs the extraction pipeline server-side.
func (h *BillHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	files := make([]importer.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s: %v", fh.Filename, err)})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s: %v", fh.Filename, err)})
			return
		}
		files = append(files, importer.File{Name: fh.Filename, Data: data})
	}

	batches, count, err := h.importSvc.ImportFiles(files)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count, "batches": batches})
}

func (h *BillHandler) DeleteAll(c *gin.Context) {
	if err := h.txRepo.DeleteAll(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListBatches returns the import audit trail.
func (h *BillHandler) ListBatches(c *gin.Context) {
	batches, err := h.importSvc.Batches()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, batches)
}
