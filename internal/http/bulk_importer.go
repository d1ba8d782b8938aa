package http

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/auth"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/importers"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/logging"
)

// BulkImporterPath is the admin page and form target.
const BulkImporterPath = "/tools/bulk-importer"

// uploadField is the multipart field holding the CSV file.
const uploadField = "csv_file"

// ImportRunner runs an uploaded file through the importer and keeps run history.
type ImportRunner interface {
	ImportFile(ctx context.Context, userID uint, filename string, r io.Reader) (importers.Summary, error)
	RecentRuns(ctx context.Context, limit int) ([]entities.ImportRun, error)
}

type bulkImporterPage struct {
	CSRFField    template.HTML
	RowsImported *int
	Runs         []entities.ImportRun
	MaxSizeMB    int64
}

type errorPage struct {
	Title   string
	Message string
	Back    string
}

// BulkImporterController serves the upload form and processes uploads.
type BulkImporterController struct {
	importer      ImportRunner
	maxUploadSize int64
	recentRuns    int
}

func NewBulkImporterController(importer ImportRunner, maxUploadSize int64, recentRuns int) *BulkImporterController {
	return &BulkImporterController{
		importer:      importer,
		maxUploadSize: maxUploadSize,
		recentRuns:    recentRuns,
	}
}

// Page renders the upload form, the "rows imported" notice after a run and
// the latest runs.
func (bc *BulkImporterController) Page(c *gin.Context) {
	data := bulkImporterPage{
		CSRFField: auth.CSRFTokenField(c),
		MaxSizeMB: bc.maxUploadSize >> 20,
	}

	if raw, ok := c.GetQuery("rows_imported"); ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			data.RowsImported = &n
		}
	}

	if bc.recentRuns > 0 {
		runs, err := bc.importer.RecentRuns(c.Request.Context(), bc.recentRuns)
		if err != nil {
			logging.FromContext(c).Warn("failed to load recent imports", zap.Error(err))
		}
		data.Runs = runs
	}

	c.HTML(http.StatusOK, "bulk_importer.html", data)
}

// Upload imports the posted CSV file and redirects back to the page with the row count.
// Anti-forgery and capability checks run in middleware before this handler.
func (bc *BulkImporterController) Upload(c *gin.Context) {
	log := logging.FromContext(c)

	fileHeader, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			bc.tooLarge(c)
			return
		}
		bc.fail(c, http.StatusBadRequest, "Import failed", capitalize(importers.ErrNoFile.Error()))
		return
	}

	if err := importers.CheckFilename(fileHeader.Filename); err != nil {
		bc.fail(c, http.StatusBadRequest, "Import failed", capitalize(err.Error()))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Warn("failed to open upload", zap.String("filename", fileHeader.Filename), zap.Error(err))
		bc.fail(c, http.StatusBadRequest, "Import failed", capitalize(importers.ErrOpen.Error()))
		return
	}
	defer file.Close()

	// A client disconnect must not leave half the rows imported.
	ctx := context.WithoutCancel(c.Request.Context())
	summary, err := bc.importer.ImportFile(ctx, auth.GetUserID(c), fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, importers.ErrFormat):
			bc.fail(c, http.StatusUnprocessableEntity, "Import failed", capitalize(importers.ErrFormat.Error()))
		case errors.Is(err, importers.ErrFileType):
			bc.fail(c, http.StatusBadRequest, "Import failed", capitalize(importers.ErrFileType.Error()))
		default:
			log.Error("import failed", zap.String("filename", fileHeader.Filename), zap.Error(err))
			bc.fail(c, http.StatusInternalServerError, "Import failed", "The import could not be completed.")
		}
		return
	}

	log.Info("bulk import finished",
		zap.String("filename", fileHeader.Filename),
		zap.Int("rows", summary.Rows),
		zap.Int("records_failed", summary.RecordsFailed),
		zap.Int("images_failed", summary.ImagesFailed),
	)

	c.Redirect(http.StatusSeeOther, BulkImporterPath+"?rows_imported="+strconv.Itoa(summary.Rows))
}

// LimitBody caps upload request bodies. It runs ahead of the anti-forgery
// check, which parses the multipart form to find its token.
func (bc *BulkImporterController) LimitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if bc.maxUploadSize <= 0 || c.Request.Method != http.MethodPost || c.Request.URL.Path != BulkImporterPath {
			c.Next()
			return
		}
		if c.Request.ContentLength > bc.maxUploadSize {
			bc.tooLarge(c)
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bc.maxUploadSize)
		c.Next()
	}
}

func (bc *BulkImporterController) tooLarge(c *gin.Context) {
	bc.fail(c, http.StatusRequestEntityTooLarge, "File too large",
		"The upload exceeds the "+strconv.FormatInt(bc.maxUploadSize>>20, 10)+" MB limit.")
}

func (bc *BulkImporterController) fail(c *gin.Context, status int, title, message string) {
	c.HTML(status, "error.html", errorPage{Title: title, Message: message, Back: BulkImporterPath})
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
