package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/auth"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/config"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/entities"
	"github.com/aafreensayyed123/caliber-star-bulk-product-upload/internal/importers"
)

var csrfTokenPattern = regexp.MustCompile(`name="gorilla\.csrf\.Token" value="([^"]+)"`)

type fakeImportRunner struct {
	calls    int
	filename string
	content  string
	userID   uint
	ctxErr   error
	summary  importers.Summary
	err      error
	runs     []entities.ImportRun
}

func (f *fakeImportRunner) ImportFile(ctx context.Context, userID uint, filename string, r io.Reader) (importers.Summary, error) {
	f.calls++
	f.filename = filename
	f.userID = userID
	f.ctxErr = ctx.Err()
	data, _ := io.ReadAll(r)
	f.content = string(data)
	return f.summary, f.err
}

func (f *fakeImportRunner) RecentRuns(ctx context.Context, limit int) ([]entities.ImportRun, error) {
	return f.runs, nil
}

// client keeps the anti-forgery cookie between requests.
type client struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		cl.cookies = cookies
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) token() string {
	w := cl.get(BulkImporterPath)
	require.Equal(cl.t, http.StatusOK, w.Code)
	match := csrfTokenPattern.FindStringSubmatch(w.Body.String())
	require.Len(cl.t, match, 2)
	return match[1]
}

// upload posts a multipart form; an empty filename omits the file part.
func (cl *client) upload(token, filename, content string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if token != "" {
		require.NoError(cl.t, mw.WriteField(auth.CSRFFieldName, token))
	}
	if filename != "" {
		part, err := mw.CreateFormFile(uploadField, filename)
		require.NoError(cl.t, err)
		_, err = part.Write([]byte(content))
		require.NoError(cl.t, err)
	}
	require.NoError(cl.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, BulkImporterPath, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return cl.do(req)
}

func newTestClient(t *testing.T, runner *fakeImportRunner, maxUpload int64) *client {
	t.Helper()
	router := NewRouter(RouterConfig{
		Importer:      runner,
		AuthConfig:    config.Auth{Mode: config.AuthModeNone},
		CSRFSecret:    auth.SecretKey("test-secret"),
		MaxUploadSize: maxUpload,
		RecentRuns:    5,
	})
	return &client{t: t, router: router}
}

func TestBulkImporter_Page(t *testing.T) {
	runner := &fakeImportRunner{runs: []entities.ImportRun{{
		ID: "run-1", Filename: "watches.csv", Status: entities.ImportStatusCompleted, Rows: 12, ImagesFailed: 2,
		StartedAt: time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC),
	}}}
	cl := newTestClient(t, runner, 1<<20)

	w := cl.get(BulkImporterPath)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="csv_file"`)
	assert.Contains(t, body, `enctype="multipart/form-data"`)
	assert.Regexp(t, csrfTokenPattern, body)
	assert.Contains(t, body, "watches.csv")
	assert.Contains(t, body, "2025-03-04 10:30")
	assert.NotContains(t, body, "rows imported")

	w = cl.get(BulkImporterPath + "?rows_imported=3")
	assert.Contains(t, w.Body.String(), "3 rows imported")

	w = cl.get(BulkImporterPath + "?rows_imported=lots")
	assert.NotContains(t, w.Body.String(), "rows imported")
}

func TestBulkImporter_RedirectsWithRowCount(t *testing.T) {
	runner := &fakeImportRunner{summary: importers.Summary{Rows: 2, RecordsCreated: 2}}
	cl := newTestClient(t, runner, 1<<20)

	csv := "product-title,color\nA,red\nB,blue\n"
	w := cl.upload(cl.token(), "products.csv", csv)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/tools/bulk-importer?rows_imported=2", w.Header().Get("Location"))
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, "products.csv", runner.filename)
	assert.Equal(t, csv, runner.content)
	assert.Equal(t, auth.DefaultUserID, runner.userID)
	assert.NoError(t, runner.ctxErr)
}

func TestBulkImporter_ZeroRows(t *testing.T) {
	runner := &fakeImportRunner{}
	cl := newTestClient(t, runner, 1<<20)

	w := cl.upload(cl.token(), "empty.csv", "product-title\n")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/tools/bulk-importer?rows_imported=0", w.Header().Get("Location"))
}

func TestBulkImporter_FatalErrors(t *testing.T) {
	tests := []struct {
		name        string
		token       bool
		filename    string
		importErr   error
		wantStatus  int
		wantMessage string
		wantCalls   int
	}{
		{"missing anti-forgery token", false, "products.csv", nil, http.StatusForbidden, "Security check failed", 0},
		{"no file", true, "", nil, http.StatusBadRequest, "No file uploaded", 0},
		{"wrong extension", true, "products.xlsx", nil, http.StatusBadRequest, "Invalid file type, please upload a CSV file", 0},
		{"upper case extension accepted", true, "PRODUCTS.CSV", nil, http.StatusSeeOther, "", 1},
		{"bad header", true, "products.csv", fmt.Errorf("import products.csv: %w", importers.ErrFormat), http.StatusUnprocessableEntity, "Invalid CSV file format", 1},
		{"unexpected failure", true, "products.csv", context.DeadlineExceeded, http.StatusInternalServerError, "could not be completed", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeImportRunner{err: tt.importErr}
			cl := newTestClient(t, runner, 1<<20)

			token := ""
			if tt.token {
				token = cl.token()
			}
			w := cl.upload(token, tt.filename, "product-title\nA\n")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMessage != "" {
				assert.Contains(t, w.Body.String(), tt.wantMessage)
			}
			assert.Equal(t, tt.wantCalls, runner.calls)
		})
	}
}

func TestBulkImporter_TooLarge(t *testing.T) {
	runner := &fakeImportRunner{}
	cl := newTestClient(t, runner, 1<<20)

	w := cl.upload(cl.token(), "products.csv", strings.Repeat("x", 2<<20))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "1 MB")
	assert.Zero(t, runner.calls)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "No file uploaded", capitalize("no file uploaded"))
	assert.Equal(t, "Already", capitalize("Already"))
	assert.Equal(t, "", capitalize(""))
}
