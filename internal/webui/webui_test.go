package webui

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fedutinova/logsuggest/internal/uploadclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	out   string
	err   error
	calls int
	got   uploadclient.Upload
}

func (f *fakeClient) Analyze(_ context.Context, u uploadclient.Upload) (string, error) {
	f.calls++
	f.got = u
	return f.out, f.err
}

func postFile(t *testing.T, h http.Handler, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	New(&fakeClient{}).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Application Log Analyzer")
	assert.Contains(t, rec.Body.String(), `name="file"`)
}

func TestSubmit_NoFileWarnsLocally(t *testing.T) {
	fc := &fakeClient{}
	rec := postFile(t, New(fc).Router(), "", nil)

	assert.Contains(t, rec.Body.String(), "Please upload a log file first.")
	assert.Zero(t, fc.calls)
}

func TestSubmit_RendersMarkdown(t *testing.T) {
	fc := &fakeClient{out: "## Root cause\n\nThe **pool** is exhausted.\n\n<script>alert(1)</script>"}
	rec := postFile(t, New(fc).Router(), "app.log", []byte("error"))

	body := rec.Body.String()
	assert.Contains(t, body, "Analysis completed")
	assert.Contains(t, body, "<h2")
	assert.Contains(t, body, "<strong>pool</strong>")
	assert.NotContains(t, body, "<script>alert(1)</script>")

	assert.Equal(t, 1, fc.calls)
	assert.Equal(t, "app.log", fc.got.Filename)
	assert.Equal(t, []byte("error"), fc.got.Content)
}

func TestSubmit_BackendError(t *testing.T) {
	fc := &fakeClient{err: &uploadclient.BackendError{Status: 400, Detail: "Uploaded log file is empty."}}
	rec := postFile(t, New(fc).Router(), "blank.log", []byte("  "))

	assert.Contains(t, rec.Body.String(), "Backend error: Uploaded log file is empty.")
}

func TestSubmit_Unreachable(t *testing.T) {
	fc := &fakeClient{err: fmt.Errorf("%w: dial tcp refused", uploadclient.ErrUnreachable)}
	rec := postFile(t, New(fc).Router(), "app.log", []byte("error"))

	body := rec.Body.String()
	assert.Contains(t, body, "Could not connect to backend API.")
	assert.NotContains(t, body, "dial tcp")
}
