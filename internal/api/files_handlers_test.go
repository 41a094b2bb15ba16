package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func uploadFile(t *testing.T, h *Handler, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/files", bytes.NewBufferString(body))
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	return rec
}

func mustUpload(t *testing.T, h *Handler, token, body string) fileView {
	t.Helper()
	rec := uploadFile(t, h, token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var view fileView
	decodeBody(t, rec, &view)
	return view
}

func TestUploadRequiresAuth(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := uploadFile(t, h, "", `{"name":"notes.txt","type":"file","data":"aGk="}`)
	assertAPIError(t, rec, http.StatusUnauthorized, "Unauthorized")
}

func TestUploadValidation(t *testing.T) {
	h, _ := newTestHandler(t)
	userID := createTestUser(t, h, "bob@dylan.com", "toto1234!")
	token := createTestSession(t, h, userID)

	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"missing name", `{"type":"file","data":"aGk="}`, "Missing name"},
		{"missing type", `{"name":"notes.txt","data":"aGk="}`, "Missing type"},
		{"bogus type", `{"name":"notes.txt","type":"video","data":"aGk="}`, "Missing type"},
		{"missing data", `{"name":"notes.txt","type":"file"}`, "Missing data"},
		{"invalid base64", `{"name":"notes.txt","type":"file","data":"!!!"}`, "Invalid data"},
		{"parent not found", `{"name":"notes.txt","type":"file","data":"aGk=","parentId":"missing"}`, "Parent not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := uploadFile(t, h, token, tc.body)
			assertAPIError(t, rec, http.StatusBadRequest, tc.message)
		})
	}
}

func TestUploadFolderAndFile(t *testing.T) {
	h, _ := newTestHandler(t)
	userID := createTestUser(t, h, "bob@dylan.com", "toto1234!")
	token := createTestSession(t, h, userID)

	folder := mustUpload(t, h, token, `{"name":"images","type":"folder"}`)
	if folder.Type != "folder" || folder.ParentID != "0" || folder.UserID != userID {
		t.Fatalf("unexpected folder view: %+v", folder)
	}

	payload := base64.StdEncoding.EncodeToString([]byte("Hello Webstack!\n"))
	body := fmt.Sprintf(`{"name":"hello.txt","type":"file","parentId":%q,"data":%q}`, folder.ID, payload)
	file := mustUpload(t, h, token, body)
	if file.ParentID != folder.ID || file.IsPublic {
		t.Fatalf("unexpected file view: %+v", file)
	}

	// The stored record keeps the on-disk path out of the public view.
	raw, _ := json.Marshal(file)
	if bytes.Contains(raw, []byte("localPath")) {
		t.Fatalf("public view leaked storage path: %s", raw)
	}
}

func TestUploadRejectsNonFolderParent(t *testing.T) {
	h, _ := newTestHandler(t)
	userID := createTestUser(t, h, "bob@dylan.com", "toto1234!")
	token := createTestSession(t, h, userID)

	file := mustUpload(t, h, token, `{"name":"notes.txt","type":"file","data":"aGk="}`)
	body := fmt.Sprintf(`{"name":"child.txt","type":"file","parentId":%q,"data":"aGk="}`, file.ID)
	rec := uploadFile(t, h, token, body)
	assertAPIError(t, rec, http.StatusBadRequest, "Parent is not a folder")
}

func TestUploadNumericRootParent(t *testing.T) {
	h, _ := newTestHandler(t)
	userID := createTestUser(t, h, "bob@dylan.com", "toto1234!")
	token := createTestSession(t, h, userID)

	view := mustUpload(t, h, token, `{"name":"notes.txt","type":"file","parentId":0,"data":"aGk="}`)
	if view.ParentID != "0" {
		t.Fatalf("expected root parent, got %q", view.ParentID)
	}
}

func TestUploadImageEnqueuesSingleJob(t *testing.T) {
	h, q := newTestHandler(t)
	userID := createTestUser(t, h, "bob@dylan.com", "toto1234!")
	token := createTestSession(t, h, userID)

	payload := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))
	view := mustUpload(t, h, token, fmt.Sprintf(`{"name":"pic.png","type":"image","data":%q}`, payload))

	jobs := q.recorded()
	if len(jobs) != 1 {
		t.Fatalf("expected exactly one thumbnail job, got %d", len(jobs))
	}
	if jobs[0].FileID != view.ID || jobs[0].UserID != userID {
		t.Fatalf("unexpected job payload: %+v", jobs[0])
	}
}

func TestUploadNonImageEnqueuesNothing(t *testing.T) {
	h, q := newTestHandler(t)
	userID := createTestUser(t, h, "bob@dylan.com", "toto1234!")
	token := createTestSession(t, h, userID)

	mustUpload(t, h, token, `{"name":"docs","type":"folder"}`)
	mustUpload(t, h, token, `{"name":"notes.txt","type":"file","data":"aGk="}`)
	if jobs := q.recorded(); len(jobs) != 0 {
		t.Fatalf("expected no thumbnail jobs, got %d", len(jobs))
	}
}

func TestShowMasksForeignFiles(t *testing.T) {
	h, _ := newTestHandler(t)
	ownerID := createTestUser(t, h, "bob@dylan.com", "toto1234!")
	ownerToken := createTestSession(t, h, ownerID)
	otherID := createTestUser(t, h, "ann@dylan.com", "pw")
	otherToken := createTestSession(t, h, otherID)

	view := mustUpload(t, h, ownerToken, `{"name":"notes.txt","type":"file","data":"aGk="}`)

	req := httptest.NewRequest(http.MethodGet, "/files/"+view.ID, nil)
	req.Header.Set(TokenHeader, ownerToken)
	rec := httptest.NewRecorder()
	h.Show(rec, req, view.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner show failed: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/files/"+view.ID, nil)
	req.Header.Set(TokenHeader, otherToken)
	rec = httptest.NewRecorder()
	h.Show(rec, req, view.ID)
	assertAPIError(t, rec, http.StatusNotFound, "Not found")
}

func TestIndexPagination(t *testing.T) {
	h, _ := newTestHandler(t)
	userID := createTestUser(t, h, "bob@dylan.com", "toto1234!")
	token := createTestSession(t, h, userID)

	for i := 0; i < 25; i++ {
		mustUpload(t, h, token, fmt.Sprintf(`{"name":"file-%02d","type":"file","data":"aGk="}`, i))
	}

	listPage := func(page string) []fileView {
		target := "/files"
		if page != "" {
			target += "?page=" + page
		}
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set(TokenHeader, token)
		rec := httptest.NewRecorder()
		h.Index(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("index failed: %d (%s)", rec.Code, rec.Body.String())
		}
		var views []fileView
		decodeBody(t, rec, &views)
		return views
	}

	first := listPage("")
	if len(first) != 20 {
		t.Fatalf("expected 20 records on page 0, got %d", len(first))
	}
	second := listPage("1")
	if len(second) != 5 {
		t.Fatalf("expected 5 records on page 1, got %d", len(second))
	}
	if first[0].ID == second[0].ID {
		t.Fatal("pages overlap")
	}
	if empty := listPage("7"); len(empty) != 0 {
		t.Fatalf("expected empty page, got %d records", len(empty))
	}
	if fallback := listPage("bogus"); len(fallback) != 20 {
		t.Fatalf("expected invalid page to fall back to page 0, got %d records", len(fallback))
	}
}

func TestIndexFiltersByParent(t *testing.T) {
	h, _ := newTestHandler(t)
	userID := createTestUser(t, h, "bob@dylan.com", "toto1234!")
	token := createTestSession(t, h, userID)

	folder := mustUpload(t, h, token, `{"name":"images","type":"folder"}`)
	mustUpload(t, h, token, fmt.Sprintf(`{"name":"inside.txt","type":"file","parentId":%q,"data":"aGk="}`, folder.ID))
	mustUpload(t, h, token, `{"name":"outside.txt","type":"file","data":"aGk="}`)

	req := httptest.NewRequest(http.MethodGet, "/files?parentId="+folder.ID, nil)
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()
	h.Index(rec, req)
	var views []fileView
	decodeBody(t, rec, &views)
	if len(views) != 1 || views[0].Name != "inside.txt" {
		t.Fatalf("unexpected listing: %+v", views)
	}
}

func TestPublishAndUnpublish(t *testing.T) {
	h, _ := newTestHandler(t)
	userID := createTestUser(t, h, "bob@dylan.com", "toto1234!")
	token := createTestSession(t, h, userID)
	view := mustUpload(t, h, token, `{"name":"notes.txt","type":"file","data":"aGk="}`)

	req := httptest.NewRequest(http.MethodPut, "/files/"+view.ID+"/publish", nil)
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()
	h.Publish(rec, req, view.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish failed: %d", rec.Code)
	}
	var published fileView
	decodeBody(t, rec, &published)
	if !published.IsPublic {
		t.Fatal("expected isPublic true after publish")
	}

	req = httptest.NewRequest(http.MethodPut, "/files/"+view.ID+"/unpublish", nil)
	req.Header.Set(TokenHeader, token)
	rec = httptest.NewRecorder()
	h.Unpublish(rec, req, view.ID)
	var unpublished fileView
	decodeBody(t, rec, &unpublished)
	if unpublished.IsPublic {
		t.Fatal("expected isPublic false after unpublish")
	}
}

func TestPublishMasksForeignFiles(t *testing.T) {
	h, _ := newTestHandler(t)
	ownerID := createTestUser(t, h, "bob@dylan.com", "toto1234!")
	ownerToken := createTestSession(t, h, ownerID)
	otherID := createTestUser(t, h, "ann@dylan.com", "pw")
	otherToken := createTestSession(t, h, otherID)
	view := mustUpload(t, h, ownerToken, `{"name":"notes.txt","type":"file","data":"aGk="}`)

	req := httptest.NewRequest(http.MethodPut, "/files/"+view.ID+"/publish", nil)
	req.Header.Set(TokenHeader, otherToken)
	rec := httptest.NewRecorder()
	h.Publish(rec, req, view.ID)
	assertAPIError(t, rec, http.StatusNotFound, "Not found")
}

func TestDownload(t *testing.T) {
	h, _ := newTestHandler(t)
	userID := createTestUser(t, h, "bob@dylan.com", "toto1234!")
	token := createTestSession(t, h, userID)

	content := "Hello Webstack!\n"
	payload := base64.StdEncoding.EncodeToString([]byte(content))
	view := mustUpload(t, h, token, fmt.Sprintf(`{"name":"hello.txt","type":"file","data":%q}`, payload))

	// Private file without a token looks absent.
	req := httptest.NewRequest(http.MethodGet, "/files/"+view.ID+"/data", nil)
	rec := httptest.NewRecorder()
	h.Download(rec, req, view.ID)
	assertAPIError(t, rec, http.StatusNotFound, "Not found")

	// The owner can read it.
	req = httptest.NewRequest(http.MethodGet, "/files/"+view.ID+"/data", nil)
	req.Header.Set(TokenHeader, token)
	rec = httptest.NewRecorder()
	h.Download(rec, req, view.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner download failed: %d (%s)", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != content {
		t.Fatalf("unexpected content: %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type: %q", ct)
	}

	// Publishing opens it to anonymous readers.
	pubReq := httptest.NewRequest(http.MethodPut, "/files/"+view.ID+"/publish", nil)
	pubReq.Header.Set(TokenHeader, token)
	h.Publish(httptest.NewRecorder(), pubReq, view.ID)

	req = httptest.NewRequest(http.MethodGet, "/files/"+view.ID+"/data", nil)
	rec = httptest.NewRecorder()
	h.Download(rec, req, view.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous download of public file failed: %d", rec.Code)
	}
}

func TestDownloadFolderHasNoContent(t *testing.T) {
	h, _ := newTestHandler(t)
	userID := createTestUser(t, h, "bob@dylan.com", "toto1234!")
	token := createTestSession(t, h, userID)
	folder := mustUpload(t, h, token, `{"name":"images","type":"folder"}`)

	req := httptest.NewRequest(http.MethodGet, "/files/"+folder.ID+"/data", nil)
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()
	h.Download(rec, req, folder.ID)
	assertAPIError(t, rec, http.StatusBadRequest, "A folder doesn't have content")
}

func TestDownloadUnknownFile(t *testing.T) {
	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/files/absent/data", nil)
	rec := httptest.NewRecorder()
	h.Download(rec, req, "absent")
	assertAPIError(t, rec, http.StatusNotFound, "Not found")
}

func TestDownloadThumbnailSize(t *testing.T) {
	h, _ := newTestHandler(t)
	userID := createTestUser(t, h, "bob@dylan.com", "toto1234!")
	token := createTestSession(t, h, userID)

	payload := base64.StdEncoding.EncodeToString([]byte("original bytes"))
	view := mustUpload(t, h, token, fmt.Sprintf(`{"name":"pic.png","type":"image","data":%q}`, payload))

	// Requesting a size before the worker ran reports the file missing.
	req := httptest.NewRequest(http.MethodGet, "/files/"+view.ID+"/data?size=250", nil)
	req.Header.Set(TokenHeader, token)
	rec := httptest.NewRecorder()
	h.Download(rec, req, view.ID)
	assertAPIError(t, rec, http.StatusNotFound, "Not found")

	// Place a pre-generated thumbnail next to the original.
	stored, _, err := h.Store.GetUserFile(req.Context(), view.ID, userID)
	if err != nil {
		t.Fatalf("load stored file: %v", err)
	}
	thumb := []byte("thumbnail bytes")
	if err := os.WriteFile(stored.LocalPath+"_250", thumb, 0o600); err != nil {
		t.Fatalf("write thumbnail: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/files/"+view.ID+"/data?size=250", nil)
	req.Header.Set(TokenHeader, token)
	rec = httptest.NewRecorder()
	h.Download(rec, req, view.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("thumbnail download failed: %d (%s)", rec.Code, rec.Body.String())
	}
	if !bytes.Equal(rec.Body.Bytes(), thumb) {
		t.Fatalf("unexpected thumbnail content: %q", rec.Body.String())
	}
}
