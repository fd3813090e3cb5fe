package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newUploadFixture(t *testing.T) (*UploadHandler, *ResumeHandler, *fakeBlobStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	blobs := newFakeBlobStore()
	resumes := NewResumeHandler(db, nil, blobs, nil)
	uploads := NewUploadHandler(db, blobs, nil, "", 5*1024*1024, []string{"image/jpeg", "image/png"})
	return uploads, resumes, blobs
}

func newImageUpload(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		`form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func uploadContext(t *testing.T, id string, body *bytes.Buffer, contentType string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/v1/resumes/"+id+"/upload-images", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("userID", uint(1))
	c.Params = gin.Params{{Key: "id", Value: id}}
	return c, w
}

func TestUploadImagesStoresThumbnail(t *testing.T) {
	uploads, resumes, blobs := newUploadFixture(t)

	created := createResume(t, resumes, map[string]any{"title": "With Image"})
	id := strconv.FormatUint(uint64(created.ID), 10)

	body, contentType := newImageUpload(t, "thumbnail", "thumb.jpg", "image/jpeg", []byte("jpeg-bytes"))
	c, w := uploadContext(t, id, body, contentType)
	uploads.UploadImages(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var stored string
	for key := range blobs.objects {
		if strings.HasPrefix(key, "thumbnails/1/") {
			stored = key
		}
	}
	if stored == "" {
		t.Fatalf("no thumbnail stored, objects=%v", blobs.objects)
	}
	if blobs.types[stored] != "image/jpeg" {
		t.Errorf("stored content type = %q", blobs.types[stored])
	}
}

func TestUploadImagesRejectsDisallowedMIME(t *testing.T) {
	uploads, resumes, blobs := newUploadFixture(t)

	created := createResume(t, resumes, map[string]any{"title": "No SVG"})
	id := strconv.FormatUint(uint64(created.ID), 10)

	body, contentType := newImageUpload(t, "thumbnail", "sneaky.svg", "image/svg+xml", []byte("<svg/>"))
	c, w := uploadContext(t, id, body, contentType)
	uploads.UploadImages(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	if len(blobs.objects) != 0 {
		t.Errorf("nothing should be stored, objects=%v", blobs.objects)
	}
}

func TestUploadImagesReplacesOldBlob(t *testing.T) {
	uploads, resumes, blobs := newUploadFixture(t)

	created := createResume(t, resumes, map[string]any{"title": "Replace"})
	id := strconv.FormatUint(uint64(created.ID), 10)

	for _, name := range []string{"first.jpg", "second.jpg"} {
		body, contentType := newImageUpload(t, "thumbnail", name, "image/jpeg", []byte(name))
		c, w := uploadContext(t, id, body, contentType)
		uploads.UploadImages(c)
		if w.Code != http.StatusOK {
			t.Fatalf("upload %s: expected 200 got %d body=%s", name, w.Code, w.Body.String())
		}
	}

	if len(blobs.deleted) != 1 {
		t.Errorf("replaced blobs deleted = %v, want 1", blobs.deleted)
	}
	if len(blobs.objects) != 1 {
		t.Errorf("stored objects = %d, want 1", len(blobs.objects))
	}
}

func TestStreamThumbnailMissingIsNotFound(t *testing.T) {
	uploads, resumes, _ := newUploadFixture(t)

	created := createResume(t, resumes, map[string]any{"title": "Bare"})
	id := strconv.FormatUint(uint64(created.ID), 10)

	req := httptest.NewRequest(http.MethodGet, "/v1/resumes/"+id+"/thumbnail", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: id}}

	uploads.StreamThumbnail(c)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestStreamThumbnailServesStoredContentType(t *testing.T) {
	uploads, resumes, _ := newUploadFixture(t)

	created := createResume(t, resumes, map[string]any{"title": "Served"})
	id := strconv.FormatUint(uint64(created.ID), 10)

	body, contentType := newImageUpload(t, "thumbnail", "thumb.png", "image/png", []byte("png-bytes"))
	c, w := uploadContext(t, id, body, contentType)
	uploads.UploadImages(c)
	if w.Code != http.StatusOK {
		t.Fatalf("upload: expected 200 got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/resumes/"+id+"/thumbnail", nil)
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: id}}

	uploads.StreamThumbnail(c)
	if w.Code != http.StatusOK {
		t.Fatalf("stream: expected 200 got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("content type = %q", got)
	}
	if w.Body.String() != "png-bytes" {
		t.Errorf("body = %q", w.Body.String())
	}
}
