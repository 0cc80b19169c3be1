package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/app/config"
	apphttp "github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/app/http"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/app/http/handlers"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/infra/supabase"
	"github.com/SIDIQMUHAMMADTOHA24/karang-taruna-admin/internal/media"
)

const testToken = "test-token"

// fakeSupabase stands in for both the PostgREST surface and the storage
// bucket so handlers can be driven end to end over HTTP.
type fakeSupabase struct {
	mu           sync.Mutex
	activities   []map[string]interface{}
	uploads      []string
	removals     [][]string
	patches      []map[string]interface{}
	inserts      []map[string]interface{}
	uploadStatus int
}

func (f *fakeSupabase) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/storage/v1/object/content-images/"):
			key := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/content-images/")
			status := f.uploadStatus
			if status == 0 {
				status = http.StatusOK
			}
			if status == http.StatusOK {
				f.uploads = append(f.uploads, key)
			}
			w.WriteHeader(status)

		case r.Method == http.MethodDelete && r.URL.Path == "/storage/v1/object/content-images":
			var payload struct {
				Prefixes []string `json:"prefixes"`
			}
			json.NewDecoder(r.Body).Decode(&payload)
			f.removals = append(f.removals, payload.Prefixes)
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/activities":
			w.Header().Set("Content-Type", "application/json")
			rows := f.activities
			if id := r.URL.Query().Get("id"); id != "" {
				rows = nil
				for _, a := range f.activities {
					if fmt.Sprintf("eq.%v", a["id"]) == id {
						rows = append(rows, a)
					}
				}
			}
			if rows == nil {
				rows = []map[string]interface{}{}
			}
			json.NewEncoder(w).Encode(rows)

		case r.Method == http.MethodPatch && r.URL.Path == "/rest/v1/activities":
			var patch map[string]interface{}
			json.NewDecoder(r.Body).Decode(&patch)
			f.patches = append(f.patches, patch)
			w.WriteHeader(http.StatusNoContent)

		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/gallery_images":
			var payload map[string]interface{}
			json.NewDecoder(r.Body).Decode(&payload)
			f.inserts = append(f.inserts, payload)
			row := map[string]interface{}{
				"id":         1,
				"title":      payload["title"],
				"image_url":  payload["image_url"],
				"created_at": "2026-08-29T00:00:00Z",
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode([]map[string]interface{}{row})

		default:
			http.Error(w, "unexpected request "+r.Method+" "+r.URL.Path, http.StatusNotFound)
		}
	})
}

func newTestEnv(t *testing.T, fake *fakeSupabase) (http.Handler, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	cfg := config.Config{AdminToken: testToken, SupabaseBucket: "content-images"}
	sb := supabase.New(srv.URL, "service-key", "content-images", srv.Client())
	ing := media.NewIngestor(sb, zap.NewNop(), 1080, 85)
	h := handlers.New(nil, cfg, sb, ing, zap.NewNop())
	return apphttp.NewRouter(cfg, h, zap.NewNop()), srv
}

func smallJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 40)), nil); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func multipartBody(t *testing.T, filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(data)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func doRequest(router http.Handler, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("X-Internal-Token", testToken)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAddGalleryImageUploadsAndInserts(t *testing.T) {
	fake := &fakeSupabase{}
	router, _ := newTestEnv(t, fake)

	body, ct := multipartBody(t, "photo.jpg", "image/jpeg", smallJPEG(t), map[string]string{"title": "village meetup"})
	rec := doRequest(router, http.MethodPost, "/v1/gallery", body, ct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(fake.uploads) != 1 {
		t.Fatalf("expected exactly one upload, got %d", len(fake.uploads))
	}
	if len(fake.inserts) != 1 {
		t.Fatalf("expected exactly one insert, got %d", len(fake.inserts))
	}
	imageURL, _ := fake.inserts[0]["image_url"].(string)
	if !strings.Contains(imageURL, "/storage/v1/object/public/content-images/") {
		t.Fatalf("inserted row does not link a public store URL: %q", imageURL)
	}
	if !strings.HasSuffix(imageURL, ".jpg") {
		t.Fatalf("expected .jpg object key, got %q", imageURL)
	}
	if fake.inserts[0]["title"] != "village meetup" {
		t.Fatalf("unexpected title %v", fake.inserts[0]["title"])
	}
}

func TestAddGalleryImageRejectsNonImage(t *testing.T) {
	fake := &fakeSupabase{}
	router, _ := newTestEnv(t, fake)

	body, ct := multipartBody(t, "notes.txt", "text/plain", []byte("hello"), nil)
	rec := doRequest(router, http.MethodPost, "/v1/gallery", body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(fake.uploads) != 0 || len(fake.inserts) != 0 {
		t.Fatalf("rejected input must not reach the store or the table")
	}
}

func TestAttachActivityImageReplacesPrior(t *testing.T) {
	prior := "https://project.supabase.co/storage/v1/object/public/content-images/old-key.jpg"
	fake := &fakeSupabase{
		activities: []map[string]interface{}{
			{"id": 1, "title": "clean-up day", "image_url": prior},
		},
	}
	router, _ := newTestEnv(t, fake)

	body, ct := multipartBody(t, "new.jpg", "image/jpeg", smallJPEG(t), nil)
	rec := doRequest(router, http.MethodPost, "/v1/activities/1/image", body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(fake.removals) != 1 || len(fake.removals[0]) != 1 || fake.removals[0][0] != "old-key.jpg" {
		t.Fatalf("expected one deletion of the prior key, got %v", fake.removals)
	}
	if len(fake.uploads) != 1 {
		t.Fatalf("expected exactly one upload, got %d", len(fake.uploads))
	}
	if len(fake.patches) != 1 {
		t.Fatalf("expected exactly one link update, got %d", len(fake.patches))
	}
	linked, _ := fake.patches[0]["image_url"].(string)
	if !strings.Contains(linked, "/storage/v1/object/public/content-images/") {
		t.Fatalf("linked URL is not a public store URL: %q", linked)
	}
}

func TestAttachActivityImageUploadConflict(t *testing.T) {
	fake := &fakeSupabase{
		activities:   []map[string]interface{}{{"id": 1, "title": "clean-up day"}},
		uploadStatus: http.StatusConflict,
	}
	router, _ := newTestEnv(t, fake)

	body, ct := multipartBody(t, "new.jpg", "image/jpeg", smallJPEG(t), nil)
	rec := doRequest(router, http.MethodPost, "/v1/activities/1/image", body, ct)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if len(fake.patches) != 0 {
		t.Fatalf("conflict must not commit a link, got %v", fake.patches)
	}
}

func TestRemoveActivityImageKeepsExternalURL(t *testing.T) {
	fake := &fakeSupabase{
		activities: []map[string]interface{}{
			{"id": 2, "title": "fundraiser", "image_url": "https://cdn.example.com/banner.jpg"},
		},
	}
	router, _ := newTestEnv(t, fake)

	rec := doRequest(router, http.MethodDelete, "/v1/activities/2/image", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(fake.patches) != 1 {
		t.Fatalf("link must still be cleared, got %d patches", len(fake.patches))
	}
	if v, ok := fake.patches[0]["image_url"]; !ok || v != nil {
		t.Fatalf("expected image_url cleared to null, got %v", fake.patches[0])
	}
	if len(fake.removals) != 0 {
		t.Fatalf("external URL must not trigger a store delete, got %v", fake.removals)
	}
}

func TestRemoveActivityImageDeletesStoreObject(t *testing.T) {
	fake := &fakeSupabase{
		activities: []map[string]interface{}{
			{"id": 3, "title": "meeting", "image_url": "https://project.supabase.co/storage/v1/object/public/content-images/meet.jpg"},
		},
	}
	router, _ := newTestEnv(t, fake)

	rec := doRequest(router, http.MethodDelete, "/v1/activities/3/image", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(fake.removals) != 1 || fake.removals[0][0] != "meet.jpg" {
		t.Fatalf("expected the backing object deleted, got %v", fake.removals)
	}
}

func TestAdminTokenRequired(t *testing.T) {
	fake := &fakeSupabase{}
	router, _ := newTestEnv(t, fake)

	req := httptest.NewRequest(http.MethodGet, "/v1/activities", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
