package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akashparashar014/Video-Genration/internal/domain"
	"github.com/akashparashar014/Video-Genration/internal/provider"
)

func decodeVideo(t *testing.T, w *httptest.ResponseRecorder) VideoResponse {
	t.Helper()
	var v VideoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("json: %v (body=%s)", err, w.Body.String())
	}
	return v
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v (body=%s)", err, w.Body.String())
	}
	return er
}

func TestGenerateVideo_SucceededThenStatus(t *testing.T) {
	p := &stubProvider{id: "task-1", poll: provider.Task{Status: provider.StatusSucceeded, OutputURL: "https://cdn/x.mp4"}}
	s := newTestServer(t, p)

	req := multipartRequest(t, "/api/v1/generate-video/", "image", "cat.png", "image/png", pngImage(t, 300, 200),
		map[string]string{"prompt": "cat jumping"})
	w := s.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("generate status=%d body=%s", w.Code, w.Body.String())
	}
	got := decodeVideo(t, w)
	want := VideoResponse{TaskID: "task-1", Prompt: "cat jumping", VideoURL: "https://cdn/x.mp4"}
	if got != want {
		t.Fatalf("generate body = %+v; want %+v", got, want)
	}

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v1/status/task-1", nil))
	if w.Code != http.StatusOK || decodeVideo(t, w) != want {
		t.Fatalf("status = %d %s", w.Code, w.Body.String())
	}
}

func TestGenerateVideo_FailureKinds(t *testing.T) {
	cases := []struct {
		name   string
		poll   provider.Task
		status int
		code   string
		msg    string
	}{
		{"task failed", provider.Task{Status: provider.StatusFailed, Failure: "moderation"}, http.StatusBadGateway, ErrCodeGenerationFailed, "Task failed: moderation"},
		{"timed out", provider.Task{Status: provider.StatusPending}, http.StatusGatewayTimeout, ErrCodeTimeout, "Video generation timed out"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, &stubProvider{id: "task-x", poll: tc.poll})
			w := s.do(multipartRequest(t, "/api/v1/generate-video/", "image", "a.jpg", "image/png", pngImage(t, 20, 20),
				map[string]string{"prompt": "p"}))
			if w.Code != tc.status {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			er := decodeError(t, w)
			if er.Code != tc.code || er.Message != tc.msg {
				t.Fatalf("body = %+v", er)
			}

			var n int64
			s.db.Model(&domain.GeneratedVideo{}).Count(&n)
			if n != 0 {
				t.Fatalf("stored %d records on failure", n)
			}
		})
	}
}

func TestGenerateVideo_RejectsBeforeSubmit(t *testing.T) {
	p := &stubProvider{id: "never"}
	s := newTestServer(t, p)

	// unsupported type
	w := s.do(multipartRequest(t, "/api/v1/generate-video/", "image", "a.gif", "image/gif", []byte("GIF89a"),
		map[string]string{"prompt": "p"}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("gif status=%d", w.Code)
	}
	if er := decodeError(t, w); er.Code != ErrCodeValidation || er.Message != "Only JPEG, JPG and PNG images are supported" {
		t.Fatalf("gif body = %+v", er)
	}

	// missing image part
	w = s.do(multipartRequest(t, "/api/v1/generate-video/", "", "", "", nil, map[string]string{"prompt": "p"}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing image status=%d", w.Code)
	}

	// missing prompt
	w = s.do(multipartRequest(t, "/api/v1/generate-video/", "image", "a.png", "image/png", pngImage(t, 10, 10), nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing prompt status=%d", w.Code)
	}

	if n := p.submitCount(); n != 0 {
		t.Fatalf("provider called %d times for rejected input", n)
	}
}

func TestGenerateVideo_IdempotencyKeyReplays(t *testing.T) {
	p := &stubProvider{id: "task-idem", poll: provider.Task{Status: provider.StatusSucceeded, OutputURL: "https://cdn/i.mp4"}}
	s := newTestServer(t, p)

	send := func() *httptest.ResponseRecorder {
		req := multipartRequest(t, "/api/v1/generate-video/", "image", "a.png", "image/png", pngImage(t, 10, 10),
			map[string]string{"prompt": "again"})
		req.Header.Set("Idempotency-Key", "gen-1")
		return s.do(req)
	}

	first := send()
	if first.Code != http.StatusOK {
		t.Fatalf("first status=%d body=%s", first.Code, first.Body.String())
	}
	second := send()
	if second.Code != http.StatusOK {
		t.Fatalf("second status=%d body=%s", second.Code, second.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("second response was not a replay")
	}
	if decodeVideo(t, first) != decodeVideo(t, second) {
		t.Fatalf("replay differs: %s vs %s", first.Body.String(), second.Body.String())
	}
	if n := p.submitCount(); n != 1 {
		t.Fatalf("provider submits = %d; want 1", n)
	}
}

func TestGenerateDummyVideo_AndStatus(t *testing.T) {
	p := &stubProvider{}
	s := newTestServer(t, p)

	w := s.do(multipartRequest(t, "/api/v2/generate-video-1/", "image", "a.png", "image/png", pngImage(t, 50, 50),
		map[string]string{"prompt": "dummy"}))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	v := decodeVideo(t, w)
	if v.TaskID == "" || v.Prompt != "dummy" || v.VideoURL != "https://www.example.com/dummy_video.mp4" {
		t.Fatalf("unexpected body: %+v", v)
	}
	if p.submitCount() != 0 {
		t.Fatalf("dummy variant contacted the provider")
	}

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/v2/status-1/"+v.TaskID, nil))
	if w.Code != http.StatusOK || decodeVideo(t, w) != v {
		t.Fatalf("status lookup = %d %s", w.Code, w.Body.String())
	}
}

func TestVideoStatus_NotFound(t *testing.T) {
	s := newTestServer(t, &stubProvider{})
	for _, url := range []string{"/api/v1/status/nope", "/api/v2/status-1/nope"} {
		w := s.do(httptest.NewRequest(http.MethodGet, url, nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s status=%d", url, w.Code)
		}
		if er := decodeError(t, w); er.Message != "Task not found" {
			t.Fatalf("%s body = %+v", url, er)
		}
	}
}
