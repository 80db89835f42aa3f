// Video generation HTTP handlers.
//
// This file exposes the image-to-video endpoints:
//   - POST /api/v1/generate-video/        (provider-backed workflow)
//   - GET  /api/v1/status/{task_id}
//   - POST /api/v2/generate-video-1/      (dummy provider)
//   - GET  /api/v2/status-1/{task_id}
//
// Generation requests are multipart forms with an "image" file and a "prompt"
// field. The provider-backed endpoint blocks until the remote job finishes or
// the poll budget runs out.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akashparashar014/Video-Genration/internal/domain"
	"github.com/akashparashar014/Video-Genration/internal/http/middleware"
	"github.com/akashparashar014/Video-Genration/internal/services"
)

//
// DTOs
//

// VideoResponse is returned by generation and status endpoints.
type VideoResponse struct {
	TaskID   string `json:"task_id" example:"4b1a2c0e-7d3f-4a55-9e2b-3c1d9f0a8b77"`
	Prompt   string `json:"prompt" example:"cat jumping"`
	VideoURL string `json:"video_url" example:"https://cdn.example.com/x.mp4"`
}

func toVideoResponse(v *domain.GeneratedVideo) VideoResponse {
	return VideoResponse{TaskID: v.TaskID, Prompt: v.Prompt, VideoURL: v.VideoURL}
}

type generateFunc func(ctx context.Context, in services.GenerateInput) (*domain.GeneratedVideo, error)

// Generation kinds reported in metrics.
const (
	kindProvider = "provider"
	kindDummy    = "dummy"
)

//
// Helpers
//

// generate parses the form and runs fn. A request whose Idempotency-Key was
// already served on this route gets the stored record without running fn.
func (h *Handlers) generate(c *gin.Context, kind string, fn generateFunc) {
	ctx := c.Request.Context()
	scope := c.FullPath()
	key, hasKey := middleware.GetIdempotencyKey(c)

	if hasKey && middleware.IsReplay(c) {
		if v, err := h.videos.Replay(ctx, scope, key); err == nil {
			c.Header(middleware.HeaderIdempotentReplayed, "true")
			ok(c, http.StatusOK, toVideoResponse(v))
			return
		}
	}

	name, contentType, data, err := readFormFile(c, "image")
	if err != nil {
		if isBodyTooLarge(err) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "multipart field \"image\" is required")
		return
	}

	in := services.GenerateInput{
		Prompt:      c.PostForm("prompt"),
		Filename:    name,
		ContentType: contentType,
		Data:        data,
	}
	if hasKey {
		in.IdempotencyScope = scope
		in.IdempotencyKey = key
	}

	start := time.Now()
	v, err := fn(ctx, in)
	outcome := "ok"
	if err != nil {
		outcome = classify(err).code
	}
	middleware.ObserveGeneration(kind, outcome, time.Since(start))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, toVideoResponse(v))
}

// status serves a stored record by the task_id path parameter.
func (h *Handlers) status(c *gin.Context) {
	v, err := h.videos.Status(c.Request.Context(), c.Param("task_id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Task not found")
			return
		}
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, toVideoResponse(v))
}

//
// Handlers
//

// GenerateVideo godoc
// @ID          generateVideo
// @Summary     Generate a video from an image
// @Description Thumbnails the image, submits it with the prompt to the video provider, polls until the job finishes and stores the result. Blocks for up to the configured poll budget.
// @Tags        Video
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       Idempotency-Key  header    string  false  "Replay key"  example(gen-42)
// @Param       image            formData  file    true   "JPEG or PNG image"
// @Param       prompt           formData  string  true   "Text prompt"  example(cat jumping)
//
// @Success     200  {object}  handlers.VideoResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid input or image too large after encoding"
// @Failure     408  {object}  handlers.ErrorResponse  "Client went away"
// @Failure     413  {object}  handlers.ErrorResponse  "Body too large"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Failure     502  {object}  handlers.ErrorResponse  "Provider error or task failed"
// @Failure     503  {object}  handlers.ErrorResponse  "All generation slots busy"
// @Failure     504  {object}  handlers.ErrorResponse  "Video generation timed out"
// @Router      /api/v1/generate-video/ [post]
func (h *Handlers) GenerateVideo(c *gin.Context) {
	h.generate(c, kindProvider, h.videos.Generate)
}

// GetVideoStatus godoc
// @ID          getVideoStatus
// @Summary     Get video generation status
// @Description Returns the stored record for a task id.
// @Tags        Video
// @Produce     json
//
// @Param       task_id  path  string  true  "Task ID"
//
// @Success     200  {object}  handlers.VideoResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Task not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /api/v1/status/{task_id} [get]
func (h *Handlers) GetVideoStatus(c *gin.Context) {
	h.status(c)
}

// GenerateDummyVideo godoc
// @ID          generateDummyVideo
// @Summary     Generate a placeholder video
// @Description Validates and thumbnails the image like the real endpoint, then stores a record with a generated task id and a fixed video URL without contacting the provider.
// @Tags        Video
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       Idempotency-Key  header    string  false  "Replay key"  example(gen-42)
// @Param       image            formData  file    true   "JPEG or PNG image"
// @Param       prompt           formData  string  true   "Text prompt"  example(cat jumping)
//
// @Success     200  {object}  handlers.VideoResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid input or image too large after encoding"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /api/v2/generate-video-1/ [post]
func (h *Handlers) GenerateDummyVideo(c *gin.Context) {
	h.generate(c, kindDummy, h.videos.GenerateDummy)
}

// GetDummyVideoStatus godoc
// @ID          getDummyVideoStatus
// @Summary     Get placeholder video status
// @Description Returns the stored record for a task id.
// @Tags        Video
// @Produce     json
//
// @Param       task_id  path  string  true  "Task ID"
//
// @Success     200  {object}  handlers.VideoResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Task not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /api/v2/status-1/{task_id} [get]
func (h *Handlers) GetDummyVideoStatus(c *gin.Context) {
	h.status(c)
}
