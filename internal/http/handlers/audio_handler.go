// Audio HTTP handlers.
//
// This file exposes REST endpoints for audio clips:
//   - POST /upload/           (multipart upload, field "file")
//   - GET  /play/{filename}   (raw bytes with an audio content type)
//   - GET  /list/             (metadata, ETag support)
package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/akashparashar014/Video-Genration/internal/services"
)

// defaultAudioType is served when sniffing does not recognise the payload.
const defaultAudioType = "audio/mpeg"

//
// DTOs
//

// UploadAudioResponse acknowledges a stored clip.
type UploadAudioResponse struct {
	Message  string  `json:"message" example:"File uploaded"`
	Filename string  `json:"filename" example:"song.mp3"`
	SizeKB   float64 `json:"size_kb" example:"512.5"`
}

// AudioFileResponse is one entry of the audio listing.
type AudioFileResponse struct {
	ID       uint    `json:"id" example:"1"`
	Filename string  `json:"filename" example:"song.mp3"`
	SizeKB   float64 `json:"size_kb" example:"512.5"`
}

//
// Helpers
//

// readFormFile reads the whole multipart part named field.
func readFormFile(c *gin.Context, field string) (name, contentType string, data []byte, err error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", "", nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return "", "", nil, err
	}
	defer f.Close()

	data, err = io.ReadAll(f)
	if err != nil {
		return "", "", nil, err
	}
	return fh.Filename, fh.Header.Get("Content-Type"), data, nil
}

// isBodyTooLarge reports whether err came from the global body limit.
func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

// audioContentType sniffs data and falls back to audio/mpeg for anything
// that is not recognisably audio.
func audioContentType(data []byte) string {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "audio/") {
			return m.String()
		}
	}
	return defaultAudioType
}

//
// Handlers
//

// UploadAudio godoc
// @ID          uploadAudio
// @Summary     Upload an audio clip
// @Description Stores the uploaded file in the database. Only the configured extension (default .mp3) is accepted and filenames are unique.
// @Tags        Audio
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       file  formData  file  true  "Audio file"
//
// @Success     201  {object}  handlers.UploadAudioResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Filename already stored"
// @Failure     413  {object}  handlers.ErrorResponse  "Body too large"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /upload/ [post]
func (h *Handlers) UploadAudio(c *gin.Context) {
	name, _, data, err := readFormFile(c, "file")
	if err != nil {
		if isBodyTooLarge(err) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "multipart field \"file\" is required")
		return
	}

	a, err := h.audio.Upload(c.Request.Context(), name, data)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, UploadAudioResponse{Message: "File uploaded", Filename: a.Filename, SizeKB: a.SizeKB})
}

// PlayAudio godoc
// @ID          playAudio
// @Summary     Play an audio clip
// @Description Streams the stored bytes of a clip.
// @Tags        Audio
// @Produce     audio/mpeg
//
// @Param       filename  path  string  true  "Stored filename"  example(song.mp3)
//
// @Success     200  {file}    binary
// @Failure     404  {object}  handlers.ErrorResponse  "Audio file not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /play/{filename} [get]
func (h *Handlers) PlayAudio(c *gin.Context) {
	a, err := h.audio.Get(c.Request.Context(), c.Param("filename"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "Audio file not found.")
			return
		}
		failService(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": a.Filename}))
	c.Data(http.StatusOK, audioContentType(a.AudioData), a.AudioData)
}

// ListAudio godoc
// @ID          listAudio
// @Summary     List audio clips
// @Description Returns id, filename and size of every clip. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Audio
// @Produce     json
//
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"  example(W/\"audio:3:1700000000\")
//
// @Success     200  {array}   handlers.AudioFileResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /list/ [get]
func (h *Handlers) ListAudio(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort). Rows are immutable, so count plus newest
	// upload time identifies the listing.
	if count, latest, err := h.audio.Stats(ctx); err == nil {
		var ts int64
		if latest != nil {
			ts = latest.UnixNano()
		}
		etag := fmt.Sprintf(`W/"audio:%d:%d"`, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			notModified(c)
			return
		}
	}

	items, err := h.audio.List(ctx)
	if err != nil {
		failService(c, err)
		return
	}
	out := make([]AudioFileResponse, 0, len(items))
	for _, a := range items {
		out = append(out, AudioFileResponse{ID: a.ID, Filename: a.Filename, SizeKB: a.SizeKB})
	}
	ok(c, http.StatusOK, out)
}
