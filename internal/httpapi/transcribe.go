package httpapi

import (
	"errors"
	"io"
	"net/http"

	"telecom-care/internal/transcribe"
	"telecom-care/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	maxAudioBytes = 10 << 20

	replyTranscribeFailed = "Sorry, I couldn't reach the transcription service. Please check your connection and try again."
)

// Transcribe accepts a multipart "audio" file or a raw audio body.
func (h Handlers) Transcribe(c *gin.Context) {
	if h.Speech == nil {
		notConfigured(c, "transcription")
		return
	}
	audio, contentType, err := readAudio(c)
	if err != nil || len(audio) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No audio file provided"})
		return
	}

	text, err := h.Speech.Transcribe(c.Request.Context(), audio, contentType)
	switch {
	case errors.Is(err, transcribe.ErrNoAudio):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No audio file provided"})
		return
	case errors.Is(err, transcribe.ErrNotConfigured):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": replyTranscribeFailed})
		return
	case err != nil:
		logger.FromGin(c).Error("transcription failed", "bytes", len(audio), "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": replyTranscribeFailed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func readAudio(c *gin.Context) ([]byte, string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAudioBytes)
	if fh, err := c.FormFile("audio"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		b, err := io.ReadAll(f)
		return b, fh.Header.Get("Content-Type"), err
	}
	b, err := io.ReadAll(c.Request.Body)
	return b, c.ContentType(), err
}
