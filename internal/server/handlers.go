package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoicebridge/internal/logger"
	"invoicebridge/internal/parser"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Invoice Extraction API is running."})
}

// handleExtract accepts a multipart PDF upload, forwards the bytes to the
// document-understanding service, persists the structured response and
// returns it. Non-PDF uploads are rejected; extraction output is passed
// through as-is, including the raw-text fallback shape.
func (s *Server) handleExtract(c *gin.Context) {
	reqID := uuid.New().String()
	log := logger.WithRequestID(reqID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing file upload"})
		return
	}
	if fileHeader.Header.Get("Content-Type") != "application/pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Only PDF files are supported"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	log.Info().
		Str("filename", fileHeader.Filename).
		Int("bytes", len(data)).
		Msg("Extraction upload received")

	result, err := s.extractor.ExtractInvoice(c.Request.Context(), data)
	if err != nil {
		log.Error().Err(err).Msg("Extraction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	saved, err := s.saveResponse(fileHeader.Filename, result)
	if err != nil {
		log.Error().Err(err).Msg("Failed to persist extraction response")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Extraction successful",
		"saved_file":   saved,
		"raw_response": result,
	})
}

// handleParse runs the heuristic field-extraction engine over a raw text
// body and returns the extracted record.
func (s *Server) handleParse(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unreadable request body"})
		return
	}
	c.JSON(http.StatusOK, parser.Parse(string(body)))
}

// saveResponse writes the structured response next to earlier ones, named
// after the uploaded file.
func (s *Server) saveResponse(filename string, result map[string]any) (string, error) {
	if err := os.MkdirAll(s.responsesDir, 0o755); err != nil {
		return "", fmt.Errorf("create responses dir: %w", err)
	}
	path := filepath.Join(s.responsesDir, filepath.Base(filename)+".json")
	data, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal response: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write response file: %w", err)
	}
	return path, nil
}
