package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"pdfviewer/internal/document"
	"pdfviewer/internal/domain"
	log "pdfviewer/internal/infra/logging"
)

// DocumentService streams the configured PDF.
type DocumentService struct {
	Locator *document.Locator
}

// NewDocumentService creates a new DocumentService instance.
func NewDocumentService(loc *document.Locator) *DocumentService {
	return &DocumentService{Locator: loc}
}

// HandleDocument opens the document and streams it with PDF headers. A
// missing document yields 404 before any body byte is written.
func (svc *DocumentService) HandleDocument(c *fiber.Ctx) error {
	f, size, err := svc.Locator.Open()
	if err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			log.Warn("Document unavailable", "error", err, "request_id", requestID(c))
			return fiber.NewError(fiber.StatusNotFound, "Not Found")
		}
		return err
	}

	ref := svc.Locator.Reference()
	if ref.Disposition == "inline" {
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, ref.DownloadName))
	} else {
		c.Attachment(ref.DownloadName)
	}
	c.Set(fiber.HeaderContentType, document.MediaType)

	log.Debug("Streaming document", "path", ref.Path, "bytes", size, "request_id", requestID(c))

	// fasthttp closes f once the body has been written.
	return c.SendStream(f, int(size))
}

func requestID(c *fiber.Ctx) string {
	if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}
