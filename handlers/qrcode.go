package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// UploadQR renders the endpoint's shareable upload URL as a QR code
// PNG. Only active endpoints serve one.
func UploadQR(c *gin.Context) {
	endpoint, ok := getEndpoint(c)
	if !ok {
		return
	}
	if endpoint.UploadBlock() != "" {
		c.Status(http.StatusNotFound)
		return
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	png, err := qrcode.Encode(baseURL+endpoint.UploadURL(), qrcode.Medium, 256)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to render QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
