package gateway

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// QRGenerator renders tracking-number QR codes as PNG files under the
// uploads directory.
type QRGenerator struct {
	dir string
}

// NewQRGenerator creates the uploads directory if needed.
func NewQRGenerator(dir string) (*QRGenerator, error) {
	if dir == "" {
		dir = "public/uploads/qrcodes"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create qr upload dir: %w", err)
	}
	return &QRGenerator{dir: dir}, nil
}

// Generate writes a QR code encoding trackingNumber and returns the stored
// path.
func (g *QRGenerator) Generate(_ context.Context, trackingNumber string) (string, error) {
	fileName := fmt.Sprintf("%s_%d.png", trackingNumber, time.Now().UnixMilli())
	fullPath := filepath.Join(g.dir, fileName)

	if err := qrcode.WriteFile(trackingNumber, qrcode.Medium, qrImageSize, fullPath); err != nil {
		return "", fmt.Errorf("generate QR code for %s: %w", trackingNumber, err)
	}
	return filepath.Join("uploads/qrcodes", fileName), nil
}
