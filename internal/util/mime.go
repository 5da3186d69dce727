package util

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/webp"
)

func DetectMIMEFromFile(file *os.File) (string, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return http.DetectContentType(buffer[:n]), nil
}

func IsImageMIME(mimeType string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	return strings.HasPrefix(cleaned, "image/")
}

func IsVideoMIME(mimeType string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	return strings.HasPrefix(cleaned, "video/")
}

// IsImageExtension reports the image formats DecodeImageConfig understands.
func IsImageExtension(extension string) bool {
	switch strings.ToLower(strings.TrimSpace(extension)) {
	case ".png", ".jpg", ".jpeg", ".jpe", ".jfif", ".gif", ".webp":
		return true
	default:
		return false
	}
}

func IsVideoExtension(extension string) bool {
	switch strings.ToLower(strings.TrimSpace(extension)) {
	case ".mp4", ".m4v", ".mov", ".webm", ".mkv", ".avi", ".mpeg", ".mpg", ".3gp", ".ogv", ".qt":
		return true
	default:
		return false
	}
}

// DecodeImageConfig reads the image header and returns its format and
// dimensions. Truncated or disguised files fail here rather than at the CDN.
func DecodeImageConfig(file *os.File) (string, image.Config, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", image.Config{}, err
	}

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return "", image.Config{}, fmt.Errorf("decode image: %w", err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", image.Config{}, err
	}

	return format, cfg, nil
}
