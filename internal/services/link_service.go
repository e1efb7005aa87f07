package services

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// LinkServiceImpl implements LinkService
type LinkServiceImpl struct{}

// NewLinkService creates a new link service
func NewLinkService() *LinkServiceImpl {
	return &LinkServiceImpl{}
}

// OpenLink opens a URL using the system default browser
func (s *LinkServiceImpl) OpenLink(ctx context.Context, rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	if err := s.ValidateURL(rawURL); err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	// Open URL based on operating system
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", rawURL)
	case "linux":
		cmd = exec.CommandContext(ctx, "xdg-open", rawURL)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	// Start the command (non-blocking)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open URL: %w", err)
	}

	return nil
}

// ValidateURL validates a URL for security and format
func (s *LinkServiceImpl) ValidateURL(urlStr string) error {
	if strings.TrimSpace(urlStr) == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	switch strings.ToLower(parsedURL.Scheme) {
	case "http", "https":
		// Allowed schemes
	case "":
		// If no scheme, assume https for web URLs
		if strings.Contains(urlStr, ".") {
			return nil
		}
		return fmt.Errorf("URL missing scheme")
	default:
		return fmt.Errorf("unsupported URL scheme: %s", parsedURL.Scheme)
	}

	return nil
}
