package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/upscayl-gateway/internal/domain"
	"github.com/spf13/cobra"
)

// upscaleFlags are the request parameters shared by start and wait.
type upscaleFlags struct {
	model       string
	scale       string
	format      string
	enhanceFace bool
	urls        []string
}

func (f *upscaleFlags) register(cmd *cobra.Command) {
	defaults := domain.DefaultUpscaleRequest()
	cmd.Flags().StringVar(&f.model, "model", defaults.Model, "Upscaling model")
	cmd.Flags().StringVar(&f.scale, "scale", defaults.Scale, "Scale factor (2, 4 or 8)")
	cmd.Flags().StringVar(&f.format, "format", defaults.SaveImageAs, "Output format (jpg or png)")
	cmd.Flags().BoolVar(&f.enhanceFace, "enhance-face", defaults.EnhanceFace, "Enable face enhancement")
	cmd.Flags().StringSliceVar(&f.urls, "url", nil, "Remote image URL to upscale (repeatable)")
}

func (f *upscaleFlags) request() domain.UpscaleRequest {
	return domain.UpscaleRequest{
		Model:       f.model,
		Scale:       f.scale,
		SaveImageAs: strings.ToLower(f.format),
		EnhanceFace: f.enhanceFace,
		URLs:        f.urls,
	}
}

// readImages loads each path into memory. The content type comes from the
// file extension, falling back to sniffing the content.
func readImages(paths []string) ([]domain.UploadedImage, error) {
	images := make([]domain.UploadedImage, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		images = append(images, domain.UploadedImage{
			Filename:    filepath.Base(path),
			ContentType: contentTypeFor(path, content),
			Content:     content,
		})
	}
	return images, nil
}

func contentTypeFor(path string, content []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return http.DetectContentType(content)
}
