package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"studyaid-backend/internal/shared/telemetry"
)

// Result is the outcome of plain text extraction. Success is always true;
// degradation is signaled through Confidence and placeholder text.
type Result struct {
	Success       bool    `json:"success"`
	ExtractedText string  `json:"extractedText"`
	RawText       string  `json:"rawText"`
	Confidence    float64 `json:"confidence"`
}

// StructuredResult is the outcome of structured (document-layout) extraction.
type StructuredResult struct {
	Success        bool    `json:"success"`
	StructuredText string  `json:"structuredText"`
	Confidence     float64 `json:"confidence"`
}

const callTimeout = 60 * time.Second

// Service wraps Google Cloud Vision text detection. A nil client means the
// provider is not configured and every call degrades to the fallback.
type Service struct {
	client *vision.ImageAnnotatorClient
}

// New constructs the OCR service. Client construction errors are absorbed:
// the service stays usable and serves fallback results.
func New(ctx context.Context, credentialsFile, quotaProject string) *Service {
	var opts []option.ClientOption
	if strings.TrimSpace(credentialsFile) != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	if strings.TrimSpace(quotaProject) != "" {
		opts = append(opts, option.WithQuotaProject(quotaProject))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		telemetry.Warn("ocr.client_unavailable", map[string]any{"error": err.Error()})
		return &Service{}
	}
	return &Service{client: client}
}

// NewUnconfigured returns a service that always serves fallback results.
func NewUnconfigured() *Service {
	return &Service{}
}

// Configured reports whether a Vision client is available.
func (s *Service) Configured() bool {
	return s.client != nil
}

// Close releases the underlying client, if any.
func (s *Service) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// ExtractText runs plain text detection over the image bytes. It never returns
// a hard failure: provider errors and empty detections degrade to a
// confidence-zero placeholder naming the image file.
func (s *Service) ExtractText(ctx context.Context, imageName string, image []byte) Result {
	text, confidence, err := s.annotate(ctx, image, visionpb.Feature_TEXT_DETECTION)
	if err != nil || strings.TrimSpace(text) == "" {
		return s.fallback(imageName, err)
	}
	return Result{
		Success:       true,
		ExtractedText: NormalizeWhitespace(text),
		RawText:       text,
		Confidence:    confidence,
	}
}

// ExtractStructuredText runs document-layout text detection. If structured
// detection fails it falls back to plain detection before falling back to the
// placeholder.
func (s *Service) ExtractStructuredText(ctx context.Context, imageName string, image []byte) StructuredResult {
	text, confidence, err := s.annotate(ctx, image, visionpb.Feature_DOCUMENT_TEXT_DETECTION)
	if err != nil || strings.TrimSpace(text) == "" {
		plain := s.ExtractText(ctx, imageName, image)
		return StructuredResult{
			Success:        true,
			StructuredText: plain.ExtractedText,
			Confidence:     plain.Confidence,
		}
	}
	return StructuredResult{
		Success:        true,
		StructuredText: NormalizeWhitespace(text),
		Confidence:     confidence,
	}
}

func (s *Service) annotate(ctx context.Context, image []byte, feature visionpb.Feature_Type) (string, float64, error) {
	if s.client == nil {
		return "", 0, fmt.Errorf("vision client not configured")
	}
	if len(image) == 0 {
		return "", 0, fmt.Errorf("empty image")
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image:    &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{{Type: feature}},
			},
		},
	}

	resp, err := s.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", 0, fmt.Errorf("vision annotate: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", 0, nil
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return "", 0, fmt.Errorf("vision annotate: %s", r0.Error.Message)
	}

	fta := r0.FullTextAnnotation
	if fta == nil || strings.TrimSpace(fta.Text) == "" {
		return "", 0, nil
	}

	confidence := 0.0
	if len(fta.Pages) > 0 {
		confidence = avgBlockConfidence(fta.Pages[0].GetBlocks())
	}
	return fta.Text, confidence, nil
}

func (s *Service) fallback(imageName string, cause error) Result {
	fields := map[string]any{"image": imageName}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	telemetry.Warn("ocr.fallback", fields)

	text := fmt.Sprintf(
		"Text could not be extracted from %s. The OCR provider is unavailable or returned no detections; configure Google Cloud Vision credentials to enable text extraction.",
		imageName,
	)
	return Result{
		Success:       true,
		ExtractedText: text,
		RawText:       text,
		Confidence:    0,
	}
}

func avgBlockConfidence(blocks []*visionpb.Block) float64 {
	if len(blocks) == 0 {
		return 0
	}
	var sum float64
	n := 0
	for _, b := range blocks {
		if b == nil {
			continue
		}
		if b.Confidence > 0 {
			sum += float64(b.Confidence)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
